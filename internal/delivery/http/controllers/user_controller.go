package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"clubdirectory/internal/delivery/http/helpers"
	"clubdirectory/internal/domain"
)

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Username) == "" {
		errs = append(errs, "username is required")
	}
	if l.Pin == "" {
		errs = append(errs, "pin is required")
	}
	return errs
}

type UserController struct {
	Logger *slog.Logger
	Users  domain.UserService
	Auth   domain.AuthService
}

func NewUserController(logger *slog.Logger, users domain.UserService, auth domain.AuthService) *UserController {
	return &UserController{
		Logger: logger,
		Users:  users,
		Auth:   auth,
	}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is a list of users"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username and PIN. Returns a bearer token and the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /login [post]
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Auth.Login(r.Context(), req.Username, req.Pin)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "user logged in", "user_id", res.User.ID)
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}
