package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"clubdirectory/internal/delivery/http/helpers"
	"clubdirectory/internal/delivery/http/middleware"
	"clubdirectory/internal/domain"
)

// ReplaceClubRequest is the request body for PUT /clubs/{id}.
type ReplaceClubRequest struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Capacity int                `json:"capacity"`
	Members  []domain.Member    `json:"members"`
	Events   []domain.EventItem `json:"events"`
}

// Validate implements Validator.
func (c ReplaceClubRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.Capacity < 0 {
		errs = append(errs, "capacity must be zero or more")
	}
	return errs
}

// PatchMembersRequest is the request body for PATCH /clubs/{id}.
type PatchMembersRequest struct {
	Members []domain.Member `json:"members"`
}

// Validate implements Validator.
func (p PatchMembersRequest) Validate() []string {
	if p.Members == nil {
		return []string{"members is required"}
	}
	for _, m := range p.Members {
		if m.ID == "" {
			return []string{"member id is required"}
		}
	}
	return nil
}

type ClubController struct {
	Logger  *slog.Logger
	Service domain.ClubService
}

func NewClubController(logger *slog.Logger, svc domain.ClubService) *ClubController {
	return &ClubController{
		Logger:  logger,
		Service: svc,
	}
}

// ListClubs godoc
// @Summary List clubs
// @Description Returns the whole club directory in display order.
// @Tags clubs
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is a list of clubs"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs [get]
func (c *ClubController) ListClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := c.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, clubs)
}

// GetClub godoc
// @Summary Get a club
// @Tags clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} helpers.APIResponse "data is the club"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{id} [get]
func (c *ClubController) GetClub(w http.ResponseWriter, r *http.Request) {
	club, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// ReplaceClub godoc
// @Summary Replace a club record
// @Description Admins may change any field. Other users may only add exactly one event.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Param body body ReplaceClubRequest true "Whole club record"
// @Success 200 {object} helpers.APIResponse "data is the stored club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{id} [put]
func (c *ClubController) ReplaceClub(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")
	var req ReplaceClubRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if req.ID != "" && req.ID != id {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "id does not match path")
		return
	}
	club, err := c.Service.Replace(r.Context(), user, domain.Club{
		ID:       id,
		Name:     req.Name,
		Capacity: req.Capacity,
		Members:  req.Members,
		Events:   req.Events,
	})
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// PatchMembers godoc
// @Summary Replace the member list of a club
// @Description Non-admin users may only add or remove themselves.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Club ID"
// @Param body body PatchMembersRequest true "Members"
// @Success 200 {object} helpers.APIResponse "data is the updated club"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{id} [patch]
func (c *ClubController) PatchMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req PatchMembersRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	club, err := c.Service.PatchMembers(r.Context(), user, r.PathValue("id"), req.Members)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// Reset godoc
// @Summary Reset the directory to the seed data
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is the seeded club list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /reset [post]
func (c *ClubController) Reset(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	clubs, err := c.Service.ResetToSeed(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, clubs)
}
