package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"clubdirectory/internal/delivery/http/controllers"
	"clubdirectory/internal/delivery/http/middleware"
	"clubdirectory/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(clubController *controllers.ClubController, userController *controllers.UserController, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Clubs
	mux.HandleFunc("GET /clubs", optionalAuth(clubController.ListClubs))
	mux.HandleFunc("GET /clubs/{id}", optionalAuth(clubController.GetClub))
	mux.HandleFunc("PUT /clubs/{id}", requireAuth(clubController.ReplaceClub))
	mux.HandleFunc("PATCH /clubs/{id}", requireAuth(clubController.PatchMembers))
	mux.HandleFunc("POST /reset", requireAuth(clubController.Reset))

	// Users
	mux.HandleFunc("GET /users", optionalAuth(userController.ListUsers))
	mux.HandleFunc("POST /login", userController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
