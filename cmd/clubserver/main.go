package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	_ "github.com/lib/pq"
	"golang.org/x/term"

	"clubdirectory/config"
	_ "clubdirectory/docs"
	"clubdirectory/internal/adapters/auth"
	httpdelivery "clubdirectory/internal/delivery/http"
	"clubdirectory/internal/delivery/http/controllers"
	"clubdirectory/internal/delivery/http/middleware"
	"clubdirectory/internal/domain"
	"clubdirectory/internal/repository/postgres"
	"clubdirectory/internal/services"
)

const ClubServerVersion = "0.1.0"

const bcryptCost = 10

// @title Club Directory API
// @version 1.0
// @description Authoritative store for the campus club directory.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	usage := `Club directory server.

Usage:
    clubserver serve
    clubserver migrate
    clubserver seed
    clubserver add-user <username> [--admin] [--id=<id>]
    clubserver -h | --help
    clubserver --version

Options:
    -h --help    Show this screen.
    --version    Show version.
    --admin      Give the user the admin role.
    --id=<id>    User id. Defaults to u-<username>.

The PIN for add-user is read from the terminal, or from CLUB_USER_PIN when stdin is not a terminal.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], ClubServerVersion)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	switch {
	case flag(opts, "serve"):
		err = serve(ctx, cfg, db, logger)
	case flag(opts, "migrate"):
		logger.Info("schema up to date")
	case flag(opts, "seed"):
		err = postgres.NewClubRepository(db).ReplaceAll(ctx, services.SeedClubs())
		if err == nil {
			logger.Info("clubs seeded", "count", len(services.SeedClubs()))
		}
	case flag(opts, "add-user"):
		err = addUser(ctx, opts, db, logger)
	}
	if err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func flag(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func serve(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) error {
	clubRepo := postgres.NewClubRepository(db)
	userRepo := postgres.NewUserRepository(db)
	tokens := auth.NewJWT(cfg.JWTSecret)

	clubService := services.NewClubService(clubRepo, logger)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userRepo, auth.NewPinHasher(bcryptCost), tokens, cfg.JWTExpiry)

	mux := httpdelivery.NewRouter(
		controllers.NewClubController(logger, clubService),
		controllers.NewUserController(logger, userService, authService),
		tokens,
		logger,
	)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func addUser(ctx context.Context, opts docopt.Opts, db *sql.DB, logger *slog.Logger) error {
	username, _ := opts.String("<username>")
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	id, _ := opts.String("--id")
	if id == "" {
		id = "u-" + username
	}
	role := domain.RoleMember
	if flag(opts, "--admin") {
		role = domain.RoleAdmin
	}

	pin, err := readPin()
	if err != nil {
		return err
	}

	hasher := auth.NewPinHasher(bcryptCost)
	salt, err := hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(salt, pin)
	if err != nil {
		return err
	}

	creds := domain.Credentials{
		User:    domain.User{ID: id, Username: username, Role: role},
		PinHash: hash,
		Salt:    salt,
	}
	if err := postgres.NewUserRepository(db).Upsert(ctx, creds); err != nil {
		return fmt.Errorf("failed to save user %s: %w", username, err)
	}
	logger.Info("user saved", "user_id", id, "username", username, "role", role)
	return nil
}

func readPin() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		pin := os.Getenv("CLUB_USER_PIN")
		if pin == "" {
			return "", fmt.Errorf("%w: CLUB_USER_PIN is required when stdin is not a terminal", domain.ErrInvalidInput)
		}
		return pin, nil
	}
	fmt.Fprint(os.Stderr, "PIN: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Repeat PIN: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("%w: PINs do not match", domain.ErrInvalidInput)
	}
	if len(first) == 0 {
		return "", fmt.Errorf("%w: PIN is required", domain.ErrInvalidInput)
	}
	return string(first), nil
}
