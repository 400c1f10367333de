package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clubdirectory/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns the Postgres user store. It also implements Upsert for the
// add-user command.
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, username, role
		FROM users
		ORDER BY username
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, username, role
		FROM users
		WHERE id = $1
	`
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetCredentials(ctx context.Context, username string) (*domain.Credentials, error) {
	query := `
		SELECT id, username, role, pin_hash, salt
		FROM users
		WHERE username = $1
	`
	c := &domain.Credentials{}
	err := r.DB.QueryRowContext(ctx, query, username).Scan(&c.User.ID, &c.User.Username, &c.User.Role, &c.PinHash, &c.Salt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert creates the user or replaces its role and PIN.
func (r *userRepository) Upsert(ctx context.Context, c domain.Credentials) error {
	query := `
		INSERT INTO users (id, username, role, pin_hash, salt)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username, role = EXCLUDED.role, pin_hash = EXCLUDED.pin_hash, salt = EXCLUDED.salt
	`
	_, err := r.DB.ExecContext(ctx, query, c.User.ID, c.User.Username, c.User.Role, c.PinHash, c.Salt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrInvalidInput
		}
		return err
	}
	return nil
}

var _ domain.UserRepository = (*userRepository)(nil)
