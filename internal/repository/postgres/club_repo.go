package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"clubdirectory/internal/domain"
)

type clubRepository struct {
	DB *sql.DB
}

func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{DB: db}
}

func (r *clubRepository) List(ctx context.Context) ([]domain.Club, error) {
	query := `
		SELECT id, name, capacity, members, events
		FROM clubs
		ORDER BY position, id
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := make([]domain.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, *c)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	query := `
		SELECT id, name, capacity, members, events
		FROM clubs
		WHERE id = $1
	`
	c, err := scanClub(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clubRepository) Replace(ctx context.Context, club domain.Club) error {
	members, events, err := encodeLists(club)
	if err != nil {
		return err
	}
	query := `
		UPDATE clubs
		SET name = $2, capacity = $3, members = $4, events = $5
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, club.ID, club.Name, club.Capacity, members, events)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

func (r *clubRepository) UpdateMembers(ctx context.Context, clubID string, members []domain.Member) error {
	if members == nil {
		members = []domain.Member{}
	}
	b, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}
	query := `UPDATE clubs SET members = $2 WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, clubID, b)
	if err != nil {
		return err
	}
	return requireOneRow(result)
}

// ReplaceAll swaps the whole directory in one transaction, keeping the order of clubs.
func (r *clubRepository) ReplaceAll(ctx context.Context, clubs []domain.Club) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clubs`); err != nil {
		return err
	}
	query := `
		INSERT INTO clubs (id, name, capacity, members, events, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, c := range clubs {
		members, events, err := encodeLists(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, c.ID, c.Name, c.Capacity, members, events, i); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateClub, c.ID)
			}
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClub(row rowScanner) (*domain.Club, error) {
	c := &domain.Club{}
	var members, events []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Capacity, &members, &events); err != nil {
		return nil, err
	}
	c.Members = []domain.Member{}
	c.Events = []domain.EventItem{}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &c.Members); err != nil {
			return nil, fmt.Errorf("decode members of %s: %w", c.ID, err)
		}
	}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &c.Events); err != nil {
			return nil, fmt.Errorf("decode events of %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func encodeLists(c domain.Club) (members, events []byte, err error) {
	plain := c.Plain()
	if members, err = json.Marshal(plain.Members); err != nil {
		return nil, nil, fmt.Errorf("encode members: %w", err)
	}
	if events, err = json.Marshal(plain.Events); err != nil {
		return nil, nil, fmt.Errorf("encode events: %w", err)
	}
	return members, events, nil
}

func requireOneRow(result sql.Result) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
