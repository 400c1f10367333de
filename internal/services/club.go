package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"clubdirectory/internal/domain"
)

type clubService struct {
	clubRepo domain.ClubRepository
	logger   *slog.Logger
}

// NewClubService creates a ClubService backed by the given repository.
func NewClubService(clubRepo domain.ClubRepository, logger *slog.Logger) domain.ClubService {
	if logger == nil {
		logger = slog.Default()
	}
	return &clubService{clubRepo: clubRepo, logger: logger}
}

func (s *clubService) List(ctx context.Context) ([]domain.Club, error) {
	return s.clubRepo.List(ctx)
}

func (s *clubService) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	return s.clubRepo.GetByID(ctx, id)
}

func (s *clubService) Replace(ctx context.Context, actor *domain.User, club domain.Club) (*domain.Club, error) {
	if actor == nil {
		return nil, domain.ErrForbidden
	}
	club = club.Plain()
	club.Name = strings.TrimSpace(club.Name)
	if err := validateClub(club); err != nil {
		return nil, err
	}
	current, err := s.clubRepo.GetByID(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !addsOneEvent(*current, club) {
		return nil, fmt.Errorf("%w: only admins may change club details", domain.ErrForbidden)
	}
	if err := s.clubRepo.Replace(ctx, club); err != nil {
		return nil, fmt.Errorf("failed to replace club %s: %w", club.ID, err)
	}
	s.logger.InfoContext(ctx, "club replaced", "club_id", club.ID, "user_id", actor.ID)
	return &club, nil
}

func (s *clubService) PatchMembers(ctx context.Context, actor *domain.User, clubID string, members []domain.Member) (*domain.Club, error) {
	if actor == nil {
		return nil, domain.ErrForbidden
	}
	if members == nil {
		members = []domain.Member{}
	}
	if err := validateMembers(members); err != nil {
		return nil, err
	}
	current, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		joined, ok := togglesOnly(current.Members, members, actor.ID)
		if !ok {
			return nil, fmt.Errorf("%w: members may only add or remove themselves", domain.ErrForbidden)
		}
		if joined && domain.SeatsLeft(*current) <= 0 {
			return nil, fmt.Errorf("%w: club is at capacity", domain.ErrInvalidInput)
		}
	}
	if err := s.clubRepo.UpdateMembers(ctx, clubID, members); err != nil {
		return nil, fmt.Errorf("failed to update members of %s: %w", clubID, err)
	}
	updated := current.Plain()
	updated.Members = append([]domain.Member{}, members...)
	s.logger.InfoContext(ctx, "members updated", "club_id", clubID, "user_id", actor.ID, "members", len(members))
	return &updated, nil
}

func (s *clubService) ResetToSeed(ctx context.Context, actor *domain.User) ([]domain.Club, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may reset", domain.ErrForbidden)
	}
	if err := s.clubRepo.ReplaceAll(ctx, SeedClubs()); err != nil {
		return nil, fmt.Errorf("failed to reset clubs: %w", err)
	}
	s.logger.InfoContext(ctx, "clubs reset", "user_id", actor.ID)
	return s.clubRepo.List(ctx)
}

func validateClub(c domain.Club) error {
	if c.ID == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("%w: capacity must be zero or more", domain.ErrInvalidInput)
	}
	if err := validateMembers(c.Members); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Events))
	for _, e := range c.Events {
		if e.ID == "" {
			return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: duplicate event %s", domain.ErrInvalidInput, e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.Capacity < 1 {
			return fmt.Errorf("%w: event capacity must be at least 1", domain.ErrInvalidInput)
		}
	}
	return nil
}

func validateMembers(members []domain.Member) error {
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.ID == "" {
			return fmt.Errorf("%w: member id is required", domain.ErrInvalidInput)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: duplicate member %s", domain.ErrInvalidInput, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

// addsOneEvent reports whether next equals current with exactly one new event inserted.
func addsOneEvent(current, next domain.Club) bool {
	if current.Name != next.Name || current.Capacity != next.Capacity {
		return false
	}
	if !slices.Equal(current.Members, next.Members) {
		return false
	}
	if len(next.Events) != len(current.Events)+1 {
		return false
	}
	for skip := range next.Events {
		if current.EventIndex(next.Events[skip].ID) >= 0 {
			continue
		}
		rest := make([]domain.EventItem, 0, len(current.Events))
		rest = append(rest, next.Events[:skip]...)
		rest = append(rest, next.Events[skip+1:]...)
		if slices.Equal(current.Events, rest) {
			return true
		}
	}
	return false
}

// togglesOnly reports whether next differs from current only by userID joining or leaving.
// joined is true when userID is present in next but not in current.
func togglesOnly(current, next []domain.Member, userID string) (joined, ok bool) {
	without := func(list []domain.Member) ([]domain.Member, bool) {
		out := make([]domain.Member, 0, len(list))
		found := false
		for _, m := range list {
			if m.ID == userID {
				found = true
				continue
			}
			out = append(out, m)
		}
		return out, found
	}
	before, had := without(current)
	after, has := without(next)
	if !slices.Equal(before, after) {
		return false, false
	}
	return has && !had, true
}
