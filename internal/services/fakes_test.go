package services

import (
	"context"
	"errors"
	"time"

	"clubdirectory/internal/domain"
)

// fakeClubRepo implements domain.ClubRepository for tests.
type fakeClubRepo struct {
	clubs      map[string]domain.Club
	order      []string
	replaceErr error
	replaced   []domain.Club
	patched    map[string][]domain.Member
	resetWith  []domain.Club
}

func newFakeClubRepo(clubs ...domain.Club) *fakeClubRepo {
	f := &fakeClubRepo{clubs: make(map[string]domain.Club), patched: make(map[string][]domain.Member)}
	for _, c := range clubs {
		f.clubs[c.ID] = c.Plain()
		f.order = append(f.order, c.ID)
	}
	return f
}

func (f *fakeClubRepo) List(ctx context.Context) ([]domain.Club, error) {
	out := make([]domain.Club, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.clubs[id].Plain())
	}
	return out, nil
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c, ok := f.clubs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := c.Plain()
	return &p, nil
}

func (f *fakeClubRepo) Replace(ctx context.Context, club domain.Club) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, club)
	f.clubs[club.ID] = club.Plain()
	return nil
}

func (f *fakeClubRepo) UpdateMembers(ctx context.Context, clubID string, members []domain.Member) error {
	c, ok := f.clubs[clubID]
	if !ok {
		return domain.ErrNotFound
	}
	f.patched[clubID] = members
	c.Members = members
	f.clubs[clubID] = c
	return nil
}

func (f *fakeClubRepo) ReplaceAll(ctx context.Context, clubs []domain.Club) error {
	f.resetWith = clubs
	f.clubs = make(map[string]domain.Club)
	f.order = nil
	for _, c := range clubs {
		f.clubs[c.ID] = c.Plain()
		f.order = append(f.order, c.ID)
	}
	return nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	users map[string]domain.Credentials
	err   error
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, c := range f.users {
		out = append(out, c.User)
	}
	return out, f.err
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, c := range f.users {
		if c.User.ID == id {
			u := c.User
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetCredentials(ctx context.Context, username string) (*domain.Credentials, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// fakePinHasher implements domain.PinHasher for tests.
type fakePinHasher struct{}

func (fakePinHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePinHasher) Hash(salt, pin string) (string, error) {
	return "hash-" + salt + pin, nil
}
func (fakePinHasher) Compare(hash, salt, pin string) error {
	if hash != "hash-"+salt+pin {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err        error
	lastExpiry time.Duration
}

func (f *fakeTokenIssuer) Issue(user domain.User, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastExpiry = expiry
	return "token-" + user.ID, nil
}

var errBoom = errors.New("boom")

var (
	admin  = &domain.User{ID: "u-admin", Username: "root", Role: domain.RoleAdmin}
	member = &domain.User{ID: "u-1", Username: "ann", Role: domain.RoleMember}
)

func chessClub() domain.Club {
	return domain.Club{
		ID:       "c-1",
		Name:     "Chess",
		Capacity: 2,
		Members:  []domain.Member{{ID: "u-2", Name: "bob"}},
		Events:   []domain.EventItem{{ID: "e-1", Title: "Blitz", DateISO: "2026-11-01", Capacity: 4}},
	}
}
