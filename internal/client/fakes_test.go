package client

import (
	"context"
	"sync"
	"time"

	"clubdirectory/internal/domain"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// fakeGateway implements domain.ClubGateway and domain.AuthGateway for client tests.
type fakeGateway struct {
	mu sync.Mutex

	clubs    []domain.Club
	seed     []domain.Club
	listErr  error
	getErr   error
	resetErr error
	writeErr error
	// release, when set, blocks every write until a value is received.
	release chan struct{}

	patches  []patchCall
	replaces []domain.Club

	loginResult *domain.LoginResult
	loginErr    error
}

type patchCall struct {
	clubID  string
	members []domain.Member
}

func (f *fakeGateway) ListClubs(ctx context.Context) ([]domain.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return domain.PlainClubs(f.clubs), nil
}

func (f *fakeGateway) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, c := range f.clubs {
		if c.ID == id {
			p := c.Plain()
			return &p, nil
		}
	}
	return nil, &domain.NetworkError{Op: "get club", Status: 404, Message: "not found"}
}

func (f *fakeGateway) ReplaceClub(ctx context.Context, club domain.Club) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces = append(f.replaces, club)
	return f.writeErr
}

func (f *fakeGateway) PatchMembers(ctx context.Context, clubID string, members []domain.Member) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patchCall{clubID: clubID, members: members})
	return f.writeErr
}

func (f *fakeGateway) Reset(ctx context.Context) ([]domain.Club, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return nil, f.resetErr
	}
	f.clubs = domain.PlainClubs(f.seed)
	return domain.PlainClubs(f.seed), nil
}

func (f *fakeGateway) Login(ctx context.Context, username, pin string) (*domain.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeGateway) setWriteErr(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

func (f *fakeGateway) patchCalls() []patchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]patchCall(nil), f.patches...)
}

func (f *fakeGateway) replaceCalls() []domain.Club {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Club(nil), f.replaces...)
}

func (f *fakeGateway) wait() {
	f.mu.Lock()
	ch := f.release
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

// fakeIdentity implements domain.Identity.
type fakeIdentity struct {
	mu   sync.Mutex
	user *domain.User
}

func (f *fakeIdentity) User() *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeIdentity) set(u *domain.User) {
	f.mu.Lock()
	f.user = u
	f.mu.Unlock()
}

// recordingNotifier implements domain.Notifier.
type recordingNotifier struct {
	mu    sync.Mutex
	shown []domain.Notification
}

func (r *recordingNotifier) Show(kind domain.NotificationKind, text string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := len(r.shown) + 1
	r.shown = append(r.shown, domain.Notification{ID: id, Kind: kind, Text: text})
	return id
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.shown...)
}

func sampleClubs() []domain.Club {
	return []domain.Club{
		{ID: "c-1", Name: "Chess", Capacity: 3, Members: []domain.Member{{ID: "u-1", Name: "ann"}}, Events: []domain.EventItem{}},
		{ID: "c-2", Name: "Astronomy", Capacity: 1, Members: []domain.Member{}, Events: []domain.EventItem{}},
		{ID: "c-3", Name: "robotics", Capacity: 2, Members: []domain.Member{{ID: "u-1", Name: "ann"}, {ID: "u-2", Name: "bob"}}, Events: []domain.EventItem{
			{ID: "e-1", Title: "Build night", DateISO: "2026-11-01", Capacity: 10, Description: "bring tools"},
		}},
	}
}
