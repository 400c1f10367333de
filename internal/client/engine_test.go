package client

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubdirectory/internal/domain"
)

type engineFixture struct {
	gw       *fakeGateway
	dir      *Directory
	identity *fakeIdentity
	notes    *recordingNotifier
	engine   *Engine
}

func newEngineFixture(t *testing.T, clubs []domain.Club) *engineFixture {
	t.Helper()
	gw := &fakeGateway{}
	notes := &recordingNotifier{}
	dir := NewDirectory(gw, notes, nil)
	dir.SetClubs(clubs)
	identity := &fakeIdentity{user: &domain.User{ID: "u-a", Username: "alice"}}
	engine := NewEngine(dir, gw, identity, notes, nil)
	t.Cleanup(engine.Close)
	return &engineFixture{gw: gw, dir: dir, identity: identity, notes: notes, engine: engine}
}

func (f *engineFixture) club(t *testing.T, id string) domain.Club {
	t.Helper()
	c, ok := f.dir.GetByID(id)
	require.True(t, ok)
	return c
}

func TestEngine_HoldSpotScenario(t *testing.T) {
	f := newEngineFixture(t, []domain.Club{{ID: "c-1", Name: "Solo", Capacity: 1}})

	require.NoError(t, f.engine.HoldSpot("c-1"))
	assert.Equal(t, 0, domain.SeatsLeft(f.club(t, "c-1")))

	f.identity.set(&domain.User{ID: "u-b", Username: "bob"})
	err := f.engine.HoldSpot("c-1")
	require.ErrorIs(t, err, domain.ErrAtCapacity)
	assert.Equal(t, "At capacity", err.Error())

	f.identity.set(&domain.User{ID: "u-a", Username: "alice"})
	err = f.engine.HoldSpot("c-1")
	require.ErrorIs(t, err, domain.ErrAlreadyHeld)
	assert.Equal(t, "Already held", err.Error())

	f.engine.Wait()
	calls := f.gw.patchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "c-1", calls[0].clubID)
	assert.Equal(t, []domain.Member{{ID: "u-a", Name: "alice"}}, calls[0].members)
}

func TestEngine_HoldSpotAlreadyHeld(t *testing.T) {
	f := newEngineFixture(t, []domain.Club{{ID: "c-1", Name: "Duo", Capacity: 2}})

	require.NoError(t, f.engine.HoldSpot("c-1"))
	err := f.engine.HoldSpot("c-1")
	require.ErrorIs(t, err, domain.ErrAlreadyHeld)
	assert.Equal(t, "Already held", err.Error())
	assert.Len(t, f.club(t, "c-1").Members, 1)
}

func TestEngine_ValidationFailuresTouchNothing(t *testing.T) {
	tests := []struct {
		name    string
		user    *domain.User
		run     func(e *Engine) error
		wantErr error
	}{
		{"hold without identity", nil, func(e *Engine) error { return e.HoldSpot("c-1") }, domain.ErrNotAllowed},
		{"hold unknown club", &domain.User{ID: "u-a"}, func(e *Engine) error { return e.HoldSpot("nope") }, domain.ErrNotAllowed},
		{"give up without identity", nil, func(e *Engine) error { return e.GiveUpSpot("c-1") }, domain.ErrNotAllowed},
		{"give up unknown club", &domain.User{ID: "u-a"}, func(e *Engine) error { return e.GiveUpSpot("nope") }, domain.ErrNotAllowed},
		{"give up without seat", &domain.User{ID: "u-z"}, func(e *Engine) error { return e.GiveUpSpot("c-1") }, domain.ErrNoSpotHeld},
		{"add event unknown club", &domain.User{ID: "u-a"}, func(e *Engine) error {
			return e.AddEvent("nope", domain.EventInput{Title: "x"})
		}, domain.ErrClubNotFound},
		{"add member twice", &domain.User{ID: "u-a"}, func(e *Engine) error {
			return e.AddMember("c-1", domain.Member{ID: "u-1", Name: "ann"})
		}, domain.ErrAlreadyMember},
		{"remove unknown member", &domain.User{ID: "u-a"}, func(e *Engine) error { return e.RemoveMember("c-1", "u-9") }, domain.ErrMemberNotFound},
		{"remove unknown event", &domain.User{ID: "u-a"}, func(e *Engine) error { return e.RemoveEvent("c-1", "e-9") }, domain.ErrEventNotFound},
		{"rename to blank", &domain.User{ID: "u-a"}, func(e *Engine) error { return e.UpdateDetails("c-1", "  ", 3) }, domain.ErrNameRequired},
		{"negative capacity", &domain.User{ID: "u-a"}, func(e *Engine) error { return e.UpdateDetails("c-1", "Chess", -1) }, domain.ErrNegativeCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, sampleClubs())
			f.identity.set(tt.user)
			before := f.dir.Version()

			err := tt.run(f.engine)
			require.ErrorIs(t, err, tt.wantErr)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)

			f.engine.Wait()
			assert.Equal(t, before, f.dir.Version())
			assert.Empty(t, f.gw.patchCalls())
			assert.Empty(t, f.gw.replaceCalls())
		})
	}
}

func TestEngine_GiveUpSpotScenario(t *testing.T) {
	f := newEngineFixture(t, []domain.Club{{ID: "c-1", Name: "Trio", Capacity: 3, Members: []domain.Member{
		{ID: "u-x", Name: "xena"}, {ID: "u-a", Name: "alice"}, {ID: "u-y", Name: "yuri"},
	}}})

	require.NoError(t, f.engine.GiveUpSpot("c-1"))
	assert.False(t, f.club(t, "c-1").HasMember("u-a"))

	err := f.engine.GiveUpSpot("c-1")
	require.ErrorIs(t, err, domain.ErrNoSpotHeld)
	assert.Equal(t, "No spot held", err.Error())

	f.engine.Wait()
	calls := f.gw.patchCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []domain.Member{{ID: "u-x", Name: "xena"}, {ID: "u-y", Name: "yuri"}}, calls[0].members)
}

func TestEngine_HoldSpotRollsBackOnRemoteFailure(t *testing.T) {
	original := []domain.Member{{ID: "u-2", Name: "bob"}, {ID: "u-1", Name: "ann"}}
	f := newEngineFixture(t, []domain.Club{{ID: "c-1", Name: "Chess", Capacity: 5, Members: original}})
	f.gw.setWriteErr(&domain.NetworkError{Op: "patch club", Status: 500, Message: "write rejected"})

	require.NoError(t, f.engine.HoldSpot("c-1"))
	assert.True(t, f.club(t, "c-1").HasMember("u-a"))

	f.engine.Wait()
	assert.Equal(t, original, f.club(t, "c-1").Members)

	notes := f.notes.all()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifyError, notes[0].Kind)
	assert.Equal(t, "write rejected", notes[0].Text)
}

func TestEngine_GiveUpSpotRollbackRestoresOrder(t *testing.T) {
	original := []domain.Member{{ID: "u-x", Name: "xena"}, {ID: "u-a", Name: "alice"}, {ID: "u-y", Name: "yuri"}}
	f := newEngineFixture(t, []domain.Club{{ID: "c-1", Name: "Trio", Capacity: 3, Members: original}})
	f.gw.setWriteErr(&domain.NetworkError{Op: "patch club", Message: domain.DefaultNetworkMessage})

	require.NoError(t, f.engine.GiveUpSpot("c-1"))
	f.engine.Wait()
	assert.Equal(t, original, f.club(t, "c-1").Members)
	require.Len(t, f.notes.all(), 1)
	assert.Equal(t, "Request failed", f.notes.all()[0].Text)
}

func TestEngine_AddEvent(t *testing.T) {
	f := newEngineFixture(t, sampleClubs())

	require.NoError(t, f.engine.AddEvent("c-3", domain.EventInput{
		Title:       " Spring Fest ",
		DateISO:     "2027-04-01",
		Capacity:    0,
		Description: "  outdoors ",
	}))

	events := f.club(t, "c-3").Events
	require.Len(t, events, 2)
	ev := events[0]
	assert.True(t, strings.HasPrefix(ev.ID, "e-"))
	assert.Equal(t, "Spring Fest", ev.Title)
	assert.Equal(t, 1, ev.Capacity)
	assert.Equal(t, "outdoors", ev.Description)
	assert.Equal(t, "2027-04-01", ev.DateISO)
	assert.Equal(t, "e-1", events[1].ID)

	require.NoError(t, f.engine.AddEvent("c-3", domain.EventInput{Title: "Second", Capacity: 30}))
	events = f.club(t, "c-3").Events
	assert.Equal(t, "Second", events[0].Title)
	assert.Equal(t, 30, events[0].Capacity)
	assert.Empty(t, events[0].Description)
	assert.NotEqual(t, events[0].ID, events[1].ID)

	f.engine.Wait()
	puts := f.gw.replaceCalls()
	require.Len(t, puts, 2)
	assert.Equal(t, "c-3", puts[0].ID)
	assert.Len(t, puts[1].Events, 3)
}

func TestEngine_AddEventRollsBack(t *testing.T) {
	f := newEngineFixture(t, sampleClubs())
	f.gw.setWriteErr(&domain.NetworkError{Op: "replace club", Status: 403, Message: "forbidden"})

	require.NoError(t, f.engine.AddEvent("c-1", domain.EventInput{Title: "Blitz", Capacity: 8}))
	f.engine.Wait()
	assert.Empty(t, f.club(t, "c-1").Events)
}

func TestEngine_MemberAndEventManagement(t *testing.T) {
	f := newEngineFixture(t, sampleClubs())

	require.NoError(t, f.engine.AddMember("c-1", domain.Member{ID: "u-7", Name: "gus"}))
	assert.Equal(t, "u-7", f.club(t, "c-1").Members[0].ID)

	require.NoError(t, f.engine.RemoveMember("c-3", "u-2"))
	assert.Equal(t, []string{"u-1"}, memberIDs(f.club(t, "c-3")))

	require.NoError(t, f.engine.RemoveEvent("c-3", "e-1"))
	assert.Empty(t, f.club(t, "c-3").Events)

	require.NoError(t, f.engine.UpdateDetails("c-2", " Stargazing ", 12))
	c := f.club(t, "c-2")
	assert.Equal(t, "Stargazing", c.Name)
	assert.Equal(t, 12, c.Capacity)

	f.engine.Wait()
	assert.Len(t, f.gw.patchCalls(), 2)
	assert.Len(t, f.gw.replaceCalls(), 2)
}

func TestEngine_ManagementRollsBack(t *testing.T) {
	f := newEngineFixture(t, sampleClubs())
	f.gw.setWriteErr(&domain.NetworkError{Op: "write", Message: "nope"})
	before := f.dir.Snapshot()

	require.NoError(t, f.engine.RemoveMember("c-3", "u-1"))
	require.NoError(t, f.engine.RemoveEvent("c-3", "e-1"))
	require.NoError(t, f.engine.UpdateDetails("c-2", "Stargazing", 12))
	require.NoError(t, f.engine.AddMember("c-1", domain.Member{ID: "u-7", Name: "gus"}))
	f.engine.Wait()

	assert.Equal(t, before, f.dir.Snapshot())
	assert.Len(t, f.notes.all(), 4)
}

func TestEngine_RollbackKeepsUnrelatedSuccessfulChange(t *testing.T) {
	f := newEngineFixture(t, []domain.Club{{ID: "c-1", Name: "Chess", Capacity: 5}})
	release := make(chan struct{})
	f.gw.mu.Lock()
	f.gw.release = release
	f.gw.mu.Unlock()

	// Alice's hold goes out first and will fail; Bob's later hold succeeds.
	f.gw.setWriteErr(&domain.NetworkError{Op: "patch club", Message: "conflict"})
	require.NoError(t, f.engine.HoldSpot("c-1"))
	f.identity.set(&domain.User{ID: "u-b", Username: "bob"})
	require.NoError(t, f.engine.HoldSpot("c-1"))
	assert.Equal(t, []string{"u-a", "u-b"}, memberIDs(f.club(t, "c-1")))

	release <- struct{}{}
	// Writes for one club are serialized; wait for the first to land before changing the outcome.
	require.Eventually(t, func() bool { return len(f.gw.patchCalls()) == 1 }, waitFor, tick)
	f.gw.setWriteErr(nil)
	release <- struct{}{}
	f.engine.Wait()

	assert.Equal(t, []string{"u-b"}, memberIDs(f.club(t, "c-1")))
	calls := f.gw.patchCalls()
	require.Len(t, calls, 2)
	// Each write carries the record computed when its command was applied.
	assert.Equal(t, []domain.Member{{ID: "u-a", Name: "alice"}}, calls[0].members)
	assert.Equal(t, []domain.Member{{ID: "u-a", Name: "alice"}, {ID: "u-b", Name: "bob"}}, calls[1].members)
	assert.Len(t, f.notes.all(), 1)
}

func TestEngine_CloseDrainsQueue(t *testing.T) {
	f := newEngineFixture(t, sampleClubs())
	require.NoError(t, f.engine.HoldSpot("c-1"))
	f.engine.Close()
	// Close waits for the queue; a second Close is harmless.
	f.engine.Close()
	assert.Len(t, f.gw.patchCalls(), 1)
}

// memberRuleGateway stores writes like the server does for a non-admin: a PUT may not
// touch the member list.
type memberRuleGateway struct {
	*fakeGateway
	stored domain.Club
}

func (g *memberRuleGateway) ReplaceClub(ctx context.Context, club domain.Club) error {
	if err := g.fakeGateway.ReplaceClub(ctx, club); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !slices.Equal(club.Members, g.stored.Members) {
		return &domain.NetworkError{Op: "replace club", Status: 403, Message: "only admins may change club details"}
	}
	g.stored = club
	return nil
}

func (g *memberRuleGateway) PatchMembers(ctx context.Context, clubID string, members []domain.Member) error {
	if err := g.fakeGateway.PatchMembers(ctx, clubID, members); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stored.Members = members
	return nil
}

func TestEngine_WritesCarryOnlyTheirOwnChange(t *testing.T) {
	start := domain.Club{ID: "c-1", Name: "Chess", Capacity: 3, Members: []domain.Member{}, Events: []domain.EventItem{}}
	release := make(chan struct{})
	gw := &memberRuleGateway{fakeGateway: &fakeGateway{release: release}, stored: start.Plain()}
	notes := &recordingNotifier{}
	dir := NewDirectory(gw, notes, nil)
	dir.SetClubs([]domain.Club{start})
	identity := &fakeIdentity{user: &domain.User{ID: "u-a", Username: "alice"}}
	engine := NewEngine(dir, gw, identity, notes, nil)
	t.Cleanup(engine.Close)

	// Both changes are applied locally before either write goes out.
	require.NoError(t, engine.AddEvent("c-1", domain.EventInput{Title: "Blitz", DateISO: "2026-12-01", Capacity: 8}))
	require.NoError(t, engine.HoldSpot("c-1"))
	release <- struct{}{}
	release <- struct{}{}
	engine.Wait()

	assert.Empty(t, notes.all())
	local, ok := dir.GetByID("c-1")
	require.True(t, ok)
	assert.Len(t, local.Events, 1)
	assert.Equal(t, []string{"u-a"}, memberIDs(local))

	replaces := gw.replaceCalls()
	require.Len(t, replaces, 1)
	assert.Empty(t, replaces[0].Members)
	require.Len(t, replaces[0].Events, 1)
	assert.Equal(t, "Blitz", replaces[0].Events[0].Title)

	gw.mu.Lock()
	stored := gw.stored
	gw.mu.Unlock()
	assert.Len(t, stored.Events, 1)
	assert.Equal(t, []domain.Member{{ID: "u-a", Name: "alice"}}, stored.Members)
}

func TestEngine_NilIdentityIsNotAllowed(t *testing.T) {
	gw := &fakeGateway{}
	dir := NewDirectory(gw, nil, nil)
	dir.SetClubs(sampleClubs())
	engine := NewEngine(dir, gw, nil, nil, nil)
	t.Cleanup(engine.Close)

	assert.ErrorIs(t, engine.HoldSpot("c-2"), domain.ErrNotAllowed)
	assert.ErrorIs(t, engine.GiveUpSpot("c-1"), domain.ErrNotAllowed)
	engine.Wait()
	assert.Empty(t, gw.patchCalls())
}
