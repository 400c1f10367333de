package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"clubdirectory/internal/domain"
)

type writeKind int

const (
	// writeMembers sends PATCH /clubs/{id} with the member list.
	writeMembers writeKind = iota
	// writeRecord sends PUT /clubs/{id} with the whole record.
	writeRecord
)

// command is one optimistic mutation. apply validates and computes the next record;
// compensate undoes only this command's effect on whatever the record looks like when
// the remote write fails.
type command struct {
	op         string
	clubID     string
	missing    error
	apply      func(cur domain.Club) (domain.Club, error)
	compensate func(cur domain.Club) domain.Club
	write      writeKind
	next       domain.Club
}

// Engine applies membership and event changes to the Directory before confirming them
// with the server, and compensates when the server rejects them.
type Engine struct {
	dir      *Directory
	gateway  domain.ClubGateway
	identity domain.Identity
	notifier domain.Notifier
	logger   *slog.Logger
	newID    func() string

	ctx    context.Context
	cancel context.CancelFunc
	queue  *writeQueue
}

// NewEngine returns an Engine mutating dir. Remote writes run on the engine's own context
// until Close is called. notifier may be nil; a nil identity means nobody is signed in.
func NewEngine(dir *Directory, gateway domain.ClubGateway, identity domain.Identity, notifier domain.Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		dir:      dir,
		gateway:  gateway,
		identity: identity,
		notifier: notifier,
		logger:   logger,
		newID:    func() string { return "e-" + ulid.Make().String() },
		ctx:      ctx,
		cancel:   cancel,
		queue:    newWriteQueue(),
	}
}

// Wait blocks until every pending remote write has finished (and been compensated if it failed).
func (e *Engine) Wait() {
	e.queue.wait()
}

// Close cancels in-flight writes and waits for them to settle.
func (e *Engine) Close() {
	e.cancel()
	e.queue.wait()
}

// AddEvent prepends a new event to the club. Capacity is raised to at least 1.
func (e *Engine) AddEvent(clubID string, in domain.EventInput) error {
	ev := domain.EventItem{
		ID:          e.newID(),
		Title:       strings.TrimSpace(in.Title),
		DateISO:     in.DateISO,
		Capacity:    max(1, in.Capacity),
		Description: strings.TrimSpace(in.Description),
	}
	return e.run(&command{
		op:      "add event",
		clubID:  clubID,
		missing: domain.ErrClubNotFound,
		write:   writeRecord,
		apply: func(cur domain.Club) (domain.Club, error) {
			cur.Events = slices.Insert(slices.Clone(cur.Events), 0, ev)
			return cur, nil
		},
		compensate: func(cur domain.Club) domain.Club {
			return withoutEvent(cur, ev.ID)
		},
	})
}

// RemoveEvent deletes an event from the club.
func (e *Engine) RemoveEvent(clubID, eventID string) error {
	var removed domain.EventItem
	var at int
	return e.run(&command{
		op:      "remove event",
		clubID:  clubID,
		missing: domain.ErrClubNotFound,
		write:   writeRecord,
		apply: func(cur domain.Club) (domain.Club, error) {
			at = cur.EventIndex(eventID)
			if at < 0 {
				return cur, domain.ErrEventNotFound
			}
			removed = cur.Events[at]
			return withoutEvent(cur, eventID), nil
		},
		compensate: func(cur domain.Club) domain.Club {
			if cur.EventIndex(eventID) >= 0 {
				return cur
			}
			cur.Events = slices.Insert(slices.Clone(cur.Events), min(at, len(cur.Events)), removed)
			return cur
		},
	})
}

// HoldSpot reserves a seat for the signed-in user.
func (e *Engine) HoldSpot(clubID string) error {
	user := e.actor()
	if user == nil {
		return domain.ErrNotAllowed
	}
	me := domain.Member{ID: user.ID, Name: user.Username}
	return e.run(&command{
		op:      "hold spot",
		clubID:  clubID,
		missing: domain.ErrNotAllowed,
		write:   writeMembers,
		apply: func(cur domain.Club) (domain.Club, error) {
			// Membership is checked first so a member of a full club is told they already hold a seat.
			if cur.HasMember(me.ID) {
				return cur, domain.ErrAlreadyHeld
			}
			if domain.SeatsLeft(cur) <= 0 {
				return cur, domain.ErrAtCapacity
			}
			cur.Members = append(slices.Clone(cur.Members), me)
			return cur, nil
		},
		compensate: func(cur domain.Club) domain.Club {
			return withoutMember(cur, me.ID)
		},
	})
}

// GiveUpSpot releases the signed-in user's seat.
func (e *Engine) GiveUpSpot(clubID string) error {
	user := e.actor()
	if user == nil {
		return domain.ErrNotAllowed
	}
	return e.removeMember("give up spot", clubID, user.ID, domain.ErrNotAllowed, domain.ErrNoSpotHeld)
}

// AddMember prepends member to the club on someone else's behalf.
func (e *Engine) AddMember(clubID string, member domain.Member) error {
	return e.run(&command{
		op:      "add member",
		clubID:  clubID,
		missing: domain.ErrClubNotFound,
		write:   writeMembers,
		apply: func(cur domain.Club) (domain.Club, error) {
			if cur.HasMember(member.ID) {
				return cur, domain.ErrAlreadyMember
			}
			cur.Members = slices.Insert(slices.Clone(cur.Members), 0, member)
			return cur, nil
		},
		compensate: func(cur domain.Club) domain.Club {
			return withoutMember(cur, member.ID)
		},
	})
}

// RemoveMember drops memberID from the club.
func (e *Engine) RemoveMember(clubID, memberID string) error {
	return e.removeMember("remove member", clubID, memberID, domain.ErrClubNotFound, domain.ErrMemberNotFound)
}

func (e *Engine) removeMember(op, clubID, memberID string, missingClub, missingMember error) error {
	var removed domain.Member
	var at int
	return e.run(&command{
		op:      op,
		clubID:  clubID,
		missing: missingClub,
		write:   writeMembers,
		apply: func(cur domain.Club) (domain.Club, error) {
			at = cur.MemberIndex(memberID)
			if at < 0 {
				return cur, missingMember
			}
			removed = cur.Members[at]
			return withoutMember(cur, memberID), nil
		},
		compensate: func(cur domain.Club) domain.Club {
			if cur.HasMember(memberID) {
				return cur
			}
			cur.Members = slices.Insert(slices.Clone(cur.Members), min(at, len(cur.Members)), removed)
			return cur
		},
	})
}

// UpdateDetails renames the club and changes its capacity.
func (e *Engine) UpdateDetails(clubID, name string, capacity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if capacity < 0 {
		return domain.ErrNegativeCapacity
	}
	var prevName string
	var prevCapacity int
	return e.run(&command{
		op:      "update details",
		clubID:  clubID,
		missing: domain.ErrClubNotFound,
		write:   writeRecord,
		apply: func(cur domain.Club) (domain.Club, error) {
			prevName, prevCapacity = cur.Name, cur.Capacity
			cur.Name, cur.Capacity = name, capacity
			return cur, nil
		},
		compensate: func(cur domain.Club) domain.Club {
			if cur.Name == name {
				cur.Name = prevName
			}
			if cur.Capacity == capacity {
				cur.Capacity = prevCapacity
			}
			return cur
		},
	})
}

// run validates and applies cmd locally, then queues the remote write behind any earlier
// write for the same club.
func (e *Engine) run(cmd *command) error {
	_, err := e.dir.update(cmd.clubID, func(cur domain.Club) (domain.Club, error) {
		next, err := cmd.apply(cur)
		if err != nil {
			return cur, err
		}
		cmd.next = next
		return next, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrClubNotFound) && cmd.missing != nil {
			return cmd.missing
		}
		return err
	}
	e.logger.Debug("optimistic apply", "op", cmd.op, "club_id", cmd.clubID)
	e.queue.enqueue(cmd.clubID, func() { e.send(cmd) })
	return nil
}

// send writes the record this command computed when it was applied, so each write
// carries its own change and none of the later ones queued behind it.
func (e *Engine) send(cmd *command) {
	club := cmd.next.Plain()

	var err error
	switch cmd.write {
	case writeMembers:
		err = e.gateway.PatchMembers(e.ctx, cmd.clubID, club.Members)
	case writeRecord:
		err = e.gateway.ReplaceClub(e.ctx, club)
	}
	if err == nil {
		return
	}

	e.logger.Warn("remote write failed, rolling back", "op", cmd.op, "club_id", cmd.clubID, "err", err)
	_, _ = e.dir.update(cmd.clubID, func(cur domain.Club) (domain.Club, error) {
		return cmd.compensate(cur), nil
	})
	if e.notifier != nil {
		e.notifier.Show(domain.NotifyError, domain.DisplayMessage(err))
	}
}

// actor is the signed-in user, or nil when there is none or the engine has no identity.
func (e *Engine) actor() *domain.User {
	if e.identity == nil {
		return nil
	}
	return e.identity.User()
}

func withoutMember(c domain.Club, memberID string) domain.Club {
	c.Members = slices.DeleteFunc(slices.Clone(c.Members), func(m domain.Member) bool { return m.ID == memberID })
	return c
}

func withoutEvent(c domain.Club, eventID string) domain.Club {
	c.Events = slices.DeleteFunc(slices.Clone(c.Events), func(ev domain.EventItem) bool { return ev.ID == eventID })
	return c
}

// writeQueue runs jobs sharing a key one at a time in enqueue order. Jobs with
// different keys run concurrently.
type writeQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
	wg    sync.WaitGroup
}

func newWriteQueue() *writeQueue {
	return &writeQueue{tails: make(map[string]chan struct{})}
}

func (q *writeQueue) enqueue(key string, job func()) {
	q.mu.Lock()
	prev := q.tails[key]
	done := make(chan struct{})
	q.tails[key] = done
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if prev != nil {
			<-prev
		}
		job()
		close(done)

		q.mu.Lock()
		if q.tails[key] == done {
			delete(q.tails, key)
		}
		q.mu.Unlock()
	}()
}

func (q *writeQueue) wait() {
	q.wg.Wait()
}
