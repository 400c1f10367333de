// Package client is the synchronization layer between callers and the club server:
// an in-memory mirror of the directory, a memoized filter/sort view over it and an
// engine that applies mutations optimistically before writing them remotely.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"clubdirectory/internal/domain"
)

const loadFailedMessage = "Failed to load clubs"

// Directory mirrors the authoritative club list.
// Records are treated as immutable values: every change replaces a whole record or the whole list.
type Directory struct {
	gateway  domain.ClubGateway
	notifier domain.Notifier
	logger   *slog.Logger

	mu      sync.RWMutex
	clubs   []domain.Club
	loading bool
	lastErr string
	version uint64

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewDirectory returns an empty Directory backed by gateway. notifier may be nil.
func NewDirectory(gateway domain.ClubGateway, notifier domain.Notifier, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Directory{
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
		subs:     make(map[int]func()),
	}
}

// Load fetches the full list from the server and replaces the local sequence.
// Concurrent loads are not coordinated: whichever response arrives last wins.
func (d *Directory) Load(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.lastErr = ""
	d.mu.Unlock()

	list, err := d.gateway.ListClubs(ctx)
	if err != nil {
		msg := domain.DisplayMessage(err)
		if msg == domain.DefaultNetworkMessage {
			msg = loadFailedMessage
		}
		d.mu.Lock()
		d.lastErr = msg
		d.loading = false
		d.mu.Unlock()
		d.logger.Error("load clubs", "err", err)
		d.notify(domain.NotifyError, msg)
		return fmt.Errorf("load clubs: %w", err)
	}

	d.mu.Lock()
	d.clubs = slices.Clone(list)
	d.loading = false
	d.version++
	d.mu.Unlock()
	d.logger.Debug("clubs loaded", "count", len(list))
	d.publish()
	return nil
}

// Refresh re-reads one club from the server and replaces its local entry.
func (d *Directory) Refresh(ctx context.Context, id string) error {
	club, err := d.gateway.GetClub(ctx, id)
	if err != nil {
		d.notify(domain.NotifyError, domain.DisplayMessage(err))
		return fmt.Errorf("get club %s: %w", id, err)
	}
	d.replace(*club)
	return nil
}

// SetClubs replaces the sequence wholesale.
func (d *Directory) SetClubs(list []domain.Club) {
	d.mu.Lock()
	d.clubs = slices.Clone(list)
	d.version++
	d.mu.Unlock()
	d.publish()
}

// ImportAll normalizes every record to the whitelisted shape and replaces the sequence.
func (d *Directory) ImportAll(list []domain.Club) {
	d.SetClubs(domain.PlainClubs(list))
}

// ExportAll returns whitelisted copies of every record.
func (d *Directory) ExportAll() []domain.Club {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return domain.PlainClubs(d.clubs)
}

// ExportJSON writes the interchange format (an indented JSON array) to w.
func (d *Directory) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.ExportAll()); err != nil {
		return fmt.Errorf("encode clubs: %w", err)
	}
	return nil
}

// ImportJSON reads the interchange format from r and imports it. Unknown fields are dropped.
func (d *Directory) ImportJSON(r io.Reader) error {
	var list []domain.Club
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return fmt.Errorf("decode clubs: %w", err)
	}
	d.ImportAll(list)
	return nil
}

// ResetToSeed asks the server to restore its seed data and mirrors the returned list.
func (d *Directory) ResetToSeed(ctx context.Context) error {
	list, err := d.gateway.Reset(ctx)
	if err != nil {
		d.notify(domain.NotifyError, domain.DisplayMessage(err))
		return fmt.Errorf("reset clubs: %w", err)
	}
	d.SetClubs(list)
	return nil
}

// GetByID returns the club with id, or false when absent.
func (d *Directory) GetByID(id string) (domain.Club, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i := d.indexLocked(id); i >= 0 {
		return d.clubs[i], true
	}
	return domain.Club{}, false
}

// Snapshot returns the current sequence. Callers must not modify the records.
func (d *Directory) Snapshot() []domain.Club {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.clubs)
}

// snapshotVersion returns the sequence together with the version it belongs to.
func (d *Directory) snapshotVersion() ([]domain.Club, uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.clubs), d.version
}

// Version changes every time the sequence changes.
func (d *Directory) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func (d *Directory) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

// Err returns the message of the last failed load, or "".
func (d *Directory) Err() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastErr
}

// Subscribe registers fn to be called after every change. The returned func unregisters it.
func (d *Directory) Subscribe(fn func()) func() {
	d.subMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.subMu.Unlock()
	return func() {
		d.subMu.Lock()
		delete(d.subs, id)
		d.subMu.Unlock()
	}
}

// update validates and applies fn to the club with id under the store lock, so no reader
// observes a half-applied mutation. fn returning an error leaves the store untouched.
func (d *Directory) update(id string, fn func(cur domain.Club) (domain.Club, error)) (prev domain.Club, err error) {
	d.mu.Lock()
	i := d.indexLocked(id)
	if i < 0 {
		d.mu.Unlock()
		return domain.Club{}, domain.ErrClubNotFound
	}
	prev = d.clubs[i]
	next, err := fn(prev)
	if err != nil {
		d.mu.Unlock()
		return prev, err
	}
	d.clubs = slices.Clone(d.clubs)
	d.clubs[i] = next
	d.version++
	d.mu.Unlock()
	d.publish()
	return prev, nil
}

// replace swaps the entry with the same id. Unknown ids are ignored.
func (d *Directory) replace(club domain.Club) {
	_, _ = d.update(club.ID, func(domain.Club) (domain.Club, error) { return club, nil })
}

func (d *Directory) indexLocked(id string) int {
	return slices.IndexFunc(d.clubs, func(c domain.Club) bool { return c.ID == id })
}

func (d *Directory) publish() {
	d.subMu.Lock()
	fns := make([]func(), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (d *Directory) notify(kind domain.NotificationKind, text string) {
	if d.notifier != nil {
		d.notifier.Show(kind, text)
	}
}
