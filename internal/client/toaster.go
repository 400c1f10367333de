package client

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"clubdirectory/internal/domain"
)

// DefaultToastTTL is how long a notification stays visible unless dismissed.
const DefaultToastTTL = 4000 * time.Millisecond

// Toaster is the in-process notification sink: a newest-first list of transient entries.
type Toaster struct {
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	list   []domain.Notification
	timers map[int]*time.Timer
}

// NewToaster returns a Toaster expiring entries after ttl (DefaultToastTTL when ttl <= 0).
func NewToaster(ttl time.Duration, logger *slog.Logger) *Toaster {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Toaster{
		ttl:    ttl,
		logger: logger,
		nextID: 1,
		timers: make(map[int]*time.Timer),
	}
}

// Show prepends a notification and schedules its expiry. It returns the entry id.
func (t *Toaster) Show(kind domain.NotificationKind, text string) int {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.list = slices.Insert(slices.Clone(t.list), 0, domain.Notification{ID: id, Kind: kind, Text: text})
	t.timers[id] = time.AfterFunc(t.ttl, func() { t.Dismiss(id) })
	t.mu.Unlock()

	level := slog.LevelInfo
	if kind == domain.NotifyError {
		level = slog.LevelWarn
	}
	t.logger.Log(context.Background(), level, "notification", "id", id, "kind", string(kind), "text", text)
	return id
}

// Dismiss removes the entry with id. Unknown ids are ignored.
func (t *Toaster) Dismiss(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
	t.list = slices.DeleteFunc(slices.Clone(t.list), func(n domain.Notification) bool { return n.ID == id })
}

// Clear removes every entry.
func (t *Toaster) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.list = nil
}

// List returns the visible entries, newest first.
func (t *Toaster) List() []domain.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.list)
}
