package domain

import (
	"context"
	"math"
)

// Club is a directory record: identity, capacity, members holding seats and scheduled events.
// swagger:model Club
type Club struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Capacity int         `json:"capacity"`
	Members  []Member    `json:"members"`
	Events   []EventItem `json:"events"`
}

// Member is a participant holding one of a club's seats.
// swagger:model Member
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EventItem is a scheduled activity owned by a club.
// swagger:model EventItem
type EventItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DateISO     string `json:"dateIso"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

// EventInput is the payload for scheduling a new event on a club.
type EventInput struct {
	Title       string
	DateISO     string
	Capacity    int
	Description string
}

// SeatsLeft returns max(0, capacity - number of members).
func SeatsLeft(c Club) int {
	return max(0, c.Capacity-len(c.Members))
}

// PercentFull returns the rounded occupancy percentage clamped to [0, 100].
// A club without capacity is reported as 0% full.
func PercentFull(c Club) int {
	if c.Capacity <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(len(c.Members)) / float64(c.Capacity)))
	return min(100, max(0, pct))
}

// HasMember reports whether memberID holds a seat in the club.
func (c Club) HasMember(memberID string) bool {
	return c.MemberIndex(memberID) >= 0
}

// MemberIndex returns the position of memberID in the member list, or -1.
func (c Club) MemberIndex(memberID string) int {
	for i, m := range c.Members {
		if m.ID == memberID {
			return i
		}
	}
	return -1
}

// EventIndex returns the position of eventID in the event list, or -1.
func (c Club) EventIndex(eventID string) int {
	for i, e := range c.Events {
		if e.ID == eventID {
			return i
		}
	}
	return -1
}

// Plain returns a whitelisted deep copy of the club. Slices are never shared with the receiver.
func (c Club) Plain() Club {
	members := make([]Member, len(c.Members))
	for i, m := range c.Members {
		members[i] = Member{ID: m.ID, Name: m.Name}
	}
	events := make([]EventItem, len(c.Events))
	for i, e := range c.Events {
		events[i] = EventItem{
			ID:          e.ID,
			Title:       e.Title,
			DateISO:     e.DateISO,
			Capacity:    e.Capacity,
			Description: e.Description,
		}
	}
	return Club{
		ID:       c.ID,
		Name:     c.Name,
		Capacity: c.Capacity,
		Members:  members,
		Events:   events,
	}
}

// PlainClubs applies Plain to every record of list.
func PlainClubs(list []Club) []Club {
	out := make([]Club, len(list))
	for i, c := range list {
		out[i] = c.Plain()
	}
	return out
}

// ClubGateway is the client's view of the authoritative club store.
type ClubGateway interface {
	ListClubs(ctx context.Context) ([]Club, error)
	GetClub(ctx context.Context, id string) (*Club, error)
	ReplaceClub(ctx context.Context, club Club) error
	PatchMembers(ctx context.Context, clubID string, members []Member) error
	Reset(ctx context.Context) ([]Club, error)
}

// ClubRepository defines server-side club storage.
type ClubRepository interface {
	List(ctx context.Context) ([]Club, error)
	GetByID(ctx context.Context, id string) (*Club, error)
	Replace(ctx context.Context, club Club) error
	UpdateMembers(ctx context.Context, clubID string, members []Member) error
	ReplaceAll(ctx context.Context, clubs []Club) error
}

// ClubService defines the server-side business rules for the club directory.
type ClubService interface {
	List(ctx context.Context) ([]Club, error)
	GetByID(ctx context.Context, id string) (*Club, error)
	// Replace writes the whole record. Admins may change anything; other users may only add exactly one event.
	Replace(ctx context.Context, actor *User, club Club) (*Club, error)
	// PatchMembers replaces the member list. Non-admins may only add or remove themselves.
	PatchMembers(ctx context.Context, actor *User, clubID string, members []Member) (*Club, error)
	ResetToSeed(ctx context.Context, actor *User) ([]Club, error)
}
