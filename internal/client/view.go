package client

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"clubdirectory/internal/domain"
)

// SortBy selects the ordering of the visible list.
type SortBy string

const (
	SortNameAsc      SortBy = "name-asc"
	SortNameDesc     SortBy = "name-desc"
	SortSeatsDesc    SortBy = "seats-desc"
	SortCapacityDesc SortBy = "capacity-desc"
)

// ParseSortBy returns the SortBy for s, or false when s is not a known key.
func ParseSortBy(s string) (SortBy, bool) {
	switch SortBy(s) {
	case SortNameAsc, SortNameDesc, SortSeatsDesc, SortCapacityDesc:
		return SortBy(s), true
	}
	return "", false
}

// Criteria are the user-controlled inputs of the visible list.
type Criteria struct {
	SearchText string
	OnlyOpen   bool
	SortBy     SortBy
}

// DefaultCriteria shows everything sorted by name.
func DefaultCriteria() Criteria {
	return Criteria{SortBy: SortNameAsc}
}

// Visible filters and then stably sorts list according to c. list is never modified.
func Visible(list []domain.Club, c Criteria) []domain.Club {
	q := strings.ToLower(strings.TrimSpace(c.SearchText))
	out := make([]domain.Club, 0, len(list))
	for _, club := range list {
		if q != "" && !strings.Contains(strings.ToLower(club.Name), q) {
			continue
		}
		if c.OnlyOpen && domain.SeatsLeft(club) <= 0 {
			continue
		}
		out = append(out, club)
	}

	switch c.SortBy {
	case SortNameAsc, SortNameDesc:
		// Collator keeps internal buffers and is not safe to share across goroutines.
		col := collate.New(language.Und)
		sign := 1
		if c.SortBy == SortNameDesc {
			sign = -1
		}
		slices.SortStableFunc(out, func(a, b domain.Club) int {
			return sign * col.CompareString(a.Name, b.Name)
		})
	case SortSeatsDesc:
		slices.SortStableFunc(out, func(a, b domain.Club) int {
			return cmp.Compare(domain.SeatsLeft(b), domain.SeatsLeft(a))
		})
	case SortCapacityDesc:
		slices.SortStableFunc(out, func(a, b domain.Club) int {
			return cmp.Compare(b.Capacity, a.Capacity)
		})
	}
	return out
}

// View is the memoized visible list over a Directory. It recomputes lazily on the first
// read after the directory version or the criteria changed.
type View struct {
	dir *Directory

	mu        sync.Mutex
	criteria  Criteria
	cached    []domain.Club
	cachedVer uint64
	cachedFor Criteria
	valid     bool
	computes  int
}

// NewView returns a View over dir with DefaultCriteria.
func NewView(dir *Directory) *View {
	return &View{dir: dir, criteria: DefaultCriteria()}
}

func (v *View) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

func (v *View) SetCriteria(c Criteria) {
	v.mu.Lock()
	v.criteria = c
	v.mu.Unlock()
}

func (v *View) SetSearchText(s string) {
	v.mu.Lock()
	v.criteria.SearchText = s
	v.mu.Unlock()
}

func (v *View) SetOnlyOpen(b bool) {
	v.mu.Lock()
	v.criteria.OnlyOpen = b
	v.mu.Unlock()
}

func (v *View) SetSortBy(s SortBy) {
	v.mu.Lock()
	v.criteria.SortBy = s
	v.mu.Unlock()
}

// Visible returns the filtered and sorted clubs. Callers must not modify the result.
func (v *View) Visible() []domain.Club {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid && v.cachedFor == v.criteria && v.cachedVer == v.dir.Version() {
		return v.cached
	}
	list, ver := v.dir.snapshotVersion()
	v.cached = Visible(list, v.criteria)
	v.cachedVer = ver
	v.cachedFor = v.criteria
	v.valid = true
	v.computes++
	return v.cached
}
