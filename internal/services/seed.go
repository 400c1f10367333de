package services

import "clubdirectory/internal/domain"

// SeedClubs is the directory restored by a reset.
func SeedClubs() []domain.Club {
	return []domain.Club{
		{
			ID:       "c-chess",
			Name:     "Chess Club",
			Capacity: 12,
			Members:  []domain.Member{},
			Events: []domain.EventItem{
				{ID: "e-chess-1", Title: "Blitz night", DateISO: "2026-11-05", Capacity: 16, Description: "Five minute games, bring a clock if you have one."},
			},
		},
		{
			ID:       "c-astro",
			Name:     "Astronomy Society",
			Capacity: 8,
			Members:  []domain.Member{},
			Events: []domain.EventItem{
				{ID: "e-astro-1", Title: "Rooftop viewing", DateISO: "2026-11-12", Capacity: 10, Description: "Weather permitting."},
			},
		},
		{
			ID:       "c-robotics",
			Name:     "Robotics Lab",
			Capacity: 6,
			Members:  []domain.Member{},
			Events:   []domain.EventItem{},
		},
		{
			ID:       "c-choir",
			Name:     "Campus Choir",
			Capacity: 30,
			Members:  []domain.Member{},
			Events:   []domain.EventItem{},
		},
		{
			ID:       "c-hiking",
			Name:     "Hiking Club",
			Capacity: 15,
			Members:  []domain.Member{},
			Events: []domain.EventItem{
				{ID: "e-hiking-1", Title: "Ridge trail", DateISO: "2026-11-21", Capacity: 12, Description: ""},
			},
		},
		{
			ID:       "c-film",
			Name:     "Film Society",
			Capacity: 20,
			Members:  []domain.Member{},
			Events:   []domain.EventItem{},
		},
	}
}
