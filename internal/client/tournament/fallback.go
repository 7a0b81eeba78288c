package tournament

import "github.com/okian/arena/internal/domain/model"

// fallbackSnapshot mirrors the backend's seed tournaments so an offline
// client still renders a believable list. It is deliberately small and
// static; callers get copies so a caller mutating a row cannot taint later
// fallbacks.
var fallbackSnapshot = []model.Tournament{
	{
		ID:          1,
		Name:        "Valor Clash Invitational",
		Game:        "Valorant",
		Format:      "Double Elimination",
		Status:      model.StatusRegistrationOpen,
		Location:    "Online",
		Description: "Regional invitational with live streams and playoffs.",
		StartDate:   "2026-09-07T12:00:00",
		EndDate:     "2026-09-11T20:00:00",
		PrizePool:   25000,
		MaxTeams:    16,
	},
	{
		ID:          2,
		Name:        "Apex Arena Masters",
		Game:        "Apex Legends",
		Format:      "League + Finals",
		Status:      model.StatusUpcoming,
		Location:    "Los Angeles",
		Description: "Season-based points race ending in a LAN final.",
		StartDate:   "2026-09-18T10:00:00",
		EndDate:     "2026-09-21T22:00:00",
		PrizePool:   50000,
		MaxTeams:    20,
	},
	{
		ID:          3,
		Name:        "CS2 Night Cup",
		Game:        "Counter-Strike 2",
		Format:      "Single Elimination",
		Status:      model.StatusLive,
		Location:    "Online",
		Description: "Fast weekly cup for rising teams and creators.",
		StartDate:   "2026-08-30T18:00:00",
		EndDate:     "2026-09-01T23:00:00",
		PrizePool:   5000,
		MaxTeams:    8,
	},
}

// FallbackTournaments returns a fresh copy of the offline snapshot.
func FallbackTournaments() []model.Tournament {
	out := make([]model.Tournament, len(fallbackSnapshot))
	copy(out, fallbackSnapshot)
	return out
}

// fallbackTournamentByID looks a tournament up in the snapshot; nil when
// the id is not part of it.
func fallbackTournamentByID(id int) *model.Tournament {
	for _, t := range fallbackSnapshot {
		if t.ID == id {
			out := t
			return &out
		}
	}
	return nil
}
