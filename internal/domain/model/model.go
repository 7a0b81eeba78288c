// Package model contains the client-side record types exchanged with the
// tournament backend. Fields mirror the backend's JSON schemas; wire
// timestamps stay strings because the backend emits bare ISO datetimes.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Role is the sole authorization signal read by callers.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Tournament lifecycle states.
const (
	StatusRegistrationOpen = "registration_open"
	StatusUpcoming         = "upcoming"
	StatusLive             = "live"
	StatusCompleted        = "completed"
)

// Chat message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// User identifies the authenticated actor.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Tournament is a read-mostly snapshot fetched per view; the client never
// merges partial updates into it.
type Tournament struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Game              string `json:"game"`
	Format            string `json:"format"`
	Status            string `json:"status"`
	Location          string `json:"location,omitempty"`
	Description       string `json:"description,omitempty"`
	StartDate         string `json:"start_date,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	PrizePool         int    `json:"prize_pool"`
	MaxTeams          int    `json:"max_teams"`
	ParticipantsCount int    `json:"participants_count"`
	MatchesCount      int    `json:"matches_count"`
	IsRegistered      bool   `json:"is_registered"`
	CreatedAt         string `json:"created_at"`
}

// Registration is the join record of (user, tournament).
type Registration struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	UserID       int    `json:"user_id"`
	TeamName     string `json:"team_name"`
	Status       string `json:"status"`
	Points       int    `json:"points"`
	CreatedAt    string `json:"created_at"`
}

// JoinResult is the backend's response to a join request.
type JoinResult struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Registration Registration `json:"registration"`
}

// Match is a scheduled or finished pairing within a tournament. Scores and
// winner stay nil until a result is recorded.
type Match struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	RoundName    string `json:"round_name"`
	TeamA        string `json:"team_a"`
	TeamB        string `json:"team_b"`
	ScheduledAt  string `json:"scheduled_at,omitempty"`
	TeamAScore   *int   `json:"team_a_score,omitempty"`
	TeamBScore   *int   `json:"team_b_score,omitempty"`
	Winner       string `json:"winner,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// StandingRow is a server-computed ranking row, ordered by rank ascending.
// The client never sorts or mutates standings locally.
type StandingRow struct {
	Rank     int    `json:"rank"`
	UserID   int    `json:"user_id"`
	TeamName string `json:"team_name"`
	Points   int    `json:"points"`
	Status   string `json:"status"`
}

// Announcement is append-only from the client's perspective.
type Announcement struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
}

// MyRegistration is a row from /tournaments/me/registrations, joining the
// registration with its tournament.
type MyRegistration struct {
	RegistrationID int    `json:"registration_id"`
	TournamentID   int    `json:"tournament_id"`
	TournamentName string `json:"tournament_name"`
	Game           string `json:"game"`
	Status         string `json:"status"`
	TeamName       string `json:"team_name"`
	Points         int    `json:"points"`
	StartDate      string `json:"start_date,omitempty"`
}

// ChatMessage is an ephemeral, client-only transcript entry. It is never
// persisted or sent to the backend as-is.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage builds a transcript entry with a fresh id and timestamp.
func NewChatMessage(sender, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}
