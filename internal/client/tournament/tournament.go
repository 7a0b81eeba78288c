// Package tournament is the resource client for the backend's /tournaments
// surface.
//
// The error policy is asymmetric on purpose. Read operations are
// degrade-soft: network failures and unrecognized response shapes produce an
// empty collection or the fallback snapshot, never an error, because list
// and detail views must render something. Write operations propagate: the
// caller is expected to surface the backend's validation detail (duplicate
// join, invalid score) to the user.
package tournament

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/transport"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Metric resource labels.
const (
	resourceList          = "tournaments"
	resourceDetail        = "tournament_detail"
	resourceMatches       = "matches"
	resourceStandings     = "standings"
	resourceAnnouncements = "announcements"
	resourceParticipants  = "participants"
	resourceRegistrations = "my_registrations"
)

// Client exposes the tournament operations.
type Client struct {
	api *transport.Client
	log logger.Logger
}

// New creates a tournament client on top of the shared transport.
func New(api *transport.Client) *Client {
	return &Client{
		api: api,
		log: logger.Named("tournament"),
	}
}

// CreateTournamentInput is the admin tournament creation body.
type CreateTournamentInput struct {
	Name        string `json:"name"`
	Game        string `json:"game"`
	Format      string `json:"format,omitempty"`
	Status      string `json:"status,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	PrizePool   int    `json:"prize_pool,omitempty"`
	MaxTeams    int    `json:"max_teams,omitempty"`
}

// CreateMatchInput is the admin match creation body.
type CreateMatchInput struct {
	RoundName   string `json:"round_name,omitempty"`
	TeamA       string `json:"team_a"`
	TeamB       string `json:"team_b"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
}

// MatchResultInput records a finished match. Winner may be left empty; the
// backend derives it from the scores.
type MatchResultInput struct {
	TeamAScore int    `json:"team_a_score"`
	TeamBScore int    `json:"team_b_score"`
	Winner     string `json:"winner,omitempty"`
}

// AnnouncementInput is the admin announcement creation body.
type AnnouncementInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// joinRequest keeps an absent team name absent on the wire; the backend
// auto-names only when the field is missing, not when it is empty.
type joinRequest struct {
	TeamName *string `json:"team_name,omitempty"`
}

// Overview aggregates the read-only views of one tournament.
type Overview struct {
	Tournament    *model.Tournament
	Matches       []model.Match
	Standings     []model.StandingRow
	Announcements []model.Announcement
}

// All returns every tournament, falling back to the bundled snapshot when
// the backend is unreachable or answers with an unknown shape.
func (c *Client) All(ctx context.Context) []model.Tournament {
	payload, err := c.api.Get(ctx, "/tournaments")
	if err != nil {
		c.degrade(ctx, resourceList, err)
		return FallbackTournaments()
	}

	items, ok := decodeList[model.Tournament](payload)
	if !ok {
		c.mismatch(ctx, resourceList)
		return FallbackTournaments()
	}
	return items
}

// ByID returns one tournament, or nil for not-found and malformed
// responses; callers treat nil as a not-found state, not an error. When the
// backend is unreachable the fallback snapshot is consulted by id.
func (c *Client) ByID(ctx context.Context, id int) *model.Tournament {
	payload, err := c.api.Get(ctx, fmt.Sprintf("/tournaments/%d", id))
	if err != nil {
		c.degrade(ctx, resourceDetail, err)
		return fallbackTournamentByID(id)
	}

	item, ok := decodeObject[model.Tournament](payload, func(t model.Tournament) bool { return t.ID != 0 })
	if !ok {
		c.mismatch(ctx, resourceDetail)
		return nil
	}
	return item
}

// Matches returns the match list, empty on any failure.
func (c *Client) Matches(ctx context.Context, id int) []model.Match {
	return softList[model.Match](ctx, c, fmt.Sprintf("/tournaments/%d/matches", id), resourceMatches)
}

// Standings returns the server-computed ranking, empty on any failure. The
// rows arrive ordered by rank ascending and are never re-sorted locally.
func (c *Client) Standings(ctx context.Context, id int) []model.StandingRow {
	return softList[model.StandingRow](ctx, c, fmt.Sprintf("/tournaments/%d/standings", id), resourceStandings)
}

// Announcements returns the announcement feed, empty on any failure.
func (c *Client) Announcements(ctx context.Context, id int) []model.Announcement {
	return softList[model.Announcement](ctx, c, fmt.Sprintf("/tournaments/%d/announcements", id), resourceAnnouncements)
}

// Participants returns the registrations of a tournament, empty on any failure.
func (c *Client) Participants(ctx context.Context, id int) []model.Registration {
	return softList[model.Registration](ctx, c, fmt.Sprintf("/tournaments/%d/participants", id), resourceParticipants)
}

// MyRegistrations returns the current user's registrations, empty on any failure.
func (c *Client) MyRegistrations(ctx context.Context) []model.MyRegistration {
	return softList[model.MyRegistration](ctx, c, "/tournaments/me/registrations", resourceRegistrations)
}

// Overview fetches detail, matches, standings and announcements together
// and joins once all complete. Each leg degrades internally, so a failed
// leg ends as an empty default rather than poisoning the others.
func (c *Client) Overview(ctx context.Context, id int) Overview {
	var overview Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview.Tournament = c.ByID(gctx, id)
		return nil
	})
	g.Go(func() error {
		overview.Matches = c.Matches(gctx, id)
		return nil
	})
	g.Go(func() error {
		overview.Standings = c.Standings(gctx, id)
		return nil
	})
	g.Go(func() error {
		overview.Announcements = c.Announcements(gctx, id)
		return nil
	})
	_ = g.Wait()

	return overview
}

// Create creates a tournament. Admin-only server-side; errors propagate.
func (c *Client) Create(ctx context.Context, in CreateTournamentInput) (*model.Tournament, error) {
	payload, err := c.api.Post(ctx, "/tournaments", in)
	if err != nil {
		return nil, err
	}
	return decodeWrite[model.Tournament](payload)
}

// Join registers the current user. An empty teamName is forwarded as
// absent so the backend picks its auto-name. Errors propagate, carrying
// the backend detail (duplicate join, full bracket) to the caller.
func (c *Client) Join(ctx context.Context, id int, teamName string) (*model.JoinResult, error) {
	var req joinRequest
	if teamName != "" {
		req.TeamName = &teamName
	}

	payload, err := c.api.Post(ctx, fmt.Sprintf("/tournaments/%d/join", id), req)
	if err != nil {
		return nil, err
	}
	return decodeWrite[model.JoinResult](payload)
}

// CreateMatch schedules a match. Admin-only server-side; errors propagate.
func (c *Client) CreateMatch(ctx context.Context, id int, in CreateMatchInput) (*model.Match, error) {
	payload, err := c.api.Post(ctx, fmt.Sprintf("/tournaments/%d/matches", id), in)
	if err != nil {
		return nil, err
	}
	return decodeWrite[model.Match](payload)
}

// UpdateMatchResult records a finished match. Errors propagate.
func (c *Client) UpdateMatchResult(ctx context.Context, tournamentID, matchID int, in MatchResultInput) (*model.Match, error) {
	payload, err := c.api.Patch(ctx, fmt.Sprintf("/tournaments/%d/matches/%d/result", tournamentID, matchID), in)
	if err != nil {
		return nil, err
	}
	return decodeWrite[model.Match](payload)
}

// CreateAnnouncement publishes an announcement. Errors propagate.
func (c *Client) CreateAnnouncement(ctx context.Context, id int, in AnnouncementInput) (*model.Announcement, error) {
	payload, err := c.api.Post(ctx, fmt.Sprintf("/tournaments/%d/announcements", id), in)
	if err != nil {
		return nil, err
	}
	return decodeWrite[model.Announcement](payload)
}

// softList fetches and decodes a list endpoint with the degrade-soft policy.
func softList[T any](ctx context.Context, c *Client, path, resource string) []T {
	payload, err := c.api.Get(ctx, path)
	if err != nil {
		c.degrade(ctx, resource, err)
		return []T{}
	}

	items, ok := decodeList[T](payload)
	if !ok {
		c.mismatch(ctx, resource)
		return []T{}
	}
	return items
}

func (c *Client) degrade(ctx context.Context, resource string, err error) {
	metrics.RecordFallback(resource)
	c.log.Warn(ctx, "read degraded to fallback",
		logger.String("resource", resource), logger.Error(err))
}

func (c *Client) mismatch(ctx context.Context, resource string) {
	metrics.RecordShapeMismatch(resource)
	metrics.RecordFallback(resource)
	c.log.Warn(ctx, "unexpected response shape; using fallback",
		logger.String("resource", resource))
}

// decodeList accepts either a bare array or the wrapped {data: [...]} shape.
func decodeList[T any](payload []byte) ([]T, bool) {
	var direct []T
	if err := json.Unmarshal(payload, &direct); err == nil && direct != nil {
		return direct, true
	}

	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, true
	}
	return nil, false
}

// decodeObject accepts either a bare object or the wrapped {data: {...}}
// shape; valid reports whether a decoded candidate carries its identifying
// field.
func decodeObject[T any](payload []byte, valid func(T) bool) (*T, bool) {
	var direct T
	if err := json.Unmarshal(payload, &direct); err == nil && valid(direct) {
		return &direct, true
	}

	var wrapped struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Data != nil && valid(*wrapped.Data) {
		return wrapped.Data, true
	}
	return nil, false
}

// decodeWrite decodes a write response, propagating a shape error instead
// of degrading: the caller asked for a mutation and needs to know it could
// not be confirmed.
func decodeWrite[T any](payload []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return &out, nil
}
