package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchDecodePendingResult(t *testing.T) {
	// Backend emits null scores until a result is recorded.
	body := []byte(`{
		"id": 7,
		"tournament_id": 3,
		"round_name": "Quarterfinals",
		"team_a": "Nova Squad",
		"team_b": "Iron Hawks",
		"scheduled_at": "2026-09-04T18:00:00",
		"team_a_score": null,
		"team_b_score": null,
		"winner": null,
		"status": "scheduled",
		"created_at": "2026-08-30T10:00:00"
	}`)

	var m Match
	require.NoError(t, json.Unmarshal(body, &m))
	require.Equal(t, 7, m.ID)
	require.Nil(t, m.TeamAScore)
	require.Nil(t, m.TeamBScore)
	require.Empty(t, m.Winner)
	require.Equal(t, "scheduled", m.Status)
}

func TestJoinResultDecode(t *testing.T) {
	body := []byte(`{
		"success": true,
		"message": "Successfully joined tournament",
		"registration": {
			"id": 12,
			"tournament_id": 1,
			"user_id": 2,
			"team_name": "Player One",
			"status": "registered",
			"points": 0,
			"created_at": "2026-08-30T10:00:00"
		}
	}`)

	var r JoinResult
	require.NoError(t, json.Unmarshal(body, &r))
	require.True(t, r.Success)
	require.Equal(t, "Player One", r.Registration.TeamName)
	require.Equal(t, 1, r.Registration.TournamentID)
}

func TestNewChatMessage(t *testing.T) {
	a := NewChatMessage(SenderUser, "hi")
	b := NewChatMessage(SenderBot, "hello")

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, SenderUser, a.Sender)
	require.Equal(t, SenderBot, b.Sender)
	require.False(t, a.Timestamp.IsZero())
}
