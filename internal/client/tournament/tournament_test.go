package tournament_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/okian/arena/internal/client/tournament"
	"github.com/okian/arena/internal/transport"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newClient wires a tournament client against the given handler.
func newClient(t *testing.T, handler http.Handler) *tournament.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return tournament.New(transport.New(srv.URL))
}

// deadClient wires a tournament client against a server that is already gone.
func deadClient(t *testing.T) *tournament.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return tournament.New(transport.New(url))
}

func TestAll(t *testing.T) {
	Convey("Given a healthy backend", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[{"id":7,"name":"Rocket Rumble","game":"Rocket League","status":"live"}]`))
		}))

		Convey("When listing tournaments", func() {
			got := client.All(context.Background())

			Convey("Then the server list should come back", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].ID, ShouldEqual, 7)
				So(got[0].Name, ShouldEqual, "Rocket Rumble")
			})
		})
	})

	Convey("Given a backend wrapping the list in a data envelope", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":[{"id":9,"name":"Wrapped Cup","game":"Dota 2","status":"upcoming"}]}`))
		}))

		got := client.All(context.Background())

		Convey("Then the envelope should be unwrapped", func() {
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, 9)
		})
	})

	Convey("Given an unreachable backend", t, func() {
		client := deadClient(t)

		Convey("When listing tournaments", func() {
			got := client.All(context.Background())

			Convey("Then the bundled snapshot should come back instead of an error", func() {
				So(got, ShouldHaveLength, 3)
				So(got[0].Name, ShouldEqual, "Valor Clash Invitational")
			})
		})
	})

	Convey("Given a backend answering with an unknown shape", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
		}))

		got := client.All(context.Background())

		Convey("Then the snapshot should be used as well", func() {
			So(got, ShouldHaveLength, 3)
		})
	})
}

func TestByID(t *testing.T) {
	Convey("Given a backend with one tournament", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/tournaments/7" {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"id":7,"name":"Rocket Rumble","game":"Rocket League","status":"live"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Tournament not found"}`))
		}))

		Convey("When fetching an existing id", func() {
			got := client.ByID(context.Background(), 7)

			So(got, ShouldNotBeNil)
			So(got.Name, ShouldEqual, "Rocket Rumble")
		})

		Convey("When fetching a missing id", func() {
			got := client.ByID(context.Background(), 99)

			Convey("Then nil should come back, not an error and not the snapshot", func() {
				So(got, ShouldBeNil)
			})
		})
	})

	Convey("Given an unreachable backend", t, func() {
		client := deadClient(t)

		Convey("When the id exists in the snapshot", func() {
			got := client.ByID(context.Background(), 1)

			So(got, ShouldNotBeNil)
			So(got.Name, ShouldEqual, "Valor Clash Invitational")
		})

		Convey("When the id is unknown to the snapshot too", func() {
			So(client.ByID(context.Background(), 99), ShouldBeNil)
		})
	})
}

func TestSoftReadsDegradeToEmpty(t *testing.T) {
	Convey("Given an unreachable backend", t, func() {
		client := deadClient(t)
		ctx := context.Background()

		Convey("Then every list read should degrade to an empty slice", func() {
			So(client.Matches(ctx, 1), ShouldBeEmpty)
			So(client.Standings(ctx, 1), ShouldBeEmpty)
			So(client.Announcements(ctx, 1), ShouldBeEmpty)
			So(client.Participants(ctx, 1), ShouldBeEmpty)
			So(client.MyRegistrations(ctx), ShouldBeEmpty)
		})
	})
}

func TestStandings(t *testing.T) {
	Convey("Given a backend returning ranked standings", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[{"rank":1,"user_id":4,"team_name":"Nova","points":9,"status":"active"},{"rank":2,"user_id":5,"team_name":"Umbra","points":6,"status":"active"}]`))
		}))

		got := client.Standings(context.Background(), 3)

		Convey("Then the server order should be preserved", func() {
			So(got, ShouldHaveLength, 2)
			So(got[0].Rank, ShouldEqual, 1)
			So(got[0].TeamName, ShouldEqual, "Nova")
			So(got[1].Rank, ShouldEqual, 2)
		})
	})
}

func TestJoin(t *testing.T) {
	Convey("Given a join endpoint that records its request body", t, func() {
		var gotBody []byte
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success":true,"message":"Joined","registration":{"id":11,"tournament_id":5,"user_id":2,"team_name":"Nova","status":"active","points":0}}`))
		}))

		Convey("When joining with a team name", func() {
			got, err := client.Join(context.Background(), 5, "Nova")

			So(err, ShouldBeNil)
			So(got.Success, ShouldBeTrue)
			So(got.Registration.TeamName, ShouldEqual, "Nova")

			var body map[string]any
			So(json.Unmarshal(gotBody, &body), ShouldBeNil)
			So(body["team_name"], ShouldEqual, "Nova")
		})

		Convey("When joining without a team name", func() {
			_, err := client.Join(context.Background(), 5, "")

			So(err, ShouldBeNil)

			Convey("Then the field should be absent on the wire, not empty", func() {
				var body map[string]any
				So(json.Unmarshal(gotBody, &body), ShouldBeNil)
				_, present := body["team_name"]
				So(present, ShouldBeFalse)
			})
		})
	})

	Convey("Given a backend rejecting a duplicate join", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"already joined"}`))
		}))

		Convey("When joining", func() {
			got, err := client.Join(context.Background(), 5, "Nova")

			Convey("Then the error should carry the backend detail to the caller", func() {
				So(got, ShouldBeNil)
				So(err, ShouldNotBeNil)

				statusErr, ok := transport.AsStatus(err)
				So(ok, ShouldBeTrue)
				So(statusErr.Detail, ShouldEqual, "already joined")
			})
		})
	})

	Convey("Given an unreachable backend", t, func() {
		client := deadClient(t)

		Convey("Then join should propagate the failure instead of degrading", func() {
			got, err := client.Join(context.Background(), 5, "Nova")
			So(got, ShouldBeNil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestAdminWrites(t *testing.T) {
	Convey("Given a backend accepting admin writes", t, func() {
		var gotMethod, gotPath string
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			w.WriteHeader(http.StatusOK)
			switch {
			case r.URL.Path == "/tournaments":
				_, _ = w.Write([]byte(`{"id":12,"name":"New Cup","game":"Chess","status":"registration_open"}`))
			case r.Method == http.MethodPatch:
				_, _ = w.Write([]byte(`{"id":4,"tournament_id":3,"team_a":"Nova","team_b":"Umbra","team_a_score":2,"team_b_score":1,"winner":"Nova","status":"completed"}`))
			case r.URL.Path == "/tournaments/3/matches":
				_, _ = w.Write([]byte(`{"id":4,"tournament_id":3,"round_name":"Final","team_a":"Nova","team_b":"Umbra","status":"scheduled"}`))
			default:
				_, _ = w.Write([]byte(`{"id":2,"tournament_id":3,"title":"Heads up","content":"Schedule moved"}`))
			}
		}))
		ctx := context.Background()

		Convey("When creating a tournament", func() {
			got, err := client.Create(ctx, tournament.CreateTournamentInput{Name: "New Cup", Game: "Chess"})

			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, 12)
			So(gotPath, ShouldEqual, "/tournaments")
		})

		Convey("When scheduling a match", func() {
			got, err := client.CreateMatch(ctx, 3, tournament.CreateMatchInput{RoundName: "Final", TeamA: "Nova", TeamB: "Umbra"})

			So(err, ShouldBeNil)
			So(got.RoundName, ShouldEqual, "Final")
			So(gotPath, ShouldEqual, "/tournaments/3/matches")
		})

		Convey("When recording a result", func() {
			got, err := client.UpdateMatchResult(ctx, 3, 4, tournament.MatchResultInput{TeamAScore: 2, TeamBScore: 1})

			So(err, ShouldBeNil)
			So(gotMethod, ShouldEqual, http.MethodPatch)
			So(gotPath, ShouldEqual, "/tournaments/3/matches/4/result")
			So(got.Winner, ShouldEqual, "Nova")
			So(*got.TeamAScore, ShouldEqual, 2)
		})

		Convey("When publishing an announcement", func() {
			got, err := client.CreateAnnouncement(ctx, 3, tournament.AnnouncementInput{Title: "Heads up", Content: "Schedule moved"})

			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, "Heads up")
			So(gotPath, ShouldEqual, "/tournaments/3/announcements")
		})
	})

	Convey("Given a backend rejecting the write", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"Admin access required"}`))
		}))

		_, err := client.Create(context.Background(), tournament.CreateTournamentInput{Name: "New Cup", Game: "Chess"})

		Convey("Then the rejection should propagate with its detail", func() {
			statusErr, ok := transport.AsStatus(err)
			So(ok, ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusForbidden)
			So(statusErr.Detail, ShouldEqual, "Admin access required")
		})
	})
}

func TestOverview(t *testing.T) {
	Convey("Given a backend serving every detail endpoint", t, func() {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			switch r.URL.Path {
			case "/tournaments/3":
				_, _ = w.Write([]byte(`{"id":3,"name":"CS2 Night Cup","game":"Counter-Strike 2","status":"live"}`))
			case "/tournaments/3/matches":
				_, _ = w.Write([]byte(`[{"id":4,"tournament_id":3,"team_a":"Nova","team_b":"Umbra","status":"scheduled"}]`))
			case "/tournaments/3/standings":
				_, _ = w.Write([]byte(`[{"rank":1,"user_id":4,"team_name":"Nova","points":9,"status":"active"}]`))
			case "/tournaments/3/announcements":
				_, _ = w.Write([]byte(`[{"id":2,"tournament_id":3,"title":"Live Broadcast","content":"Streaming now"}]`))
			}
		}))

		Convey("When fetching the overview", func() {
			got := client.Overview(context.Background(), 3)

			Convey("Then all four views should be populated", func() {
				So(got.Tournament, ShouldNotBeNil)
				So(got.Tournament.Name, ShouldEqual, "CS2 Night Cup")
				So(got.Matches, ShouldHaveLength, 1)
				So(got.Standings, ShouldHaveLength, 1)
				So(got.Announcements, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given an unreachable backend", t, func() {
		client := deadClient(t)

		Convey("When fetching the overview", func() {
			got := client.Overview(context.Background(), 99)

			Convey("Then every leg should degrade independently", func() {
				So(got.Tournament, ShouldBeNil)
				So(got.Matches, ShouldBeEmpty)
				So(got.Standings, ShouldBeEmpty)
				So(got.Announcements, ShouldBeEmpty)
			})
		})
	})
}
