// Package console is the thin command front end over the resource clients.
// It parses arguments, checks the stored role for admin commands and prints
// results; all business behavior lives in the clients.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/arena/internal/client"
	"github.com/okian/arena/internal/client/auth"
	"github.com/okian/arena/internal/client/tournament"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/session"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Console dispatches commands against the API clients.
type Console struct {
	clients *client.Clients
	store   session.Store
	out     io.Writer
	log     logger.Logger
}

// New creates a console over the given clients and session store.
func New(clients *client.Clients, store session.Store, opts ...Option) *Console {
	c := &Console{
		clients: clients,
		store:   store,
		out:     os.Stdout,
		log:     logger.Named("console"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one command. args[0] is the command name, the rest are its
// positional arguments.
func (c *Console) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.ShowHelp()
		return nil
	}

	cmd, rest := args[0], args[1:]
	c.log.Debug(ctx, "running command", logger.String("command", cmd))

	switch cmd {
	case "login":
		return c.login(ctx, rest, c.clients.Auth.Login)
	case "login-user":
		return c.login(ctx, rest, c.clients.Auth.LoginAsUser)
	case "login-admin":
		return c.login(ctx, rest, c.clients.Auth.LoginAsAdmin)
	case "register":
		return c.register(ctx, rest)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami()
	case "list":
		return c.list(ctx)
	case "show":
		return c.show(ctx, rest)
	case "join":
		return c.join(ctx, rest)
	case "participants":
		return c.participants(ctx, rest)
	case "standings":
		return c.standings(ctx, rest)
	case "matches":
		return c.matches(ctx, rest)
	case "announcements":
		return c.announcements(ctx, rest)
	case "registrations":
		return c.registrations(ctx)
	case "create":
		return c.create(ctx, rest)
	case "create-match":
		return c.createMatch(ctx, rest)
	case "result":
		return c.result(ctx, rest)
	case "announce":
		return c.announce(ctx, rest)
	case "chat":
		return c.chat(ctx, rest)
	case "stats":
		return c.stats()
	case "help":
		c.ShowHelp()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (c *Console) login(ctx context.Context, args []string, fn func(context.Context, auth.Credentials) auth.Result) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: login <email> <password>", ErrUsage)
	}

	result := fn(ctx, auth.Credentials{Email: args[0], Password: args[1]})
	fmt.Fprintln(c.out, result.Message)
	if result.Success && result.Data != nil {
		fmt.Fprintf(c.out, "signed in as %s (%s)\n", result.Data.User.Email, result.Data.User.Role)
	}
	return nil
}

func (c *Console) register(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: register <email> <password> [name]", ErrUsage)
	}

	req := auth.RegisterRequest{Email: args[0], Password: args[1]}
	if len(args) > 2 {
		req.Name = strings.Join(args[2:], " ")
	}

	result := c.clients.Auth.Register(ctx, req)
	fmt.Fprintln(c.out, result.Message)
	return nil
}

func (c *Console) logout(ctx context.Context) error {
	result := c.clients.Auth.Logout(ctx)
	fmt.Fprintln(c.out, result.Message)
	return nil
}

func (c *Console) whoami() error {
	user := c.store.StoredUser()
	if user == nil {
		fmt.Fprintln(c.out, "not signed in")
		return nil
	}
	fmt.Fprintf(c.out, "%s <%s> role=%s\n", user.Name, user.Email, user.Role)
	return nil
}

func (c *Console) list(ctx context.Context) error {
	for _, t := range c.clients.Tournaments.All(ctx) {
		fmt.Fprintf(c.out, "#%d %s [%s] %s prize=%d teams=%d/%d\n",
			t.ID, t.Name, t.Status, t.Game, t.PrizePool, t.ParticipantsCount, t.MaxTeams)
	}
	return nil
}

func (c *Console) show(ctx context.Context, args []string) error {
	id, err := wantID(args, "show <id>")
	if err != nil {
		return err
	}

	overview := c.clients.Tournaments.Overview(ctx, id)
	if overview.Tournament == nil {
		fmt.Fprintf(c.out, "tournament %d not found\n", id)
		return nil
	}

	c.printTournament(*overview.Tournament)
	fmt.Fprintf(c.out, "matches: %d, standings rows: %d, announcements: %d\n",
		len(overview.Matches), len(overview.Standings), len(overview.Announcements))
	return nil
}

func (c *Console) join(ctx context.Context, args []string) error {
	if !c.store.IsAuthenticated() {
		return ErrLoginRequired
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: join <id> [team]", ErrUsage)
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: join <id> [team]", ErrUsage)
	}
	team := ""
	if len(args) > 1 {
		team = strings.Join(args[1:], " ")
	}

	result, err := c.clients.Tournaments.Join(ctx, id, team)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, result.Message)

	c.refresh(ctx, id)
	return nil
}

func (c *Console) participants(ctx context.Context, args []string) error {
	id, err := wantID(args, "participants <id>")
	if err != nil {
		return err
	}
	for _, p := range c.clients.Tournaments.Participants(ctx, id) {
		fmt.Fprintf(c.out, "%s (user %d) status=%s points=%d\n", p.TeamName, p.UserID, p.Status, p.Points)
	}
	return nil
}

func (c *Console) standings(ctx context.Context, args []string) error {
	id, err := wantID(args, "standings <id>")
	if err != nil {
		return err
	}
	c.printStandings(ctx, id)
	return nil
}

func (c *Console) matches(ctx context.Context, args []string) error {
	id, err := wantID(args, "matches <id>")
	if err != nil {
		return err
	}
	for _, m := range c.clients.Tournaments.Matches(ctx, id) {
		score := "vs"
		if m.TeamAScore != nil && m.TeamBScore != nil {
			score = fmt.Sprintf("%d:%d", *m.TeamAScore, *m.TeamBScore)
		}
		fmt.Fprintf(c.out, "#%d %s %s %s %s [%s]\n", m.ID, m.RoundName, m.TeamA, score, m.TeamB, m.Status)
	}
	return nil
}

func (c *Console) announcements(ctx context.Context, args []string) error {
	id, err := wantID(args, "announcements <id>")
	if err != nil {
		return err
	}
	for _, a := range c.clients.Tournaments.Announcements(ctx, id) {
		fmt.Fprintf(c.out, "[%s] %s\n", a.Title, a.Content)
	}
	return nil
}

func (c *Console) registrations(ctx context.Context) error {
	if !c.store.IsAuthenticated() {
		return ErrLoginRequired
	}
	for _, r := range c.clients.Tournaments.MyRegistrations(ctx) {
		fmt.Fprintf(c.out, "#%d %s (%s) team=%s points=%d\n",
			r.TournamentID, r.TournamentName, r.Game, r.TeamName, r.Points)
	}
	return nil
}

func (c *Console) create(ctx context.Context, args []string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: create <name> <game> [format]", ErrUsage)
	}

	in := tournament.CreateTournamentInput{Name: args[0], Game: args[1]}
	if len(args) > 2 {
		in.Format = strings.Join(args[2:], " ")
	}

	created, err := c.clients.Tournaments.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created tournament #%d %s\n", created.ID, created.Name)
	return nil
}

func (c *Console) createMatch(ctx context.Context, args []string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("%w: create-match <id> <teamA> <teamB> [round]", ErrUsage)
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: create-match <id> <teamA> <teamB> [round]", ErrUsage)
	}
	in := tournament.CreateMatchInput{TeamA: args[1], TeamB: args[2]}
	if len(args) > 3 {
		in.RoundName = strings.Join(args[3:], " ")
	}

	created, err := c.clients.Tournaments.CreateMatch(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "scheduled match #%d %s vs %s\n", created.ID, created.TeamA, created.TeamB)

	c.refresh(ctx, id)
	return nil
}

func (c *Console) result(ctx context.Context, args []string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) != 4 {
		return fmt.Errorf("%w: result <id> <matchId> <scoreA> <scoreB>", ErrUsage)
	}

	nums := make([]int, 4)
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: result <id> <matchId> <scoreA> <scoreB>", ErrUsage)
		}
		nums[i] = n
	}

	updated, err := c.clients.Tournaments.UpdateMatchResult(ctx, nums[0], nums[1],
		tournament.MatchResultInput{TeamAScore: nums[2], TeamBScore: nums[3]})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "recorded result for match #%d, winner: %s\n", updated.ID, updated.Winner)

	c.refresh(ctx, nums[0])
	return nil
}

func (c *Console) announce(ctx context.Context, args []string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("%w: announce <id> <title> <content...>", ErrUsage)
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: announce <id> <title> <content...>", ErrUsage)
	}

	created, err := c.clients.Tournaments.CreateAnnouncement(ctx, id,
		tournament.AnnouncementInput{Title: args[1], Content: strings.Join(args[2:], " ")})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "announced: %s\n", created.Title)
	return nil
}

func (c *Console) chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: chat <message...>", ErrUsage)
	}

	message := strings.Join(args, " ")
	prompt := model.NewChatMessage(model.SenderUser, message)
	reply := c.clients.AI.SendMessage(ctx, prompt.Text)
	answer := model.NewChatMessage(model.SenderBot, reply.Reply)

	fmt.Fprintf(c.out, "you: %s\n", prompt.Text)
	fmt.Fprintf(c.out, "bot: %s\n", answer.Text)
	return nil
}

// stats dumps the client-side metric counters.
func (c *Console) stats() error {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			default:
				continue
			}

			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			fmt.Fprintf(c.out, "%s{%s} %g\n", family.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}

// refresh re-fetches the read views that depend on a write instead of
// patching local state.
func (c *Console) refresh(ctx context.Context, id int) {
	if detail := c.clients.Tournaments.ByID(ctx, id); detail != nil {
		c.printTournament(*detail)
	}
	c.printStandings(ctx, id)
}

func (c *Console) printTournament(t model.Tournament) {
	fmt.Fprintf(c.out, "#%d %s\n", t.ID, t.Name)
	fmt.Fprintf(c.out, "  game: %s, format: %s, status: %s\n", t.Game, t.Format, t.Status)
	if t.Location != "" {
		fmt.Fprintf(c.out, "  location: %s\n", t.Location)
	}
	fmt.Fprintf(c.out, "  prize: %d, teams: %d/%d, registered: %v\n",
		t.PrizePool, t.ParticipantsCount, t.MaxTeams, t.IsRegistered)
}

func (c *Console) printStandings(ctx context.Context, id int) {
	for _, row := range c.clients.Tournaments.Standings(ctx, id) {
		fmt.Fprintf(c.out, "%2d. %s points=%d status=%s\n", row.Rank, row.TeamName, row.Points, row.Status)
	}
}

func (c *Console) requireAdmin() error {
	if !c.store.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

func wantID(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	return id, nil
}

// ShowHelp prints usage information for the console.
func (c *Console) ShowHelp() {
	fmt.Fprint(c.out, `Arena Tournament Console
========================

Usage:
  arena <command> [arguments]

Session:
  login <email> <password>         sign in (any role)
  login-user <email> <password>    sign in against the user endpoint
  login-admin <email> <password>   sign in against the admin endpoint
  register <email> <password> [name]
  logout                           clear the local session
  whoami                           show the stored user

Tournaments:
  list                             list tournaments
  show <id>                        tournament overview
  join <id> [team]                 join a tournament
  participants <id>                list registrations
  standings <id>                   show the ranking
  matches <id>                     list matches
  announcements <id>               list announcements
  registrations                    list your registrations

Admin:
  create <name> <game> [format]    create a tournament
  create-match <id> <teamA> <teamB> [round]
  result <id> <matchId> <scoreA> <scoreB>
  announce <id> <title> <content...>

Other:
  chat <message...>                talk to the assistant
  stats                            dump client metrics
  help                             show this help message
`)
}
