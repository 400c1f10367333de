package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/docopt/docopt-go"
	"golang.org/x/term"

	"clubdirectory/config"
	"clubdirectory/internal/adapters/gateway"
	"clubdirectory/internal/client"
	"clubdirectory/internal/domain"
)

// app wires the client core for one command invocation.
type app struct {
	out         io.Writer
	logger      *slog.Logger
	sessionPath string

	gateway *gateway.Client
	session *client.Session
	toaster *client.Toaster
	dir     *client.Directory
	view    *client.View
	engine  *client.Engine
}

type savedSession struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func newApp(cfg *config.Config, out io.Writer, logger *slog.Logger, sessionPath string) (*app, error) {
	gw := gateway.New(cfg.APIBase, nil, cfg.HTTPTimeout)
	session := client.NewSession(gw)
	gw.SetTokenSource(session)
	toaster := client.NewToaster(cfg.ToastTTL, logger)
	dir := client.NewDirectory(gw, toaster, logger)

	a := &app{
		out:         out,
		logger:      logger,
		sessionPath: sessionPath,
		gateway:     gw,
		session:     session,
		toaster:     toaster,
		dir:         dir,
		view:        client.NewView(dir),
		engine:      client.NewEngine(dir, gw, session, toaster, logger),
	}
	if err := a.restoreSession(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	a.engine.Close()
	a.toaster.Clear()
}

func (a *app) dispatch(opts docopt.Opts) error {
	ctx := context.Background()
	cmd := func(name string) bool {
		v, _ := opts.Bool(name)
		return v
	}
	arg := func(name string) string {
		v, _ := opts.String(name)
		return v
	}

	switch {
	case cmd("list"):
		return a.list(ctx, opts)
	case cmd("show"):
		return a.show(ctx, arg("<club_id>"))
	case cmd("login"):
		return a.login(ctx, arg("<username>"))
	case cmd("logout"):
		return a.logout()
	case cmd("whoami"):
		return a.whoami()
	case cmd("users"):
		return a.users(ctx)
	case cmd("hold"):
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.HoldSpot(id) })
	case cmd("give-up"):
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.GiveUpSpot(id) })
	case cmd("add-event"):
		capacity := 1
		if arg("--capacity") != "" {
			n, err := opts.Int("--capacity")
			if err != nil {
				return fmt.Errorf("capacity must be a number")
			}
			capacity = n
		}
		in := domain.EventInput{
			Title:       arg("--title"),
			DateISO:     arg("--date"),
			Capacity:    capacity,
			Description: arg("--description"),
		}
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.AddEvent(id, in) })
	case cmd("remove-event"):
		eventID := arg("<event_id>")
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.RemoveEvent(id, eventID) })
	case cmd("add-member"):
		m := domain.Member{ID: arg("<member_id>"), Name: arg("<name>")}
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.AddMember(id, m) })
	case cmd("remove-member"):
		memberID := arg("<member_id>")
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.RemoveMember(id, memberID) })
	case cmd("edit"):
		capacity, err := opts.Int("--capacity")
		if err != nil {
			return fmt.Errorf("capacity must be a number")
		}
		name := arg("--name")
		return a.mutate(ctx, arg("<club_id>"), func(id string) error { return a.engine.UpdateDetails(id, name, capacity) })
	case cmd("export"):
		return a.export(ctx, arg("--out"))
	case cmd("import"):
		return a.importFile(arg("<file>"), arg("--sort"))
	case cmd("reset"):
		return a.reset(ctx)
	}
	return fmt.Errorf("unknown command")
}

func (a *app) load(ctx context.Context, retries int) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = a.dir.Load(ctx); err == nil {
			return nil
		}
		a.logger.Debug("load failed", "attempt", attempt+1, "err", err)
	}
	return errors.New(a.dir.Err())
}

func (a *app) list(ctx context.Context, opts docopt.Opts) error {
	retries, err := opts.Int("--retry")
	if err != nil || retries < 0 {
		retries = 0
	}
	if err := a.load(ctx, retries); err != nil {
		return err
	}
	criteria := client.DefaultCriteria()
	criteria.SearchText, _ = opts.String("--search")
	criteria.OnlyOpen, _ = opts.Bool("--open")
	if s, _ := opts.String("--sort"); s != "" {
		sortBy, ok := client.ParseSortBy(s)
		if !ok {
			return fmt.Errorf("unknown sort key %q", s)
		}
		criteria.SortBy = sortBy
	}
	a.view.SetCriteria(criteria)
	return a.printTable(a.view.Visible())
}

func (a *app) show(ctx context.Context, id string) error {
	if err := a.load(ctx, 0); err != nil {
		return err
	}
	c, ok := a.dir.GetByID(id)
	if !ok {
		return errors.New(domain.ErrClubNotFound.Message)
	}
	return a.printClub(c)
}

func (a *app) login(ctx context.Context, username string) error {
	pin, err := readPin()
	if err != nil {
		return err
	}
	user, err := a.session.Login(ctx, username, pin)
	if err != nil {
		return errors.New(domain.DisplayMessage(err))
	}
	if err := a.saveSession(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func (a *app) logout() error {
	a.session.Logout()
	if err := os.Remove(a.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) whoami() error {
	u := a.session.User()
	if u == nil || !a.session.IsLoggedIn() {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s) %s\n", u.Username, u.Role, u.ID)
	return nil
}

func (a *app) users(ctx context.Context) error {
	users, err := a.gateway.ListUsers(ctx)
	if err != nil {
		return errors.New(domain.DisplayMessage(err))
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Username, u.Role)
	}
	return tw.Flush()
}

// mutate loads the directory, runs one engine operation and waits for its write to settle.
// A rolled-back write is reported through the notifications it produced.
func (a *app) mutate(ctx context.Context, clubID string, op func(id string) error) error {
	if err := a.load(ctx, 0); err != nil {
		return err
	}
	if err := op(clubID); err != nil {
		return errors.New(domain.DisplayMessage(err))
	}
	a.engine.Wait()

	for _, n := range a.toaster.List() {
		if n.Kind == domain.NotifyError {
			return errors.New(n.Text)
		}
	}
	c, ok := a.dir.GetByID(clubID)
	if !ok {
		return errors.New(domain.ErrClubNotFound.Message)
	}
	return a.printClub(c)
}

func (a *app) export(ctx context.Context, path string) error {
	if err := a.load(ctx, 0); err != nil {
		return err
	}
	if path == "" {
		return a.dir.ExportJSON(a.out)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.dir.ExportJSON(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d clubs to %s\n", len(a.dir.Snapshot()), path)
	return nil
}

// importFile loads an interchange file into the local directory and prints it.
// Nothing is sent to the server.
func (a *app) importFile(path, sortKey string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.dir.ImportJSON(f); err != nil {
		return fmt.Errorf("invalid import file: %w", err)
	}
	criteria := client.DefaultCriteria()
	if sortBy, ok := client.ParseSortBy(sortKey); ok {
		criteria.SortBy = sortBy
	}
	a.view.SetCriteria(criteria)
	return a.printTable(a.view.Visible())
}

func (a *app) reset(ctx context.Context) error {
	if err := a.dir.ResetToSeed(ctx); err != nil {
		return errors.New(domain.DisplayMessage(err))
	}
	return a.printTable(a.dir.Snapshot())
}

func (a *app) printTable(clubs []domain.Club) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSEATS LEFT\tCAPACITY\tFULL")
	for _, c := range clubs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d%%\n", c.ID, c.Name, domain.SeatsLeft(c), c.Capacity, domain.PercentFull(c))
	}
	return tw.Flush()
}

func (a *app) printClub(c domain.Club) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	fmt.Fprintf(tw, "seats left\t%d of %d (%d%% full)\n", domain.SeatsLeft(c), c.Capacity, domain.PercentFull(c))
	fmt.Fprintln(tw, "members\t")
	for _, m := range c.Members {
		fmt.Fprintf(tw, "  %s\t%s\n", m.ID, m.Name)
	}
	fmt.Fprintln(tw, "events\t")
	for _, e := range c.Events {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n", e.ID, e.DateISO, e.Title, e.Capacity)
	}
	return tw.Flush()
}

func sessionPath() string {
	if p := os.Getenv("CLUBCTL_SESSION"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "clubctl", "session.json")
}

func (a *app) restoreSession() error {
	b, err := os.ReadFile(a.sessionPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	var s savedSession
	if err := json.Unmarshal(b, &s); err != nil {
		a.logger.Warn("ignoring unreadable session file", "path", a.sessionPath, "err", err)
		return nil
	}
	a.session.Restore(s.Token, s.User)
	return nil
}

func (a *app) saveSession() error {
	b, err := json.Marshal(savedSession{Token: a.session.Token(), User: a.session.User()})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.sessionPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(a.sessionPath, b, 0o600)
}

func readPin() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		if pin := os.Getenv("CLUBCTL_PIN"); pin != "" {
			return pin, nil
		}
		return "", errors.New("CLUBCTL_PIN is required when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "PIN: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	pin := strings.TrimSpace(string(b))
	if pin == "" {
		return "", errors.New("PIN is required")
	}
	return pin, nil
}
