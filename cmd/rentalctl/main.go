package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vehicle-rental-admin/internal/client"
	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/logger"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/session"
	"vehicle-rental-admin/internal/state"

	_ "github.com/lib/pq"
)

var errNotLoggedIn = errors.New("not logged in, run: rentalctl login -user <id> -password <password>")

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":     {"login -user <id> -password <password>", runLogin},
	"logout":    {"logout", runLogout},
	"register":  {"register -user <id> -password <password> [-role customer|branch-admin]", runRegister},
	"whoami":    {"whoami", runWhoami},
	"inventory": {"inventory [-q text] [-min n] [-max n] [-type t]", runInventory},
	"pending":   {"pending", runPending},
	"stats":     {"stats", runStats},
	"approve":   {"approve -kind user|request|booking -id n [-qty n] [-notes text]", runApprove},
	"reject":    {"reject -kind user|request|booking -id n [-notes text]", runReject},
	"book":      {"book -vehicle n -branch n -start YYYY-MM-DD -end YYYY-MM-DD", runBook},
	"request":   {"request -vehicle n -qty n", runRequest},
	"watch":     {"watch", runWatch},
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.close()

	if err := cmd.run(ctx, a, flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", client.UserMessage(err, err.Error()))
		a.close()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rentalctl [-config path] <command> [flags]")
	for _, name := range []string{"login", "logout", "register", "whoami", "inventory", "pending", "stats", "approve", "reject", "book", "request", "watch"} {
		fmt.Fprintln(os.Stderr, "  "+commands[name].usage)
	}
}

// loadConfig falls back to defaults and environment overrides when the
// configuration file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		return nil, err
	}
	return config.Parse(nil)
}

// app wires one session's collaborators together.
type app struct {
	cfg      *config.Config
	client   *client.Client
	store    *state.Store
	sessions *session.Manager
	sched    *scheduler.Scheduler
	out      io.Writer

	closers []func()
	closed  bool
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	a := &app{cfg: cfg, out: out, store: state.NewStore()}

	a.client = client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.Timeout()),
		client.WithCacheBust(*cfg.API.CacheBust),
	)

	persister, err := a.persister(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.sessions = session.NewManager(a.client, a.store, persister)
	a.closers = append(a.closers, a.sessions.Attach(ctx))

	a.sched = scheduler.NewScheduler(cfg.Sync.Jitter)
	return a, nil
}

func (a *app) persister(ctx context.Context) (session.Persister, error) {
	switch a.cfg.Session.Store {
	case config.SessionStorePostgres:
		logger.Debug("Connecting to session database...")
		db, err := sql.Open("postgres", a.cfg.Session.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		a.closers = append(a.closers, func() { db.Close() })
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping session database: %w", err)
		}
		store := session.NewSQLStore(db, a.cfg.Session.Table, a.cfg.Session.Key)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return session.NewFileStore(a.cfg.Session.Path), nil
	}
}

func (a *app) close() {
	if a.closed {
		return
	}
	a.closed = true
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// restore revives the persisted session or fails with a login hint.
func (a *app) restore(ctx context.Context) (*domain.User, error) {
	u, ok := a.sessions.Restore(ctx)
	if !ok {
		return nil, errNotLoggedIn
	}
	return u, nil
}
