// Package syncer keeps each role's dashboard collections in step with the
// remote API: a load on mount, interval refreshes while the view is visible,
// and targeted mutations whose returned records are dispatched to the store.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/logger"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/state"
)

var (
	ErrNotAuthenticated = errors.New("no authenticated session")
	ErrWrongRole        = errors.New("session role does not match the dashboard")
	ErrAlreadyStarted   = errors.New("controller already started")
)

// Option configures a controller.
type Option func(*controller)

// WithVisibility sets the signal interval refreshes consult before running.
func WithVisibility(v Visibility) Option {
	return func(c *controller) {
		if v != nil {
			c.visible = v
		}
	}
}

// controller is the lifecycle shared by the role dashboards.
type controller struct {
	role    domain.Role
	store   *state.Store
	sched   *scheduler.Scheduler
	fetch   *fetcher
	visible Visibility
	log     *slog.Logger

	mu   sync.Mutex
	jobs []cron.EntryID
}

func newController(role domain.Role, store *state.Store, sched *scheduler.Scheduler, opts []Option) *controller {
	log := logger.WithController(string(role))
	c := &controller{
		role:    role,
		store:   store,
		sched:   sched,
		fetch:   newFetcher(store, log),
		visible: AlwaysVisible{},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// session returns the token and user the dashboard acts for.
func (c *controller) session() (string, *domain.User, error) {
	s := c.store.State()
	if !s.Authenticated() {
		return "", nil, ErrNotAuthenticated
	}
	if s.CurrentUser.Role != c.role {
		return "", nil, fmt.Errorf("%w: %s", ErrWrongRole, s.CurrentUser.Role)
	}
	return s.AuthToken, s.CurrentUser, nil
}

// loadAll refreshes the given collections concurrently and returns the first
// failure. Every load runs to completion regardless of the others.
func (c *controller) loadAll(ctx context.Context, loads map[string]loadFunc) error {
	var g errgroup.Group
	for collection, load := range loads {
		g.Go(func() error {
			return c.fetch.refresh(ctx, collection, load)
		})
	}
	return g.Wait()
}

// start mounts and then schedules each poll. Mount failures are logged and
// do not prevent polling.
func (c *controller) start(ctx context.Context, mount func(context.Context) error, polls map[string]poll) error {
	if _, _, err := c.session(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.jobs) > 0 {
		return ErrAlreadyStarted
	}

	if err := mount(ctx); err != nil {
		c.log.Warn("Initial load incomplete", "error", err)
	}

	for name, p := range polls {
		id, err := c.sched.Every(string(c.role)+"/"+name, p.period, func(jobCtx context.Context) {
			if !c.visible.Visible() {
				c.log.Debug("View hidden, skipping refresh", "job", name)
				return
			}
			if _, _, err := c.session(); err != nil {
				return
			}
			_ = p.refresh(jobCtx)
		})
		if err != nil {
			c.removeJobs()
			return err
		}
		c.jobs = append(c.jobs, id)
	}
	c.log.Info("Dashboard started", "polls", len(c.jobs))
	return nil
}

type poll struct {
	period  time.Duration
	refresh func(context.Context) error
}

// stop cancels future ticks. A refresh already in flight completes and
// dispatches normally.
func (c *controller) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeJobs()
	c.log.Info("Dashboard stopped")
}

func (c *controller) removeJobs() {
	for _, id := range c.jobs {
		c.sched.Remove(id)
	}
	c.jobs = nil
}

// mutated logs a failed user action. The error is returned to the caller
// unchanged so its message can be shown next to the action.
func (c *controller) mutated(operation string, err error, args ...any) error {
	if err != nil {
		c.log.Warn("Action failed", append([]any{"operation", operation, "error", err}, args...)...)
	}
	return err
}
