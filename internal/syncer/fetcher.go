package syncer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
	"vehicle-rental-admin/internal/state"
)

// Collection keys, also used as the collection attribute of refresh logs.
const (
	collectionUsers    = "users"
	collectionVehicles = "vehicles"
	collectionRequests = "vehicle-requests"
	collectionBookings = "bookings"
)

// loadFunc fetches one collection and returns the action installing it. A
// nil action means there is nothing to dispatch.
type loadFunc func(ctx context.Context) (state.Action, error)

// fetcher collapses overlapping refreshes of the same collection into one
// request. Refreshes of different collections run independently. Within a
// collection a load never overwrites the result of a load that started
// after it.
type fetcher struct {
	group singleflight.Group
	store *state.Store
	log   *slog.Logger

	mu      sync.Mutex
	started map[string]uint64
	applied map[string]uint64
}

func newFetcher(store *state.Store, log *slog.Logger) *fetcher {
	return &fetcher{
		store:   store,
		log:     log,
		started: make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// reload is refresh without joining a load already in flight. Mutations use
// it so the refetch reflects their effect on the server.
func (f *fetcher) reload(ctx context.Context, collection string, load loadFunc) error {
	f.group.Forget(collection)
	return f.refresh(ctx, collection, load)
}

// refresh loads and dispatches a collection. Failures are logged and leave
// the held collection as it was.
func (f *fetcher) refresh(ctx context.Context, collection string, load loadFunc) error {
	_, err, shared := f.group.Do(collection, func() (any, error) {
		gen := f.begin(collection)
		action, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if action != nil {
			f.apply(collection, gen, action)
		}
		return nil, nil
	})
	if err != nil {
		if !shared {
			f.log.Warn("Refresh failed", "collection", collection, "error", err)
		}
		return err
	}
	return nil
}

func (f *fetcher) begin(collection string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started[collection]++
	return f.started[collection]
}

// apply dispatches action unless a newer load of the collection already did.
func (f *fetcher) apply(collection string, gen uint64, action state.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen < f.applied[collection] {
		f.log.Debug("Dropped stale refresh", "collection", collection)
		return
	}
	f.applied[collection] = gen
	f.store.Dispatch(action)
}
