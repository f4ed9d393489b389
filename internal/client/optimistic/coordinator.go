// Package optimistic serializes per-entity optimistic mutations and rolls
// them back when the justifying remote call fails.
package optimistic

import (
	"context"
	"sync"
)

// Coordinator tracks which entity ids have a mutation in flight. A second
// mutation for a locked id is rejected outright, never queued.
type Coordinator struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCoordinator() *Coordinator {
	return &Coordinator{inFlight: make(map[string]struct{})}
}

// TryLock marks id as mutating. Reports false when a mutation for that id
// is already running.
func (c *Coordinator) TryLock(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[id]; busy {
		return false
	}
	c.inFlight[id] = struct{}{}
	return true
}

// Unlock releases id. Safe to call for an unlocked id.
func (c *Coordinator) Unlock(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, id)
}

// Locked reports whether id has a mutation in flight.
func (c *Coordinator) Locked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inFlight[id]
	return busy
}

// Run executes one optimistic mutation for id.
//
// apply performs the local state change synchronously and returns the
// rollback that undoes it exactly; remote is the call that justifies the
// change. On remote failure the rollback runs and the error is returned.
// The id stays locked for the whole sequence and is always released.
//
// The first return value reports whether the mutation started: false with
// a nil error is the reentrancy rejection, false with an error means apply
// itself refused (no state changed, no remote call made).
func (c *Coordinator) Run(
	ctx context.Context,
	id string,
	apply func() (rollback func(), err error),
	remote func(ctx context.Context) error,
) (bool, error) {
	if !c.TryLock(id) {
		return false, nil
	}
	defer c.Unlock(id)

	rollback, err := apply()
	if err != nil {
		return false, err
	}

	if err := remote(ctx); err != nil {
		if rollback != nil {
			rollback()
		}
		return true, err
	}
	return true, nil
}
