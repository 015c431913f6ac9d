// Package locate resolves institution names to coordinates.
//
// Resolution order is: manual overrides, then the run's cache, then the
// geocoder. Each geocoder call is followed by a fixed delay.
package locate

import (
	"context"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

// Geocoder looks up an institution's coordinates over the network.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (collab.Coordinates, error)
}

// OverrideTable holds manually corrected coordinates.
type OverrideTable interface {
	Lookup(name string) (collab.Coordinates, bool)
}

// Resolver resolves institution names using overrides, a cache and a geocoder.
type Resolver struct {
	Overrides OverrideTable
	Cache     *Cache
	Geocoder  Geocoder

	// Delay is the pause after every geocoder call
	Delay time.Duration

	// Sleep waits for Delay; it defaults to a context-aware timer
	Sleep func(ctx context.Context, d time.Duration) error

	lookups int
}

// NewResolver returns a Resolver with a fresh cache.
func NewResolver(g Geocoder, overrides OverrideTable, delay time.Duration) *Resolver {
	return &Resolver{
		Overrides: overrides,
		Cache:     NewCache(),
		Geocoder:  g,
		Delay:     delay,
		Sleep:     sleepContext,
	}
}

// Lookups returns how many geocoder calls the resolver has made.
func (r *Resolver) Lookups() int {
	return r.lookups
}

// Resolve returns the coordinates for name. Geocoder failures are logged and
// yield unknown coordinates, which are not cached. The only error returned is
// the context's, if it ends during the delay.
func (r *Resolver) Resolve(ctx context.Context, name string) (collab.Coordinates, error) {
	if r.Overrides != nil {
		if c, ok := r.Overrides.Lookup(name); ok {
			slog.Debug("location override", "institution", name)
			return c, nil
		}
	}

	if r.Cache == nil {
		r.Cache = NewCache()
	}
	if c, ok := r.Cache.Get(name); ok {
		slog.Debug("location cache hit", "institution", name)
		return c, nil
	}

	r.lookups++
	c, err := r.Geocoder.Geocode(ctx, name)
	if err != nil {
		slog.Warn("location lookup failed", "institution", name, "error", err)
		c = collab.Coordinates{}
	} else {
		r.Cache.Set(name, c)
	}

	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	if err := sleep(ctx, r.Delay); err != nil {
		return c, err
	}

	return c, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
