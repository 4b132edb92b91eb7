package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache tags used for bulk invalidation.
const (
	TagProducts = "productCache"
	TagUsers    = "usersCache"
)

const tagSetPrefix = "tag:"

// ComputeFn produces the value for a key on a cache miss.
type ComputeFn func(ctx context.Context) ([]byte, error)

// Tagged is a read-through cache with tag-based group invalidation.
// Concurrent misses on the same key collapse into a single compute: one
// caller runs the function, the rest wait and share its result. A failed
// compute stores nothing and every waiting caller sees the error.
type Tagged struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
}

// NewTagged builds a tagged cache over a backing store. ttl 0 keeps entries
// until their tag is invalidated.
func NewTagged(store Store, ttl time.Duration) *Tagged {
	return &Tagged{store: store, ttl: ttl}
}

// GetOrCompute returns the cached value for key, or runs compute, stores the
// result under key with the given tags, and returns it.
func (t *Tagged) GetOrCompute(ctx context.Context, key string, tags []string, compute ComputeFn) ([]byte, error) {
	if value, _ := t.store.Get(ctx, key); value != nil {
		return value, nil
	}

	value, err, _ := t.group.Do(key, func() (interface{}, error) {
		// Another caller may have stored the entry between our miss and
		// winning the flight.
		if value, _ := t.store.Get(ctx, key); value != nil {
			return value, nil
		}
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := t.store.Set(ctx, key, value, t.ttl); err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if err := t.store.AddToSet(ctx, tagSetPrefix+tag, key); err != nil {
				return nil, err
			}
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}

// InvalidateTag removes every entry carrying the tag. Only the members seen
// at read time are dropped from the tag set: a key tagged concurrently stays
// in the set, so the next invalidation reaches it instead of orphaning it.
func (t *Tagged) InvalidateTag(ctx context.Context, tag string) error {
	setKey := tagSetPrefix + tag
	keys, err := t.store.SetMembers(ctx, setKey)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := t.store.Delete(ctx, keys...); err != nil {
		return err
	}
	return t.store.RemoveFromSet(ctx, setKey, keys...)
}
