// Package db persists the account and site collections. A collection is a
// mapping from a string key to a flat JSON record; every operation reads the
// whole collection and every mutation rewrites it.
package db

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Collection names shared by the service and the interactive client.
const (
	UsersCollection = "users"
	SitesCollection = "sites"
)

// Store is durable key-based storage of whole collections.
// Load of a collection that was never saved returns an empty map.
// Save must not leave previously durable data corrupted if it fails midway.
type Store interface {
	Load(ctx context.Context, collection string) (map[string]json.RawMessage, error)
	Save(ctx context.Context, collection string, records map[string]json.RawMessage) error
	Close() error
}

// Collection is a typed view over one collection of a Store. No records are
// cached: Load and Update always go to the store.
type Collection[T any] struct {
	store Store
	name  string
	keyed func(key string, rec *T)

	// held from load to save so concurrent updates in this process do not
	// overwrite each other
	mu sync.Mutex
}

// NewCollection returns a view of collection name. keyed, if not nil, is called
// for every decoded record so the key can be copied into it.
func NewCollection[T any](store Store, name string, keyed func(key string, rec *T)) *Collection[T] {
	return &Collection[T]{store: store, name: name, keyed: keyed}
}

func (c *Collection[T]) Load(ctx context.Context) (map[string]T, error) {
	raw, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	return c.decode(raw)
}

// Update runs fn against a freshly loaded collection and saves the result.
// If fn returns an error nothing is saved and the error is returned as is.
func (c *Collection[T]) Update(ctx context.Context, fn func(records map[string]T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(records); err != nil {
		return err
	}

	raw, err := c.encode(records)
	if err != nil {
		return err
	}
	return c.store.Save(ctx, c.name, raw)
}

func (c *Collection[T]) decode(raw map[string]json.RawMessage) (map[string]T, error) {
	records := make(map[string]T, len(raw))
	for key, doc := range raw {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode %s/%s", c.name, key)
		}
		if c.keyed != nil {
			c.keyed(key, &rec)
		}
		records[key] = rec
	}
	return records, nil
}

func (c *Collection[T]) encode(records map[string]T) (map[string]json.RawMessage, error) {
	raw := make(map[string]json.RawMessage, len(records))
	for key, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s/%s", c.name, key)
		}
		raw[key] = doc
	}
	return raw, nil
}
