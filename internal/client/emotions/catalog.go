// Package emotions holds the static emotion reference table and resolves
// ids against it.
package emotions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/oz-main-09-team3/emodiary/internal/client/models"
	"github.com/oz-main-09-team3/emodiary/internal/logging"
)

// Lister is the slice of the gateway the catalog needs.
type Lister interface {
	ListEmotions(ctx context.Context) ([]models.Emotion, error)
}

// Catalog is an id-keyed lookup over the emotion table. Ids and display
// names live in two disjoint maps so a name can never collide with the
// string form of another entry's id.
type Catalog struct {
	lister Lister
	log    logging.Logger

	mu     sync.RWMutex
	byID   map[int]models.Emotion
	byName map[string]models.Emotion
	loaded bool
}

type Option func(*Catalog)

func WithLogger(l logging.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

func NewCatalog(lister Lister, opts ...Option) *Catalog {
	c := &Catalog{
		lister: lister,
		log:    logging.Nop(),
		byID:   make(map[int]models.Emotion),
		byName: make(map[string]models.Emotion),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the catalog once. After a successful load further calls are
// no-ops. After a failure the catalog stays empty and lookups fall back to
// placeholders, so callers may treat the error as non-fatal; a later Load
// call retries the fetch.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	list, err := c.lister.ListEmotions(ctx)
	if err != nil {
		return fmt.Errorf("loading emotion catalog: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	for _, e := range list {
		c.byID[e.ID] = e
		c.byName[strings.ToLower(e.Name)] = e
	}
	c.loaded = true
	c.log.Debug(ctx, "emotion catalog loaded", "count", len(list))
	return nil
}

// Resolve returns the descriptor for id, or a deterministic placeholder
// when the id is unknown or the catalog never loaded. It never fails.
func (c *Catalog) Resolve(id int) models.Emotion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.byID[id]; ok {
		return e
	}
	return Placeholder(id)
}

// ResolveRef resolves an emotion reference in whichever shape the caller
// holds: a numeric id, an already-decoded descriptor, or raw JSON carrying
// either a bare id or an embedded descriptor object. Like Resolve it never
// fails; unusable refs yield the id-zero placeholder.
func (c *Catalog) ResolveRef(ref any) models.Emotion {
	switch v := ref.(type) {
	case int:
		return c.Resolve(v)
	case models.Emotion:
		return c.Resolve(v.ID)
	case json.RawMessage:
		if id, ok := models.DecodeEmotionRef(v); ok {
			return c.Resolve(id)
		}
	case []byte:
		if id, ok := models.DecodeEmotionRef(v); ok {
			return c.Resolve(id)
		}
	}
	return Placeholder(0)
}

// ByName looks up a descriptor by display name, case-insensitively.
func (c *Catalog) ByName(name string) (models.Emotion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byName[strings.ToLower(name)]
	return e, ok
}

// Loaded reports whether a load has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Placeholder is the fallback descriptor for an unknown id.
func Placeholder(id int) models.Emotion {
	return models.Emotion{ID: id, Name: fmt.Sprintf("emotion %d", id)}
}
