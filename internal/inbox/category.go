package inbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/easemail/easemail/internal/model"
)

// CategoryCache persists classifications across runs. Implementations
// must be safe for concurrent use.
type CategoryCache interface {
	GetCategories(ctx context.Context, ids []string) (map[string]model.Category, error)
	PutCategories(ctx context.Context, categories map[string]model.Category) error
}

// Classifier maintains the per-message category map: identifier to one of
// people, newsletters, or notifications, produced by the AI categorize
// endpoint. Results are cached in memory and optionally in the local
// store, and are never invalidated except by re-running classification.
type Classifier struct {
	svc   Service
	cache CategoryCache

	mu         sync.Mutex
	categories map[string]model.Category
}

// NewClassifier creates a classifier; cache may be nil for memory-only
// operation.
func NewClassifier(svc Service, cache CategoryCache) *Classifier {
	return &Classifier{
		svc:        svc,
		cache:      cache,
		categories: make(map[string]model.Category),
	}
}

// Lookup resolves a message's cached category. The second return is false
// while classification is pending or the service could not classify it.
func (c *Classifier) Lookup(id string) (model.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cat, ok := c.categories[id]
	return cat, ok
}

// EnsureClassified classifies any of the given messages not already in
// the cache. Already-known IDs are never re-submitted.
func (c *Classifier) EnsureClassified(ctx context.Context, ids []string) error {
	missing := c.loadMissing(ctx, ids)
	if len(missing) == 0 {
		return nil
	}
	return c.classify(ctx, missing)
}

// Reclassify re-runs classification for the given IDs regardless of cache
// state. This is the only way a cached category changes.
func (c *Classifier) Reclassify(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.classify(ctx, ids)
}

// loadMissing fills the memory map from the persistent cache and returns
// the IDs still unclassified.
func (c *Classifier) loadMissing(ctx context.Context, ids []string) []string {
	c.mu.Lock()
	var unknown []string
	for _, id := range ids {
		if _, ok := c.categories[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	c.mu.Unlock()

	if len(unknown) == 0 || c.cache == nil {
		return unknown
	}

	cached, err := c.cache.GetCategories(ctx, unknown)
	if err != nil || len(cached) == 0 {
		return unknown
	}

	c.mu.Lock()
	for id, cat := range cached {
		c.categories[id] = cat
	}
	c.mu.Unlock()

	var missing []string
	for _, id := range unknown {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// classify calls the categorize endpoint and stores the results.
func (c *Classifier) classify(ctx context.Context, ids []string) error {
	categories, err := c.svc.Categorize(ctx, ids)
	if err != nil {
		return fmt.Errorf("classifying %d messages: %w", len(ids), err)
	}

	c.mu.Lock()
	for id, cat := range categories {
		c.categories[id] = cat
	}
	c.mu.Unlock()

	if c.cache != nil && len(categories) > 0 {
		if err := c.cache.PutCategories(ctx, categories); err != nil {
			return fmt.Errorf("caching categories: %w", err)
		}
	}
	return nil
}
