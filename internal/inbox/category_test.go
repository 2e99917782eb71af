package inbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easemail/easemail/internal/model"
)

// fakeCategoryCache is an in-memory CategoryCache.
type fakeCategoryCache struct {
	categories map[string]model.Category
	gets       int
	puts       int
}

func newFakeCategoryCache() *fakeCategoryCache {
	return &fakeCategoryCache{categories: make(map[string]model.Category)}
}

func (c *fakeCategoryCache) GetCategories(_ context.Context, ids []string) (map[string]model.Category, error) {
	c.gets++
	out := make(map[string]model.Category)
	for _, id := range ids {
		if cat, ok := c.categories[id]; ok {
			out[id] = cat
		}
	}
	return out, nil
}

func (c *fakeCategoryCache) PutCategories(_ context.Context, categories map[string]model.Category) error {
	c.puts++
	for id, cat := range categories {
		c.categories[id] = cat
	}
	return nil
}

func TestEnsureClassifiedHitsCacheFirst(t *testing.T) {
	cache := newFakeCategoryCache()
	cache.categories["m1"] = model.CategoryPeople

	calls := 0
	svc := &fakeService{
		categorizeFn: func(_ context.Context, ids []string) (map[string]model.Category, error) {
			calls++
			assert.Equal(t, []string{"m2"}, ids)
			return map[string]model.Category{"m2": model.CategoryNewsletters}, nil
		},
	}

	c := NewClassifier(svc, cache)
	require.NoError(t, c.EnsureClassified(context.Background(), []string{"m1", "m2"}))

	assert.Equal(t, 1, calls, "cached ids must not be re-sent for classification")

	cat, ok := c.Lookup("m1")
	require.True(t, ok)
	assert.Equal(t, model.CategoryPeople, cat)

	cat, ok = c.Lookup("m2")
	require.True(t, ok)
	assert.Equal(t, model.CategoryNewsletters, cat)

	// Fresh classifications are written back to the cache.
	assert.Equal(t, model.CategoryNewsletters, cache.categories["m2"])
}

func TestEnsureClassifiedSkipsWhenAllKnown(t *testing.T) {
	cache := newFakeCategoryCache()
	svc := &fakeService{
		categorizeFn: func(_ context.Context, ids []string) (map[string]model.Category, error) {
			t.Fatalf("unexpected Categorize(%v)", ids)
			return nil, nil
		},
	}

	c := NewClassifier(svc, cache)
	cache.categories["m1"] = model.CategoryPeople
	require.NoError(t, c.EnsureClassified(context.Background(), []string{"m1"}))

	// A second pass over the same ids is served from memory.
	require.NoError(t, c.EnsureClassified(context.Background(), []string{"m1"}))
}

func TestReclassifyOverwrites(t *testing.T) {
	cache := newFakeCategoryCache()
	cache.categories["m1"] = model.CategoryPeople

	svc := &fakeService{
		categorizeFn: func(_ context.Context, ids []string) (map[string]model.Category, error) {
			return map[string]model.Category{"m1": model.CategoryNotifications}, nil
		},
	}

	c := NewClassifier(svc, cache)
	require.NoError(t, c.EnsureClassified(context.Background(), []string{"m1"}))
	require.NoError(t, c.Reclassify(context.Background(), []string{"m1"}))

	cat, ok := c.Lookup("m1")
	require.True(t, ok)
	assert.Equal(t, model.CategoryNotifications, cat)
	assert.Equal(t, model.CategoryNotifications, cache.categories["m1"])
}
