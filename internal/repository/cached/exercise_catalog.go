// Package cached decorates catalog repositories with an in-process TTL cache.
package cached

import (
	"context"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"time"

	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	idsKey      = "exercise:ids"
	entryPrefix = "exercise:id:"
)

// ExerciseCatalog caches the primary key list and individual entries of the exercise catalog.
// Catalog entries are immutable once created, so entries only expire by TTL; writes drop the
// key list.
type ExerciseCatalog struct {
	repository.ExerciseRepository
	cache *cache.Cache
}

// NewExerciseCatalog wraps next with a cache holding values for ttl.
func NewExerciseCatalog(next repository.ExerciseRepository, ttl time.Duration) *ExerciseCatalog {
	return &ExerciseCatalog{
		ExerciseRepository: next,
		cache:              cache.New(ttl, 2*ttl),
	}
}

// ListIDs returns the cached key list, loading it on a miss.
func (c *ExerciseCatalog) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	if v, found := c.cache.Get(idsKey); found {
		return v.([]primitive.ObjectID), nil
	}
	ids, err := c.ExerciseRepository.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(idsKey, ids, cache.DefaultExpiration)
	return ids, nil
}

// GetByID returns a cached entry, loading it on a miss. Misses for unknown ids are not cached.
func (c *ExerciseCatalog) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	key := entryPrefix + id.Hex()
	if v, found := c.cache.Get(key); found {
		e := v.(domain.Exercise)
		return &e, nil
	}
	e, err := c.ExerciseRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, *e, cache.DefaultExpiration)
	return e, nil
}

// Create inserts through to the store and invalidates the key list.
func (c *ExerciseCatalog) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	id, err := c.ExerciseRepository.Create(ctx, exercise)
	if err == nil {
		c.cache.Delete(idsKey)
	}
	return id, err
}

// Upsert writes through to the store and invalidates the key list.
func (c *ExerciseCatalog) Upsert(ctx context.Context, exercise *domain.Exercise) error {
	err := c.ExerciseRepository.Upsert(ctx, exercise)
	if err == nil {
		c.cache.Delete(idsKey)
	}
	return err
}

// Flush empties the cache.
func (c *ExerciseCatalog) Flush() {
	c.cache.Flush()
}
