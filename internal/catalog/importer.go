// Package catalog loads the exercise and food catalogs from dataset storage.
package catalog

import (
	"context"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/metrics"
	"fitfocus/fitness-api/internal/repository"
	"fitfocus/fitness-api/internal/storage"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	catalogExercises   = "exercises"
	catalogConsumables = "consumables"
)

// Importer upserts catalog rows read from dataset storage. It is safe for concurrent use;
// imports of the same catalog are serialized.
type Importer struct {
	storage     storage.DatasetStorage
	exercises   repository.ExerciseRepository
	consumables repository.ConsumableRepository
	foodKey     string
	exerciseKey string
	fillMinSize int64

	exerciseMu   sync.Mutex
	consumableMu sync.Mutex
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithFillMinSize makes FillConsumables a no-op once the food catalog holds n rows.
func WithFillMinSize(n int) ImporterOption {
	return func(i *Importer) { i.fillMinSize = int64(n) }
}

// NewImporter creates an importer reading foodKey and exerciseKey from store.
func NewImporter(store storage.DatasetStorage, exercises repository.ExerciseRepository, consumables repository.ConsumableRepository, foodKey, exerciseKey string, opts ...ImporterOption) *Importer {
	i := &Importer{
		storage:     store,
		exercises:   exercises,
		consumables: consumables,
		foodKey:     foodKey,
		exerciseKey: exerciseKey,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Result summarizes one import run.
type Result struct {
	RunID    string
	Catalog  string
	Imported int
	Skipped  int
}

// ImportExercises reads the exercise CSV and upserts every valid row by name.
func (i *Importer) ImportExercises(ctx context.Context) (Result, error) {
	i.exerciseMu.Lock()
	defer i.exerciseMu.Unlock()

	res := Result{RunID: uuid.NewString(), Catalog: catalogExercises}
	log := runLogger(ctx, res)

	body, err := i.storage.GetObject(ctx, i.exerciseKey)
	if err != nil {
		return res, fmt.Errorf("open exercise dataset: %w", err)
	}
	defer body.Close()

	rows, err := ParseExerciseCSV(body)
	if err != nil {
		return res, err
	}
	log.Info().Int("rows", len(rows)).Str("key", i.exerciseKey).Msg("importing exercise catalog")

	progress := newProgress(len(rows))
	for n := range rows {
		ex := &rows[n]
		if err := ex.Validate(); err != nil {
			log.Warn().Err(err).Str("exercise", ex.Name).Msg("skipping invalid exercise row")
			res.Skipped++
		} else if err := i.exercises.Upsert(ctx, ex); err != nil {
			return res, fmt.Errorf("upsert exercise %q: %w", ex.Name, err)
		} else {
			res.Imported++
		}
		if pct, ok := progress.step(); ok {
			log.Info().Int("percent", pct).Msg("exercise import progress")
		}
	}

	metrics.RecordCatalogImport(catalogExercises, res.Imported)
	log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("exercise catalog imported")
	return res, nil
}

// ImportConsumables reads the food JSON and upserts every row by name.
func (i *Importer) ImportConsumables(ctx context.Context) (Result, error) {
	i.consumableMu.Lock()
	defer i.consumableMu.Unlock()
	return i.importConsumables(ctx)
}

func (i *Importer) importConsumables(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString(), Catalog: catalogConsumables}
	log := runLogger(ctx, res)

	body, err := i.storage.GetObject(ctx, i.foodKey)
	if err != nil {
		return res, fmt.Errorf("open food dataset: %w", err)
	}
	defer body.Close()

	rows, err := ParseFoodJSON(body)
	if err != nil {
		return res, err
	}
	log.Info().Int("rows", len(rows)).Str("key", i.foodKey).Msg("importing food catalog")

	progress := newProgress(len(rows))
	for n := range rows {
		c := &rows[n]
		if c.Name == "" {
			res.Skipped++
		} else if err := i.consumables.Upsert(ctx, c); err != nil {
			return res, fmt.Errorf("upsert consumable %q: %w", c.Name, err)
		} else {
			res.Imported++
		}
		if pct, ok := progress.step(); ok {
			log.Info().Int("percent", pct).Msg("food import progress")
		}
	}

	metrics.RecordCatalogImport(catalogConsumables, res.Imported)
	log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("food catalog imported")
	return res, nil
}

// FillConsumables imports the food catalog unless it already holds the fill minimum. Concurrent
// callers wait for the running import and then find the catalog filled.
func (i *Importer) FillConsumables(ctx context.Context) error {
	i.consumableMu.Lock()
	defer i.consumableMu.Unlock()

	n, err := i.consumables.Count(ctx)
	if err != nil {
		return fmt.Errorf("count consumables: %w", err)
	}
	if i.fillMinSize > 0 && n >= i.fillMinSize {
		logging.Ctx(ctx).Debug().Int64("catalog_size", n).Msg("consumable catalog already filled")
		return nil
	}
	_, err = i.importConsumables(ctx)
	return err
}

// SeedExercises imports the exercise catalog only when it is empty.
func (i *Importer) SeedExercises(ctx context.Context) error {
	n, err := i.exercises.Count(ctx)
	if err != nil {
		return fmt.Errorf("count exercises: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = i.ImportExercises(ctx)
	return err
}

func runLogger(ctx context.Context, res Result) zerolog.Logger {
	return logging.Ctx(ctx).With().
		Str("component", "catalog").
		Str("catalog", res.Catalog).
		Str("run_id", res.RunID).
		Logger()
}

// progress reports each crossed 10% boundary once.
type progress struct {
	total, done, lastDecile int
}

func newProgress(total int) *progress { return &progress{total: total} }

func (p *progress) step() (int, bool) {
	p.done++
	if p.total == 0 {
		return 0, false
	}
	decile := p.done * 10 / p.total
	if decile == p.lastDecile {
		return 0, false
	}
	p.lastDecile = decile
	return decile * 10, true
}
