package recommend

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/metrics"
	"fitfocus/fitness-api/internal/repository"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultCatalogMinSize = 100
	DefaultLookback       = 14 * 24 * time.Hour

	catalogSampleRate = 0.1
	acceptProbability = 0.8
)

// ErrInconsistentCatalog reports catalog rows that share an identity. It is returned wrapped
// together with the store error.
var ErrInconsistentCatalog = errors.New("inconsistent consumable catalog")

// ConsumableStore is what the consumable recommender reads. Profile and LatestMood return
// nil, nil when the user has none.
type ConsumableStore interface {
	Profile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	LatestMood(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error)
	// LoggedConsumables returns logs with from <= dateLogged < to.
	LoggedConsumables(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.LoggedConsumable, error)
	CatalogCount(ctx context.Context) (int64, error)
	CatalogSample(ctx context.Context, limit int, keep func() bool) ([]domain.Consumable, error)
	ConsumableByName(ctx context.Context, name string) (*domain.Consumable, error)
}

// CatalogFiller bulk-loads the consumable catalog when it is too small to sample from.
type CatalogFiller interface {
	FillConsumables(ctx context.Context) error
}

// ConsumableRequest parameterizes one Recommend call. A zero SearchDate means today.
type ConsumableRequest struct {
	Count      int
	SearchDate time.Time
}

// ConsumableRecommender scores a sampled candidate pool against the user's remaining
// per-meal nutrition budget and picks a randomized subset of the best candidates.
type ConsumableRecommender struct {
	store          ConsumableStore
	filler         CatalogFiller
	rng            *rand.Rand
	estimator      DailyTargetEstimator
	scorer         CandidateScorer
	catalogMinSize int
	lookback       time.Duration
	now            func() time.Time
}

// ConsumableOption configures a ConsumableRecommender.
type ConsumableOption func(*ConsumableRecommender)

// WithCatalogMinSize sets the catalog size below which the filler runs.
func WithCatalogMinSize(n int) ConsumableOption {
	return func(r *ConsumableRecommender) {
		if n >= 0 {
			r.catalogMinSize = n
		}
	}
}

// WithLookback sets how far back recently eaten consumables join the candidate pool.
func WithLookback(d time.Duration) ConsumableOption {
	return func(r *ConsumableRecommender) {
		if d > 0 {
			r.lookback = d
		}
	}
}

// WithConsumableClock overrides the clock.
func WithConsumableClock(now func() time.Time) ConsumableOption {
	return func(r *ConsumableRecommender) { r.now = now }
}

// NewConsumableRecommender builds a recommender. filler may be nil.
func NewConsumableRecommender(store ConsumableStore, filler CatalogFiller, rng *rand.Rand, opts ...ConsumableOption) *ConsumableRecommender {
	r := &ConsumableRecommender{
		store:          store,
		filler:         filler,
		rng:            rng,
		catalogMinSize: DefaultCatalogMinSize,
		lookback:       DefaultLookback,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type scoredConsumable struct {
	consumable domain.Consumable
	score      float64
}

// Recommend returns up to req.Count catalog entries. A missing profile, goal list or mood falls
// back to defaults; an exhausted pool gives a shorter result.
func (r *ConsumableRecommender) Recommend(ctx context.Context, userID primitive.ObjectID, req ConsumableRequest) ([]Record, error) {
	if req.Count <= 0 {
		req.Count = 1
	}
	now := r.now()
	searchDate := req.SearchDate
	if searchDate.IsZero() {
		searchDate = now
	}

	targets, err := r.MealTargets(ctx, userID, searchDate)
	if err != nil {
		return nil, err
	}

	pool, err := r.candidatePool(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredConsumable, 0, len(pool))
	for _, c := range pool {
		scored = append(scored, scoredConsumable{consumable: c, score: r.scorer.Score(c, targets)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score < scored[j].score
		}
		return scored[i].consumable.Name < scored[j].consumable.Name
	})

	records := []Record{}
	for _, s := range scored {
		if len(records) >= req.Count {
			break
		}
		if r.rng.Float64() < acceptProbability {
			records = append(records, ConsumableRecord(s.consumable))
		}
	}

	metrics.RecordConsumableRecommendation(len(pool), len(records))
	logging.Ctx(ctx).Info().
		Str("user_id", userID.Hex()).
		Int("pool_size", len(pool)).
		Int("requested", req.Count).
		Int("returned", len(records)).
		Msg("consumable recommendation finished")
	return records, nil
}

// MealTargets computes the per-meal budgets for the user on the given day: daily estimate minus
// the day's intake, adjusted for mood, split across the remaining meals.
func (r *ConsumableRecommender) MealTargets(ctx context.Context, userID primitive.ObjectID, day time.Time) (MealTargets, error) {
	profile, err := r.store.Profile(ctx, userID)
	if err != nil {
		return MealTargets{}, fmt.Errorf("get profile: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	logs, err := r.store.LoggedConsumables(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return MealTargets{}, fmt.Errorf("logged consumables for day: %w", err)
	}
	var consumed ConsumedTotals
	for _, l := range logs {
		consumed.Add(l)
	}

	mood := 0
	sample, err := r.store.LatestMood(ctx, userID)
	if err != nil {
		return MealTargets{}, fmt.Errorf("latest mood: %w", err)
	}
	if sample != nil {
		mood = sample.MoodLevel
	}

	daily := r.estimator.Estimate(profile, consumed)
	meal := ApplyMood(daily.Remaining(), mood)
	meals := EstimateMealCount(meal.Calories)

	logging.Ctx(ctx).Debug().
		Int("daily_calories", daily.DailyCalories).
		Int("remaining_calories", daily.MaxCalories).
		Int("mood", mood).
		Int("meals", meals).
		Msg("meal targets estimated")
	return PerMeal(meal, meals), nil
}

// candidatePool is a ~10% sample of the catalog (capped at a tenth of its size) plus every
// distinct consumable the user logged within the lookback window.
func (r *ConsumableRecommender) candidatePool(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Consumable, error) {
	count, err := r.store.CatalogCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog count: %w", err)
	}
	if count < int64(r.catalogMinSize) && r.filler != nil {
		logging.Ctx(ctx).Info().Int64("catalog_size", count).Msg("consumable catalog below minimum, filling")
		if err := r.filler.FillConsumables(ctx); err != nil {
			return nil, fmt.Errorf("fill consumable catalog: %w", err)
		}
		if count, err = r.store.CatalogCount(ctx); err != nil {
			return nil, fmt.Errorf("catalog count: %w", err)
		}
	}

	sample, err := r.store.CatalogSample(ctx, int(count/10), func() bool {
		return r.rng.Float64() < catalogSampleRate
	})
	if err != nil {
		return nil, fmt.Errorf("sample catalog: %w", err)
	}

	pool := make([]domain.Consumable, 0, len(sample))
	seen := make(map[string]struct{}, len(sample))
	for _, c := range sample {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		pool = append(pool, c)
	}

	recent, err := r.store.LoggedConsumables(ctx, userID, now.Add(-r.lookback), now)
	if err != nil {
		return nil, fmt.Errorf("recent logged consumables: %w", err)
	}
	for _, l := range recent {
		if _, dup := seen[l.ConsumableName]; dup {
			continue
		}
		seen[l.ConsumableName] = struct{}{}

		c, err := r.store.ConsumableByName(ctx, l.ConsumableName)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// Logged consumables may outlive their catalog entry.
			continue
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("%w: %q: %w", ErrInconsistentCatalog, l.ConsumableName, err)
		case err != nil:
			return nil, fmt.Errorf("get consumable %q: %w", l.ConsumableName, err)
		}
		pool = append(pool, *c)
	}
	return pool, nil
}
