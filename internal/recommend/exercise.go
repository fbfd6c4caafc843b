package recommend

import (
	"context"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/metrics"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultMaxAttempts       = 20
	DefaultMaxSelectionDraws = 200

	// History-count gate: exercises with at least this many records are only drawn when their
	// recommendation feedback is mostly positive.
	historyGateCount     = 5
	historyGateGoodRatio = 0.6
)

// ExerciseStore is what the exercise recommender reads and writes.
type ExerciseStore interface {
	ListExerciseIDs(ctx context.Context) ([]primitive.ObjectID, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ExerciseHistory(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.LoggedExercise, []domain.RecommendedExercise, error)
	// SaveRecommendedExercise persists rec and sets its ID.
	SaveRecommendedExercise(ctx context.Context, rec *domain.RecommendedExercise) error
}

// ExerciseRequest parameterizes one Recommend call. Zero values take the defaults.
type ExerciseRequest struct {
	Count                  int
	TrulyRandom            bool
	BadRecommendationLimit int
	NeighborCount          int
	DistanceUnit           string
	WeightUnit             string
}

func (r ExerciseRequest) withDefaults() ExerciseRequest {
	if r.Count <= 0 {
		r.Count = 1
	}
	if r.BadRecommendationLimit <= 0 {
		r.BadRecommendationLimit = 3
	}
	if r.NeighborCount <= 0 {
		r.NeighborCount = 5
	}
	if r.DistanceUnit == "" {
		r.DistanceUnit = "km"
	}
	if r.WeightUnit == "" {
		r.WeightUnit = "kg"
	}
	return r
}

// ExerciseRecommender runs the generate-and-test loop: draw an exercise that passes the
// history-count gate, synthesize attributes, classify them against the user's history, and
// persist the first candidate that is not judged bad.
type ExerciseRecommender struct {
	store             ExerciseStore
	newClassifier     ClassifierFactory
	rng               *rand.Rand
	maxAttempts       int
	maxSelectionDraws int
	now               func() time.Time
}

// ExerciseOption configures an ExerciseRecommender.
type ExerciseOption func(*ExerciseRecommender)

// WithMaxAttempts sets the per-slot attempt ceiling.
func WithMaxAttempts(n int) ExerciseOption {
	return func(r *ExerciseRecommender) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithMaxSelectionDraws bounds how many exercises one attempt may draw before giving up.
func WithMaxSelectionDraws(n int) ExerciseOption {
	return func(r *ExerciseRecommender) {
		if n > 0 {
			r.maxSelectionDraws = n
		}
	}
}

// WithExerciseClock overrides the timestamp source.
func WithExerciseClock(now func() time.Time) ExerciseOption {
	return func(r *ExerciseRecommender) { r.now = now }
}

// NewExerciseRecommender builds a recommender. A nil factory selects NewKNNClassifier.
func NewExerciseRecommender(store ExerciseStore, factory ClassifierFactory, rng *rand.Rand, opts ...ExerciseOption) *ExerciseRecommender {
	if factory == nil {
		factory = NewKNNClassifier
	}
	r := &ExerciseRecommender{
		store:             store,
		newClassifier:     factory,
		rng:               rng,
		maxAttempts:       DefaultMaxAttempts,
		maxSelectionDraws: DefaultMaxSelectionDraws,
		now:               func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// candidate is an exercise that passed the history-count gate, with the history that was read.
type candidate struct {
	exercise    *domain.Exercise
	logged      []domain.LoggedExercise
	recommended []domain.RecommendedExercise
}

// Recommend returns up to req.Count persisted recommendations. Slots that exhaust the attempt
// ceiling are dropped; that is not an error. Errors come only from the store or ctx.
func (r *ExerciseRecommender) Recommend(ctx context.Context, userID primitive.ObjectID, req ExerciseRequest) ([]domain.RecommendedExercise, error) {
	req = req.withDefaults()
	log := logging.Ctx(ctx)

	ids, err := r.store.ListExerciseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercise ids: %w", err)
	}
	results := []domain.RecommendedExercise{}
	if len(ids) == 0 {
		log.Info().Str("user_id", userID.Hex()).Msg("exercise catalog is empty, nothing to recommend")
		return results, nil
	}

	for slot := 0; slot < req.Count; slot++ {
		rec, ok, err := r.fillSlot(ctx, userID, ids, req)
		if err != nil {
			return results, err
		}
		metrics.RecordExerciseSlot(ok)
		if ok {
			results = append(results, *rec)
		}
	}

	log.Info().
		Str("user_id", userID.Hex()).
		Int("requested", req.Count).
		Int("accepted", len(results)).
		Msg("exercise recommendation finished")
	return results, nil
}

// fillSlot runs up to maxAttempts attempts for a single slot.
func (r *ExerciseRecommender) fillSlot(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID, req ExerciseRequest) (*domain.RecommendedExercise, bool, error) {
	log := logging.Ctx(ctx)

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		c, found, err := r.selectExercise(ctx, userID, ids)
		if err != nil {
			return nil, false, err
		}
		if !found {
			log.Debug().Int("attempt", attempt).Msg("no exercise passed the history gate")
			continue
		}

		for bad := 0; bad < req.BadRecommendationLimit; bad++ {
			attrs := r.synthesize(c.logged, req)

			outcome, err := r.classify(c, attrs, req)
			if err != nil {
				return nil, false, fmt.Errorf("classify candidate: %w", err)
			}
			metrics.RecordClassifierOutcome(outcome.String())
			log.Debug().
				Int("attempt", attempt).
				Str("exercise_id", c.exercise.ID.Hex()).
				Stringer("outcome", outcome).
				Msg("candidate classified")

			if outcome == Bad {
				continue
			}

			rec := &domain.RecommendedExercise{
				UserID:             userID,
				ExerciseID:         c.exercise.ID,
				RecommendedAt:      r.now(),
				GoodRecommendation: true,
				ExerciseAttributes: attrs,
			}
			if err := r.store.SaveRecommendedExercise(ctx, rec); err != nil {
				return nil, false, fmt.Errorf("save recommended exercise: %w", err)
			}
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// selectExercise draws exercises uniformly until one passes the history-count gate or
// maxSelectionDraws is reached.
func (r *ExerciseRecommender) selectExercise(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (candidate, bool, error) {
	for draw := 0; draw < r.maxSelectionDraws; draw++ {
		id := ids[r.rng.Intn(len(ids))]

		logged, recommended, err := r.store.ExerciseHistory(ctx, userID, id)
		if err != nil {
			return candidate{}, false, fmt.Errorf("exercise history: %w", err)
		}
		if !passesHistoryGate(logged, recommended) {
			continue
		}

		exercise, err := r.store.GetExercise(ctx, id)
		if err != nil {
			return candidate{}, false, fmt.Errorf("get exercise %s: %w", id.Hex(), err)
		}
		return candidate{exercise: exercise, logged: logged, recommended: recommended}, true, nil
	}
	return candidate{}, false, nil
}

// passesHistoryGate allows exercises with little history, or whose past recommendations were
// rated good more than 60% of the time. No past recommendations counts as passing.
func passesHistoryGate(logged []domain.LoggedExercise, recommended []domain.RecommendedExercise) bool {
	if len(logged)+len(recommended) < historyGateCount {
		return true
	}
	if len(recommended) == 0 {
		return true
	}
	good := 0
	for _, rec := range recommended {
		if rec.GoodRecommendation {
			good++
		}
	}
	return float64(good)/float64(len(recommended)) > historyGateGoodRatio
}

// classify fits a fresh classifier on the (user, exercise) history and judges attrs.
func (r *ExerciseRecommender) classify(c candidate, attrs domain.ExerciseAttributes, req ExerciseRequest) (ClassifierOutcome, error) {
	clf := r.newClassifier(req.NeighborCount)
	if err := clf.Fit(trainingRows(c.logged, c.recommended, req.DistanceUnit)); err != nil {
		return InsufficientData, err
	}
	return clf.Predict(featureRow(attrs, false, req.DistanceUnit))
}

func (r *ExerciseRecommender) synthesize(logged []domain.LoggedExercise, req ExerciseRequest) domain.ExerciseAttributes {
	if req.TrulyRandom {
		return r.randomAttributes(req)
	}
	return r.historyAttributes(logged, req)
}

func (r *ExerciseRecommender) randomAttributes(req ExerciseRequest) domain.ExerciseAttributes {
	sets := randInt(r.rng, 1, 5)
	reps := randInt(r.rng, 1, 15)
	distance := float64(randInt(r.rng, 10, 100)) / 10
	duration := time.Duration(randInt(r.rng, 1, 20)) * time.Minute
	return domain.ExerciseAttributes{
		Sets:          &sets,
		Reps:          &reps,
		Distance:      &distance,
		DistanceUnits: req.DistanceUnit,
		Duration:      &duration,
	}
}

// historyAttributes scales the user's logged averages by random factors. An attribute with no
// logged values stays unset.
func (r *ExerciseRecommender) historyAttributes(logged []domain.LoggedExercise, req ExerciseRequest) domain.ExerciseAttributes {
	var attrs domain.ExerciseAttributes

	var minutes []float64
	for _, l := range logged {
		if l.Duration != nil {
			minutes = append(minutes, l.Duration.Minutes())
		}
	}
	if m, ok := mean(minutes); ok {
		scaled := roundTo(m*uniform(r.rng, 0.8, 1.2), 2)
		d := time.Duration(scaled * float64(time.Minute)).Truncate(time.Second)
		if d > 0 {
			attrs.Duration = &d
		}
	}

	var sets []float64
	for _, l := range logged {
		if l.Sets != nil {
			sets = append(sets, float64(*l.Sets))
		}
	}
	if m, ok := mean(sets); ok {
		s := int(math.Round(m * uniform(r.rng, 0.8, 1.2)))
		if s < 1 {
			s = 1
		}
		attrs.Sets = &s
	}

	// Reps come from sessions with a comparable number of sets.
	var reps []float64
	for _, l := range logged {
		if l.Reps == nil {
			continue
		}
		if attrs.Sets != nil && (l.Sets == nil || *l.Sets < *attrs.Sets-1) {
			continue
		}
		reps = append(reps, float64(*l.Reps))
	}
	if m, ok := mean(reps); ok {
		n := int(math.Round(m * uniform(r.rng, 0.9, 1.2)))
		if n < 1 {
			n = 1
		}
		attrs.Reps = &n
	}

	var distances []float64
	for _, l := range logged {
		if l.Distance == nil {
			continue
		}
		if d, ok := ConvertDistance(*l.Distance, l.DistanceUnits, req.DistanceUnit); ok {
			distances = append(distances, d)
		}
	}
	if m, ok := mean(distances); ok {
		d := roundTo(m*uniform(r.rng, 0.7, 1.3), 1)
		if d > 0 {
			attrs.Distance = &d
			attrs.DistanceUnits = req.DistanceUnit
		}
	}

	var weights []float64
	for _, l := range logged {
		if l.EquipmentWeightUnits == req.WeightUnit {
			weights = append(weights, l.EquipmentWeight...)
		}
	}
	if low, ok := lowMedian(weights); ok {
		high, _ := maxOf(weights)
		lo := math.Round(low * uniform(r.rng, 0.9, 1.1))
		hi := math.Round(high * uniform(r.rng, 1.0, 1.2))
		if hi < lo {
			hi = lo
		}
		if attrs.Sets == nil {
			one := 1
			attrs.Sets = &one
		}
		ramp := linspace(lo, hi, *attrs.Sets)
		for i := range ramp {
			ramp[i] = math.Round(ramp[i])
		}
		attrs.EquipmentWeight = ramp
		attrs.EquipmentWeightUnits = req.WeightUnit
	}

	return attrs
}
