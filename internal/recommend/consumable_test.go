package recommend

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type logRange struct {
	from, to time.Time
}

type mockConsumableStore struct {
	profile *domain.UserProfile
	mood    *domain.MoodSample
	logs    []domain.LoggedConsumable
	catalog []domain.Consumable
	dupes   map[string]bool

	profileErr error

	logRanges    []logRange
	sampleLimits []int
	byNameCalls  int
}

func (s *mockConsumableStore) Profile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	return s.profile, s.profileErr
}

func (s *mockConsumableStore) LatestMood(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error) {
	return s.mood, nil
}

func (s *mockConsumableStore) LoggedConsumables(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.LoggedConsumable, error) {
	s.logRanges = append(s.logRanges, logRange{from, to})
	var out []domain.LoggedConsumable
	for _, l := range s.logs {
		if !l.DateLogged.Before(from) && l.DateLogged.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *mockConsumableStore) CatalogCount(ctx context.Context) (int64, error) {
	return int64(len(s.catalog)), nil
}

func (s *mockConsumableStore) CatalogSample(ctx context.Context, limit int, keep func() bool) ([]domain.Consumable, error) {
	s.sampleLimits = append(s.sampleLimits, limit)
	var out []domain.Consumable
	for _, c := range s.catalog {
		if len(out) >= limit {
			break
		}
		if keep() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *mockConsumableStore) ConsumableByName(ctx context.Context, name string) (*domain.Consumable, error) {
	s.byNameCalls++
	if s.dupes[name] {
		return nil, repository.ErrDuplicate
	}
	for _, c := range s.catalog {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type mockFiller struct {
	store *mockConsumableStore
	rows  int
	calls int
}

func (f *mockFiller) FillConsumables(ctx context.Context) error {
	f.calls++
	for i := 0; i < f.rows; i++ {
		f.store.catalog = append(f.store.catalog, domain.Consumable{
			Name:           fmt.Sprintf("Imported %03d", i),
			SampleCalories: 100 + i,
		})
	}
	return nil
}

func catalogOf(n int) []domain.Consumable {
	out := make([]domain.Consumable, n)
	for i := range out {
		out[i] = domain.Consumable{
			Name:           fmt.Sprintf("Food %03d", i),
			SampleSize:     1,
			SampleUnits:    domain.DefaultSampleUnits,
			SampleCalories: 50 + 5*i,
			SampleMacros: map[string]float64{
				domain.MacroCarbohydrates: float64(i % 40),
				domain.MacroProtein:       float64(i % 25),
				domain.MacroFat:           float64(i % 12),
			},
		}
	}
	return out
}

var fixedNow = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestConsumableRecommender_ReturnsRequestedCount(t *testing.T) {
	store := &mockConsumableStore{catalog: catalogOf(500), profile: maleProfile()}
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(11)), WithConsumableClock(fixedClock))

	got, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{Count: 3})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for _, r := range got {
		name, _ := r["name"].(string)
		if !strings.HasPrefix(name, "Food ") {
			t.Errorf("unexpected record %v", r)
		}
	}
	if len(store.sampleLimits) != 1 || store.sampleLimits[0] != 50 {
		t.Errorf("sample limit = %v, want [50]", store.sampleLimits)
	}
}

func TestConsumableRecommender_MissingProfileAndMoodUseDefaults(t *testing.T) {
	store := &mockConsumableStore{catalog: catalogOf(200)}
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(4)), WithConsumableClock(fixedClock))

	targets, err := rec.MealTargets(context.Background(), primitive.NewObjectID(), fixedNow)
	if err != nil {
		t.Fatalf("MealTargets: %v", err)
	}
	// 2000 kcal over 3 meals with baseline ratios.
	want := MealTargets{Calories: 666, CarbsG: 91, ProteinG: 41, FatG: 14}
	if targets != want {
		t.Errorf("MealTargets = %+v, want %+v", targets, want)
	}

	if _, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
}

func TestConsumableRecommender_MealTargetsUseDayAndMood(t *testing.T) {
	store := &mockConsumableStore{
		profile: maleProfile(),
		mood:    &domain.MoodSample{MoodLevel: 2},
		logs: []domain.LoggedConsumable{
			{ConsumableName: "Pasta", DateLogged: time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC), CaloriesLogged: 1000},
			// Previous day, ignored.
			{ConsumableName: "Cake", DateLogged: time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC), CaloriesLogged: 900},
		},
	}
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(1)), WithConsumableClock(fixedClock))

	got, err := rec.MealTargets(context.Background(), primitive.NewObjectID(), fixedNow)
	if err != nil {
		t.Fatalf("MealTargets: %v", err)
	}
	// 1853 - 1000 = 853 kcal left, two meals; macros 254/115/41 adjusted for mood +2.
	// Mood +2 gives 195g carbs, 149g protein and 31g fat before the split.
	want := MealTargets{Calories: 426, CarbsG: 97, ProteinG: 74, FatG: 15}
	if got != want {
		t.Errorf("MealTargets = %+v, want %+v", got, want)
	}
	day := store.logRanges[0]
	if !day.from.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) || !day.to.Equal(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day range = %v..%v", day.from, day.to)
	}
}

func TestConsumableRecommender_FillsSmallCatalogOnce(t *testing.T) {
	store := &mockConsumableStore{catalog: catalogOf(20)}
	filler := &mockFiller{store: store, rows: 180}
	rec := NewConsumableRecommender(store, filler, rand.New(rand.NewSource(8)), WithConsumableClock(fixedClock))

	if _, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{Count: 2}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if filler.calls != 1 {
		t.Errorf("filler calls = %d, want 1", filler.calls)
	}
	if store.sampleLimits[0] != 20 {
		t.Errorf("sample limit = %d, want 20 after fill", store.sampleLimits[0])
	}

	if _, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{Count: 2}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if filler.calls != 1 {
		t.Errorf("filler should not run once the catalog is large enough, calls = %d", filler.calls)
	}
}

func TestConsumableRecommender_PoolIncludesRecentMeals(t *testing.T) {
	store := &mockConsumableStore{
		catalog: []domain.Consumable{{Name: "Greek Yogurt", SampleCalories: 120}},
		logs: []domain.LoggedConsumable{
			// Names are case-sensitive; no such catalog entry.
			{ConsumableName: "greek yogurt", DateLogged: fixedNow.Add(-24 * time.Hour)},
			{ConsumableName: "Greek Yogurt", DateLogged: fixedNow.Add(-48 * time.Hour)},
			// Catalog entry was deleted.
			{ConsumableName: "Discontinued Bar", DateLogged: fixedNow.Add(-72 * time.Hour)},
			// Outside the two week window.
			{ConsumableName: "Old Soup", DateLogged: fixedNow.Add(-20 * 24 * time.Hour)},
		},
	}
	store.catalog = append(store.catalog, domain.Consumable{Name: "Old Soup"})
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(1)),
		WithConsumableClock(fixedClock), WithCatalogMinSize(0))

	pool, err := rec.candidatePool(context.Background(), primitive.NewObjectID(), fixedNow)
	if err != nil {
		t.Fatalf("candidatePool: %v", err)
	}
	if len(pool) != 1 || pool[0].Name != "Greek Yogurt" {
		t.Errorf("pool = %+v, want only Greek Yogurt", pool)
	}

	window := store.logRanges[len(store.logRanges)-1]
	if !window.from.Equal(fixedNow.Add(-DefaultLookback)) || !window.to.Equal(fixedNow) {
		t.Errorf("lookback window = %v..%v", window.from, window.to)
	}
}

func TestConsumableRecommender_DuplicateCatalogRowsFailTheCall(t *testing.T) {
	store := &mockConsumableStore{
		catalog: []domain.Consumable{{Name: "Rice"}},
		dupes:   map[string]bool{"Rice": true},
		logs:    []domain.LoggedConsumable{{ConsumableName: "Rice", DateLogged: fixedNow.Add(-time.Hour)}},
	}
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(1)),
		WithConsumableClock(fixedClock), WithCatalogMinSize(0))

	_, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{})
	if !errors.Is(err, ErrInconsistentCatalog) {
		t.Fatalf("expected ErrInconsistentCatalog, got %v", err)
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected wrapped ErrDuplicate, got %v", err)
	}
}

func TestConsumableRecommender_EmptyPool(t *testing.T) {
	store := &mockConsumableStore{}
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(1)), WithConsumableClock(fixedClock))

	got, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{Count: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestConsumableRecommender_ProfileErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	store := &mockConsumableStore{profileErr: boom}
	rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(1)), WithConsumableClock(fixedClock))

	if _, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{}); !errors.Is(err, boom) {
		t.Errorf("expected profile error, got %v", err)
	}
}

func TestConsumableRecommender_SelectionFavoursLowScores(t *testing.T) {
	// One ideal candidate among many poor ones; over many seeds it should nearly always be picked.
	catalog := []domain.Consumable{{
		Name:           "Ideal",
		SampleCalories: 666,
		SampleMacros: map[string]float64{
			domain.MacroCarbohydrates: 91,
			domain.MacroProtein:       41,
			domain.MacroFat:           14,
		},
	}}
	for i := 0; i < 20; i++ {
		catalog = append(catalog, domain.Consumable{Name: fmt.Sprintf("Junk %02d", i), SampleCalories: 3000})
	}

	picked := 0
	for seed := int64(1); seed <= 50; seed++ {
		store := &mockConsumableStore{
			catalog: catalog,
			logs:    []domain.LoggedConsumable{{ConsumableName: "Ideal", DateLogged: fixedNow.Add(-time.Hour)}},
		}
		rec := NewConsumableRecommender(store, nil, rand.New(rand.NewSource(seed)),
			WithConsumableClock(fixedClock), WithCatalogMinSize(0))
		got, err := rec.Recommend(context.Background(), primitive.NewObjectID(), ConsumableRequest{Count: 1})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(got) == 1 && got[0]["name"] == "Ideal" {
			picked++
		}
	}
	// Each run accepts the top candidate with probability 0.8.
	if picked < 25 {
		t.Errorf("ideal candidate picked %d/50 times, expected most runs", picked)
	}
}
