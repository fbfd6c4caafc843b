package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/recommend"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recommendationFixture struct {
	svc         RecommendationService
	userID      primitive.ObjectID
	recommended *fakeRecommendedRepo
	consumables *fakeConsumableRepo
	logged      *fakeLoggedConsumableRepo
	moods       *fakeMoodRepo
}

func newRecommendationFixture(t *testing.T) *recommendationFixture {
	t.Helper()
	users := newFakeUserRepo()
	userID, err := users.Create(context.Background(), &domain.User{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	exercises := newFakeExerciseRepo(
		benchPress,
		domain.Exercise{Name: "Running", Category: domain.CategoryCardio, BodyArea: "Cardio"},
		domain.Exercise{Name: "Hamstring Stretch", Category: domain.CategoryFlexibility, BodyArea: "Flexibility"},
	)
	recommended := &fakeRecommendedRepo{}

	var foods []domain.Consumable
	for i := 0; i < 40; i++ {
		foods = append(foods, domain.Consumable{
			Name:           fmt.Sprintf("Food %02d", i),
			SampleCalories: 100 + 20*i,
			SampleMacros:   map[string]float64{domain.MacroProtein: float64(i), domain.MacroFat: 5},
		})
	}
	consumables := newFakeConsumableRepo(foods...)
	logged := &fakeLoggedConsumableRepo{}
	moods := &fakeMoodRepo{}

	rng := rand.New(rand.NewSource(3))
	exerciseRec := recommend.NewExerciseRecommender(
		NewExerciseStore(exercises, &fakeLoggedExerciseRepo{}, recommended), nil, rng)
	foodRec := recommend.NewConsumableRecommender(
		NewConsumableStore(newFakeProfileRepo(), moods, logged, consumables), nil, rng,
		recommend.WithCatalogMinSize(0))

	return &recommendationFixture{
		svc:         NewRecommendationService(users, exercises, exerciseRec, foodRec),
		userID:      userID,
		recommended: recommended,
		consumables: consumables,
		logged:      logged,
		moods:       moods,
	}
}

func TestRecommendationService_RecommendExercises(t *testing.T) {
	f := newRecommendationFixture(t)

	records, err := f.svc.RecommendExercises(context.Background(), f.userID, recommend.ExerciseRequest{Count: 2})
	if err != nil {
		t.Fatalf("RecommendExercises: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if len(f.recommended.recs) != 2 {
		t.Errorf("persisted %d recommendations, want 2", len(f.recommended.recs))
	}
	for _, r := range records {
		if name, _ := r["ex_name"].(string); name == "" {
			t.Errorf("record without exercise name: %v", r)
		}
		if _, ok := r["id"]; !ok {
			t.Errorf("record without id: %v", r)
		}
	}
}

func TestRecommendationService_UnknownUser(t *testing.T) {
	f := newRecommendationFixture(t)
	ctx := context.Background()

	if _, err := f.svc.RecommendExercises(ctx, primitive.NewObjectID(), recommend.ExerciseRequest{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("exercises: err = %v", err)
	}
	if _, err := f.svc.RecommendConsumables(ctx, primitive.NewObjectID(), recommend.ConsumableRequest{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("consumables: err = %v", err)
	}
}

func TestRecommendationService_RecommendConsumables(t *testing.T) {
	f := newRecommendationFixture(t)
	f.logged.logs = append(f.logged.logs, domain.LoggedConsumable{
		UserID: f.userID, ConsumableName: "Food 07", DateLogged: time.Now().UTC().Add(-time.Hour),
	})

	records, err := f.svc.RecommendConsumables(context.Background(), f.userID, recommend.ConsumableRequest{Count: 1})
	if err != nil {
		t.Fatalf("RecommendConsumables: %v", err)
	}
	if len(records) > 1 {
		t.Errorf("got %d records, want at most 1", len(records))
	}
	if f.moods.creates != 0 {
		t.Error("recommending must not persist a default mood")
	}
}

func TestRecommendationService_InconsistentCatalog(t *testing.T) {
	f := newRecommendationFixture(t)
	f.consumables.dupes["Mystery Meal"] = true
	f.logged.logs = append(f.logged.logs, domain.LoggedConsumable{
		UserID: f.userID, ConsumableName: "Mystery Meal", DateLogged: time.Now().UTC().Add(-time.Hour),
	})

	_, err := f.svc.RecommendConsumables(context.Background(), f.userID, recommend.ConsumableRequest{Count: 1})
	if !errors.Is(err, recommend.ErrInconsistentCatalog) {
		t.Errorf("err = %v, want ErrInconsistentCatalog", err)
	}
}

func TestConsumableStore_MissingProfileAndMoodAreNil(t *testing.T) {
	store := NewConsumableStore(newFakeProfileRepo(), &fakeMoodRepo{}, &fakeLoggedConsumableRepo{}, newFakeConsumableRepo())
	ctx := context.Background()

	p, err := store.Profile(ctx, primitive.NewObjectID())
	if p != nil || err != nil {
		t.Errorf("Profile = %v, %v", p, err)
	}
	m, err := store.LatestMood(ctx, primitive.NewObjectID())
	if m != nil || err != nil {
		t.Errorf("LatestMood = %v, %v", m, err)
	}
}
