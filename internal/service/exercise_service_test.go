package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var benchPress = domain.Exercise{
	Name:         "Bench Press",
	Category:     domain.CategoryMuscle,
	BodyArea:     "Chest",
	TargetMuscle: "Pectorals",
}

func newTestExerciseService(exercises ...domain.Exercise) (ExerciseService, *fakeLoggedExerciseRepo, *fakeRecommendedRepo) {
	logged := &fakeLoggedExerciseRepo{}
	recs := &fakeRecommendedRepo{}
	return NewExerciseService(newFakeExerciseRepo(exercises...), logged, recs), logged, recs
}

func TestExerciseService_CreateExercise(t *testing.T) {
	svc, _, _ := newTestExerciseService(benchPress)
	ctx := context.Background()

	if _, err := svc.CreateExercise(ctx, benchPress); !errors.Is(err, ErrExerciseExists) {
		t.Errorf("duplicate: err = %v", err)
	}

	bad := benchPress
	bad.Name = "Mystery"
	bad.BodyArea = "Elbow"
	if _, err := svc.CreateExercise(ctx, bad); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad body area: err = %v", err)
	}

	squat := domain.Exercise{Name: " Squat ", Category: domain.CategoryMuscle, BodyArea: "Upper Legs", TargetMuscle: "Quadriceps"}
	got, err := svc.CreateExercise(ctx, squat)
	if err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	if got.ID.IsZero() || got.Name != "Squat" {
		t.Errorf("created = %+v", got)
	}
}

func TestExerciseService_ListExercisesClampsPageSize(t *testing.T) {
	var many []domain.Exercise
	for i := 0; i < MaxExercisePageSize+20; i++ {
		many = append(many, domain.Exercise{Name: primitive.NewObjectID().Hex()})
	}
	svc, _, _ := newTestExerciseService(many...)

	got, err := svc.ListExercises(context.Background(), repository.ExerciseFilter{Limit: 10_000})
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	if len(got) != MaxExercisePageSize {
		t.Errorf("page size = %d, want %d", len(got), MaxExercisePageSize)
	}

	got, _ = svc.ListExercises(context.Background(), repository.ExerciseFilter{})
	if len(got) != DefaultExercisePageSize {
		t.Errorf("default page size = %d, want %d", len(got), DefaultExercisePageSize)
	}
}

func TestExerciseService_LogExerciseValidation(t *testing.T) {
	tests := []struct {
		name  string
		attrs domain.ExerciseAttributes
	}{
		{"no information", domain.ExerciseAttributes{}},
		{"distance without units", domain.ExerciseAttributes{Distance: floatPtr(5)}},
		{"distance with unknown units", domain.ExerciseAttributes{Distance: floatPtr(5), DistanceUnits: "furlong"}},
		{"weights without units", domain.ExerciseAttributes{EquipmentWeight: []float64{20}}},
		{"negative weight", domain.ExerciseAttributes{EquipmentWeight: []float64{-1}, EquipmentWeightUnits: "kg"}},
		{"zero sets", domain.ExerciseAttributes{Sets: intPtr(0)}},
		{"negative duration", domain.ExerciseAttributes{Duration: durPtr(-time.Minute)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, logged, _ := newTestExerciseService(benchPress)
			_, err := svc.LogExercise(context.Background(), primitive.NewObjectID(), LogExerciseInput{
				ExerciseName:       "Bench Press",
				ExerciseAttributes: tt.attrs,
			})
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("err = %v, want ErrValidationFailed", err)
			}
			if len(logged.logs) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestExerciseService_LogExercise(t *testing.T) {
	svc, logged, _ := newTestExerciseService(benchPress)
	userID := primitive.NewObjectID()

	got, err := svc.LogExercise(context.Background(), userID, LogExerciseInput{
		ExerciseName: "Bench Press",
		ExerciseAttributes: domain.ExerciseAttributes{
			Reps:                 intPtr(8),
			EquipmentWeight:      []float64{40, 45, 50},
			EquipmentWeightUnits: "kg",
		},
	})
	if err != nil {
		t.Fatalf("LogExercise: %v", err)
	}
	if got.Sets == nil || *got.Sets != 3 {
		t.Errorf("sets should default to the number of weights, got %v", got.Sets)
	}
	if got.DateLogged.IsZero() {
		t.Error("date should default to now")
	}
	if len(logged.logs) != 1 || logged.logs[0].UserID != userID {
		t.Errorf("stored logs = %+v", logged.logs)
	}

	_, err = svc.LogExercise(context.Background(), userID, LogExerciseInput{
		ExerciseName:       "Unknown",
		ExerciseAttributes: domain.ExerciseAttributes{Reps: intPtr(1)},
	})
	if !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("unknown exercise: err = %v", err)
	}
}

func TestExerciseService_SetRecommendationFeedback(t *testing.T) {
	svc, _, recs := newTestExerciseService(benchPress)
	owner := primitive.NewObjectID()
	rec := domain.RecommendedExercise{UserID: owner, GoodRecommendation: true}
	id, _ := recs.Create(context.Background(), &rec)

	if err := svc.SetRecommendationFeedback(context.Background(), primitive.NewObjectID(), id, false); !errors.Is(err, ErrRecommendationNotFound) {
		t.Errorf("other user: err = %v", err)
	}
	if err := svc.SetRecommendationFeedback(context.Background(), owner, id, false); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if recs.recs[0].GoodRecommendation {
		t.Error("feedback not stored")
	}
}
