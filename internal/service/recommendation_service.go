package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/recommend"
	"fitfocus/fitness-api/internal/repository"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type RecommendationService interface {
	// RecommendExercises persists and returns serialized exercise recommendations.
	RecommendExercises(ctx context.Context, userID primitive.ObjectID, req recommend.ExerciseRequest) ([]recommend.Record, error)
	// RecommendConsumables returns serialized catalog entries suited to the user's next meal.
	RecommendConsumables(ctx context.Context, userID primitive.ObjectID, req recommend.ConsumableRequest) ([]recommend.Record, error)
}

type recommendationService struct {
	users       repository.UserRepository
	exercises   repository.ExerciseRepository
	exerciseRec *recommend.ExerciseRecommender
	foodRec     *recommend.ConsumableRecommender
}

// NewRecommendationService creates a new instance of recommendationService.
func NewRecommendationService(users repository.UserRepository, exercises repository.ExerciseRepository, exerciseRec *recommend.ExerciseRecommender, foodRec *recommend.ConsumableRecommender) RecommendationService {
	return &recommendationService{
		users:       users,
		exercises:   exercises,
		exerciseRec: exerciseRec,
		foodRec:     foodRec,
	}
}

func (s *recommendationService) ensureUser(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *recommendationService) RecommendExercises(ctx context.Context, userID primitive.ObjectID, req recommend.ExerciseRequest) ([]recommend.Record, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	recs, err := s.exerciseRec.Recommend(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	records := make([]recommend.Record, 0, len(recs))
	for _, rec := range recs {
		ex, err := s.exercises.GetByID(ctx, rec.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("exercise %s: %w", rec.ExerciseID.Hex(), err)
		}
		records = append(records, recommend.ExerciseRecord(rec, ex.Name))
	}
	return records, nil
}

func (s *recommendationService) RecommendConsumables(ctx context.Context, userID primitive.ObjectID, req recommend.ConsumableRequest) ([]recommend.Record, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.foodRec.Recommend(ctx, userID, req)
}
