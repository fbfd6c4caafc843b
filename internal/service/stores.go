package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/recommend"
	"fitfocus/fitness-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// exerciseStore adapts the exercise repositories to recommend.ExerciseStore.
type exerciseStore struct {
	exercises   repository.ExerciseRepository
	logged      repository.LoggedExerciseRepository
	recommended repository.RecommendedExerciseRepository
}

// NewExerciseStore exposes the exercise repositories to the exercise recommender.
func NewExerciseStore(exercises repository.ExerciseRepository, logged repository.LoggedExerciseRepository, recommended repository.RecommendedExerciseRepository) recommend.ExerciseStore {
	return &exerciseStore{exercises: exercises, logged: logged, recommended: recommended}
}

func (s *exerciseStore) ListExerciseIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return s.exercises.ListIDs(ctx)
}

func (s *exerciseStore) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	return s.exercises.GetByID(ctx, id)
}

func (s *exerciseStore) ExerciseHistory(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.LoggedExercise, []domain.RecommendedExercise, error) {
	logged, err := s.logged.GetByUserAndExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, nil, err
	}
	recs, err := s.recommended.GetByUserAndExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, nil, err
	}
	return logged, recs, nil
}

func (s *exerciseStore) SaveRecommendedExercise(ctx context.Context, rec *domain.RecommendedExercise) error {
	id, err := s.recommended.Create(ctx, rec)
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// consumableStore adapts the nutrition repositories to recommend.ConsumableStore.
type consumableStore struct {
	profiles    repository.ProfileRepository
	moods       repository.MoodRepository
	logged      repository.LoggedConsumableRepository
	consumables repository.ConsumableRepository
}

// NewConsumableStore exposes the nutrition repositories to the consumable recommender.
func NewConsumableStore(profiles repository.ProfileRepository, moods repository.MoodRepository, logged repository.LoggedConsumableRepository, consumables repository.ConsumableRepository) recommend.ConsumableStore {
	return &consumableStore{profiles: profiles, moods: moods, logged: logged, consumables: consumables}
}

func (s *consumableStore) Profile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// LatestMood reads only; a missing sample is reported as nil rather than persisted as neutral.
func (s *consumableStore) LatestMood(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error) {
	m, err := s.moods.GetLatest(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

func (s *consumableStore) LoggedConsumables(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.LoggedConsumable, error) {
	return s.logged.ListByUserBetween(ctx, userID, from, to)
}

func (s *consumableStore) CatalogCount(ctx context.Context) (int64, error) {
	return s.consumables.Count(ctx)
}

func (s *consumableStore) CatalogSample(ctx context.Context, limit int, keep func() bool) ([]domain.Consumable, error) {
	return s.consumables.Sample(ctx, limit, keep)
}

func (s *consumableStore) ConsumableByName(ctx context.Context, name string) (*domain.Consumable, error) {
	return s.consumables.GetByName(ctx, name)
}
