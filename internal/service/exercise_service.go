package service

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound       = errors.New("exercise not found")
	ErrExerciseExists         = errors.New("exercise with this name already exists")
	ErrValidationFailed       = errors.New("validation failed")
	ErrRecommendationNotFound = errors.New("recommended exercise not found")
)

// Pagination defaults for catalog listings.
const (
	DefaultExercisePageSize = 50
	MaxExercisePageSize     = 200
)

var (
	distanceUnits = []string{"m", "km", "mi"}
	weightUnits   = []string{"kg", "lb"}
)

// LogExerciseInput is a user's report of an exercise they did.
type LogExerciseInput struct {
	ExerciseName string
	DateLogged   time.Time // zero means now
	domain.ExerciseAttributes
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error)
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	LogExercise(ctx context.Context, userID primitive.ObjectID, in LogExerciseInput) (*domain.LoggedExercise, error)
	ListLoggedExercises(ctx context.Context, userID primitive.ObjectID, filter repository.LoggedExerciseFilter) ([]domain.LoggedExercise, error)
	// SetRecommendationFeedback marks one of the user's recommended exercises as good or bad.
	SetRecommendationFeedback(ctx context.Context, userID, recommendationID primitive.ObjectID, good bool) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo    repository.ExerciseRepository
	loggedRepo      repository.LoggedExerciseRepository
	recommendedRepo repository.RecommendedExerciseRepository
	now             func() time.Time
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, loggedRepo repository.LoggedExerciseRepository, recommendedRepo repository.RecommendedExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo:    exerciseRepo,
		loggedRepo:      loggedRepo,
		recommendedRepo: recommendedRepo,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// CreateExercise validates and adds a catalog entry.
func (s *exerciseService) CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	exercise.Name = strings.TrimSpace(exercise.Name)
	if exercise.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if err := exercise.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	id, err := s.exerciseRepo.Create(ctx, &exercise)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	exercise.ID = id
	return &exercise, nil
}

// ListExercises returns one page of the catalog.
func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultExercisePageSize
	}
	if filter.Limit > MaxExercisePageSize {
		filter.Limit = MaxExercisePageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.exerciseRepo.List(ctx, filter)
}

// LogExercise records an exercise the user did. At least one attribute is required; a distance
// needs units, and so do weights. Sets default to the number of weights given.
func (s *exerciseService) LogExercise(ctx context.Context, userID primitive.ObjectID, in LogExerciseInput) (*domain.LoggedExercise, error) {
	attrs := in.ExerciseAttributes
	if attrs.IsEmpty() {
		return nil, fmt.Errorf("%w: no exercise information given", ErrValidationFailed)
	}
	if err := validateAttributes(&attrs); err != nil {
		return nil, err
	}

	exercise, err := s.exerciseRepo.GetByName(ctx, strings.TrimSpace(in.ExerciseName))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	logged := &domain.LoggedExercise{
		UserID:             userID,
		ExerciseID:         exercise.ID,
		DateLogged:         in.DateLogged,
		ExerciseAttributes: attrs,
	}
	if logged.DateLogged.IsZero() {
		logged.DateLogged = s.now()
	}

	id, err := s.loggedRepo.Create(ctx, logged)
	if err != nil {
		return nil, err
	}
	logged.ID = id
	return logged, nil
}

func validateAttributes(a *domain.ExerciseAttributes) error {
	if a.Sets != nil && *a.Sets < 1 {
		return fmt.Errorf("%w: sets must be positive", ErrValidationFailed)
	}
	if a.Reps != nil && *a.Reps < 1 {
		return fmt.Errorf("%w: reps must be positive", ErrValidationFailed)
	}
	if a.Duration != nil && *a.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrValidationFailed)
	}
	if a.Distance != nil {
		if *a.Distance <= 0 {
			return fmt.Errorf("%w: distance must be positive", ErrValidationFailed)
		}
		if !oneOf(distanceUnits, a.DistanceUnits) {
			return fmt.Errorf("%w: distance requires units (m, km or mi)", ErrValidationFailed)
		}
	}
	if len(a.EquipmentWeight) > 0 {
		if !oneOf(weightUnits, a.EquipmentWeightUnits) {
			return fmt.Errorf("%w: equipment weight requires units (kg or lb)", ErrValidationFailed)
		}
		for _, w := range a.EquipmentWeight {
			if w < 0 {
				return fmt.Errorf("%w: equipment weight must not be negative", ErrValidationFailed)
			}
		}
		if a.Sets == nil {
			n := len(a.EquipmentWeight)
			a.Sets = &n
		}
	}
	return nil
}

// ListLoggedExercises returns the user's log, newest first.
func (s *exerciseService) ListLoggedExercises(ctx context.Context, userID primitive.ObjectID, filter repository.LoggedExerciseFilter) ([]domain.LoggedExercise, error) {
	return s.loggedRepo.ListByUser(ctx, userID, filter)
}

func (s *exerciseService) SetRecommendationFeedback(ctx context.Context, userID, recommendationID primitive.ObjectID, good bool) error {
	err := s.recommendedRepo.SetGoodRecommendation(ctx, recommendationID, userID, good)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecommendationNotFound
	}
	return err
}

func oneOf(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
