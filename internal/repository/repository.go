package repository

import (
	"context"
	"fitfocus/fitness-api/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicate    = RepositoryError("duplicate identity")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetByIdentifier finds a user by email or username.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
}

// ExerciseFilter narrows catalog listings. Zero values mean "no filter".
type ExerciseFilter struct {
	NameContains    string
	Category        domain.ExerciseCategory
	BodyArea        string
	EquipmentNeeded *bool
	TargetMuscle    string
	SecondaryMuscle string
	Limit           int
	Offset          int
}

// ExerciseRepository is the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	Upsert(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
	Count(ctx context.Context) (int64, error)
}

// LoggedExerciseFilter narrows a user's exercise log listing.
type LoggedExerciseFilter struct {
	ExerciseID *primitive.ObjectID
	From       *time.Time
	To         *time.Time
}

// LoggedExerciseRepository stores exercises the user reported.
type LoggedExerciseRepository interface {
	Create(ctx context.Context, logged *domain.LoggedExercise) (primitive.ObjectID, error)
	GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.LoggedExercise, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, filter LoggedExerciseFilter) ([]domain.LoggedExercise, error)
}

// RecommendedExerciseRepository stores generated recommendations and their feedback.
type RecommendedExerciseRepository interface {
	Create(ctx context.Context, rec *domain.RecommendedExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RecommendedExercise, error)
	GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.RecommendedExercise, error)
	SetGoodRecommendation(ctx context.Context, id, userID primitive.ObjectID, good bool) error
}

// ConsumableRepository is the food catalog, keyed by name.
type ConsumableRepository interface {
	Upsert(ctx context.Context, consumable *domain.Consumable) error
	GetByName(ctx context.Context, name string) (*domain.Consumable, error)
	Count(ctx context.Context) (int64, error)
	// Sample streams the catalog, keeping each row with probability keep() == true, and stops
	// once limit rows were kept.
	Sample(ctx context.Context, limit int, keep func() bool) ([]domain.Consumable, error)
}

// LoggedConsumableRepository stores eaten consumables.
type LoggedConsumableRepository interface {
	Create(ctx context.Context, logged *domain.LoggedConsumable) (primitive.ObjectID, error)
	// ListByUserBetween returns logs with from <= DateLogged < to.
	ListByUserBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.LoggedConsumable, error)
}

// ProfileRepository stores one profile per user.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
}

// MoodRepository stores mood samples.
type MoodRepository interface {
	Create(ctx context.Context, mood *domain.MoodSample) (primitive.ObjectID, error)
	GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error)
}
