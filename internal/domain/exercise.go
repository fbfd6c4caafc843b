// internal/domain/exercise.go
package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseCategory is the broad kind of an exercise.
type ExerciseCategory string

const (
	CategoryMuscle      ExerciseCategory = "Muscle"
	CategoryCardio      ExerciseCategory = "Cardio"
	CategoryFlexibility ExerciseCategory = "Flexibility"
)

var (
	ErrInvalidCategory = errors.New("invalid exercise category")
	ErrInvalidBodyArea = errors.New("invalid body area")
	ErrInvalidMuscle   = errors.New("invalid muscle type")
	ErrMissingTarget   = errors.New("muscle exercises must have at least one target muscle")
)

// BodyAreas is the closed set of body areas an exercise can work.
var BodyAreas = []string{
	"Back", "Cardio", "Chest", "Lower Arms", "Lower Legs", "Neck", "Shoulders",
	"Upper Arms", "Upper Legs", "Core", "Flexibility",
}

// MuscleTypes is the closed set of muscle names accepted for target/secondary muscles.
var MuscleTypes = []string{
	"Abdominals", "Abductors", "Abs", "Adductors", "Ankle Stabilizers", "Ankles", "Back", "Biceps",
	"Brachialis", "Calves", "Cardio", "Chest", "Core", "Deltoids", "Delts", "Feet", "Forearms",
	"Glutes", "Grip Muscles", "Groin", "Hamstrings", "Hands", "Hip Flexors", "Inner Thighs",
	"Latissimus Dorsi", "Lats", "Levator Scapulae", "Lower Abs", "Lower Back", "Obliques",
	"Pectorals", "Quadriceps", "Quads", "Rear Deltoids", "Rhomboids", "Rotator Cuff",
	"Serratus Anterior", "Shins", "Shoulders", "Soleus", "Spine", "Sternocleidomastoid",
	"Trapezius", "Traps", "Triceps", "Upper Back", "Upper Chest", "Wrist Extensors",
	"Wrist Flexors", "Wrists",
}

// Exercise is an immutable catalog entry. Created by catalog seeding or an explicit create call,
// never mutated by the recommenders.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"` // Unique
	Category         ExerciseCategory   `bson:"category" json:"category"`
	BodyArea         string             `bson:"bodyArea" json:"bodyArea"`
	EquipmentNeeded  bool               `bson:"equipmentNeeded" json:"equipmentNeeded"`
	TargetMuscle     string             `bson:"targetMuscle,omitempty" json:"targetMuscle,omitempty"`
	SecondaryMuscle1 string             `bson:"secondaryMuscle1,omitempty" json:"secondaryMuscle1,omitempty"`
	SecondaryMuscle2 string             `bson:"secondaryMuscle2,omitempty" json:"secondaryMuscle2,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks the entry against the category, body area and muscle vocabularies.
func (e *Exercise) Validate() error {
	switch e.Category {
	case CategoryMuscle, CategoryCardio, CategoryFlexibility:
	default:
		return ErrInvalidCategory
	}
	if !contains(BodyAreas, e.BodyArea) {
		return ErrInvalidBodyArea
	}
	if e.Category == CategoryMuscle {
		if e.TargetMuscle == "" {
			return ErrMissingTarget
		}
		for _, m := range []string{e.TargetMuscle, e.SecondaryMuscle1, e.SecondaryMuscle2} {
			if m != "" && !contains(MuscleTypes, m) {
				return ErrInvalidMuscle
			}
		}
	}
	return nil
}

// ExerciseAttributes are the optional numeric attributes shared by logged and recommended
// exercises. A nil pointer / empty slice means "not recorded".
type ExerciseAttributes struct {
	Sets                 *int           `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps                 *int           `bson:"reps,omitempty" json:"reps,omitempty"`
	Distance             *float64       `bson:"distance,omitempty" json:"distance,omitempty"`
	DistanceUnits        string         `bson:"distanceUnits,omitempty" json:"distanceUnits,omitempty"`
	Duration             *time.Duration `bson:"duration,omitempty" json:"duration,omitempty"`
	EquipmentWeight      []float64      `bson:"equipmentWeight,omitempty" json:"equipmentWeight,omitempty"`
	EquipmentWeightUnits string         `bson:"equipmentWeightUnits,omitempty" json:"equipmentWeightUnits,omitempty"`
}

// IsEmpty reports whether no attribute at all is recorded.
func (a ExerciseAttributes) IsEmpty() bool {
	return a.Sets == nil && a.Reps == nil && a.Distance == nil && a.Duration == nil && len(a.EquipmentWeight) == 0
}

// LoggedExercise is an exercise the user reports having done. Always counted as a good outcome.
type LoggedExercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	DateLogged time.Time          `bson:"dateLogged" json:"dateLogged"`

	ExerciseAttributes `bson:",inline"`
}

// RecommendedExercise is produced exclusively by the exercise recommender. GoodRecommendation
// starts true and is later updated by user feedback.
type RecommendedExercise struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	ExerciseID         primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	RecommendedAt      time.Time          `bson:"recommendedAt" json:"recommendedAt"`
	GoodRecommendation bool               `bson:"goodRecommendation" json:"goodRecommendation"`

	ExerciseAttributes `bson:",inline"`
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
