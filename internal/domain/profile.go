// internal/domain/profile.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sex as reported in the profile. SexUnset means the user did not say.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "X"
	SexUnset  Sex = ""
)

// Body goal tags understood by the nutrition targets.
const (
	GoalReducingBodyFat    = "Reducing Body Fat"
	GoalIncreasingBodyFat  = "Increasing Body Fat"
	GoalBuildingMuscleMass = "Building Muscle Mass"
	GoalBodyMaintenance    = "Body Maintenance"
	GoalMuscleToning       = "Muscle Toning"
	GoalBoostingMetabolism = "Boosting Metabolism"
)

// BodyGoals lists every accepted goal tag.
var BodyGoals = []string{
	GoalReducingBodyFat,
	GoalIncreasingBodyFat,
	GoalBuildingMuscleMass,
	GoalBodyMaintenance,
	GoalMuscleToning,
	GoalBoostingMetabolism,
}

// IsBodyGoal reports whether tag is one of BodyGoals.
func IsBodyGoal(tag string) bool { return contains(BodyGoals, tag) }

// UserProfile holds the physical data used for calorie targets. One document per user.
type UserProfile struct {
	UserID       primitive.ObjectID `bson:"_id" json:"-"`
	Age          int                `bson:"age" json:"age"`
	Sex          Sex                `bson:"sex,omitempty" json:"sex,omitempty"`
	Height       float64            `bson:"height" json:"height"`
	HeightUnits  string             `bson:"heightUnits" json:"heightUnits"` // "cm" or "in"
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	WeightUnits  string             `bson:"weightUnits,omitempty" json:"weightUnits,omitempty"` // "kg" or "lb"
	TargetWeight *float64           `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	BodyGoals    []string           `bson:"bodyGoals,omitempty" json:"bodyGoals,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MoodSample is a self-reported mood level in [-2, 2].
type MoodSample struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID     primitive.ObjectID `bson:"userId" json:"-"`
	MoodLevel  int                `bson:"moodLevel" json:"mood_level"`
	RecordedAt time.Time          `bson:"recordedAt" json:"datetime_recorded"`
}

// ValidMoodLevel reports whether level is in the accepted range.
func ValidMoodLevel(level int) bool { return level >= -2 && level <= 2 }
