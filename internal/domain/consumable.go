// internal/domain/consumable.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Macro keys used by the nutrition pipeline.
const (
	MacroCarbohydrates = "carbohydrates_g"
	MacroProtein       = "protein_g"
	MacroFat           = "fat_g"
)

// DefaultSampleUnits is used when a consumable is created without explicit units.
const DefaultSampleUnits = "serving"

// Consumable is a food catalog entry. Name is the primary key; there is no surrogate id.
//
// SampleMacros is kept loosely typed: catalog rows come from user input and bulk imports, and a
// stored value that is not a mapping must still be readable (it is scored, not rejected).
type Consumable struct {
	Name           string      `bson:"_id" json:"name"`
	SampleSize     float64     `bson:"sampleSize" json:"sample_size"`
	SampleUnits    string      `bson:"sampleUnits" json:"sample_units"`
	SampleCalories int         `bson:"sampleCalories" json:"sample_calories"`
	SampleMacros   interface{} `bson:"sampleMacros,omitempty" json:"sample_macros,omitempty"`
	UpdatedAt      time.Time   `bson:"updatedAt" json:"-"`
}

// LoggedConsumable records an amount of a consumable eaten on a given day. ConsumableName may
// point at a catalog entry that no longer exists; integrity is not enforced on delete.
type LoggedConsumable struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"-"`
	ConsumableName string             `bson:"consumable" json:"consumable"`
	AmountLogged   float64            `bson:"amountLogged" json:"amount_logged"`
	DateLogged     time.Time          `bson:"dateLogged" json:"date_logged"`
	CaloriesLogged int                `bson:"caloriesLogged" json:"calories_logged"`
	MacrosLogged   map[string]float64 `bson:"macrosLogged,omitempty" json:"macros_logged,omitempty"`
}

// MacroMap converts a loosely typed macro value into a numeric map. ok is false when v is not a
// mapping or one of its values is not numeric.
func MacroMap(v interface{}) (map[string]float64, bool) {
	var raw map[string]interface{}
	switch m := v.(type) {
	case map[string]float64:
		return m, true
	case map[string]interface{}:
		raw = m
	case bson.M:
		raw = m
	case bson.D:
		raw = make(map[string]interface{}, len(m))
		for _, e := range m {
			raw[e.Key] = e.Value
		}
	default:
		return nil, false
	}

	out := make(map[string]float64, len(raw))
	for k, val := range raw {
		f, ok := toFloat(val)
		if !ok {
			return nil, false
		}
		out[k] = f
	}
	return out, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
