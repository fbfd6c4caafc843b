package recommend

import (
	"fitfocus/fitness-api/internal/domain"
	"fmt"
	"time"
)

// Record is a flat key-value rendering of a recommendation, ready for JSON encoding.
type Record map[string]interface{}

// recommendedAtLayout renders timestamps as "2006-01-02 15:04:05.999999-07:00".
const recommendedAtLayout = "2006-01-02 15:04:05.999999-07:00"

// ExerciseRecord flattens an accepted recommendation. The owner and the feedback flag are left
// out, the exercise reference becomes its catalog name, and unset attributes are omitted.
func ExerciseRecord(rec domain.RecommendedExercise, exerciseName string) Record {
	out := Record{
		"id":                   rec.ID.Hex(),
		"ex_name":              exerciseName,
		"datetime_recommended": rec.RecommendedAt.Format(recommendedAtLayout),
	}
	a := rec.ExerciseAttributes
	if a.Sets != nil {
		out["sets"] = *a.Sets
	}
	if a.Reps != nil {
		out["reps"] = *a.Reps
	}
	if a.Distance != nil {
		out["distance"] = *a.Distance
		if a.DistanceUnits != "" {
			out["distance_units"] = a.DistanceUnits
		}
	}
	if a.Duration != nil {
		out["duration"] = formatDuration(*a.Duration)
	}
	if len(a.EquipmentWeight) > 0 {
		out["equipment_weight"] = a.EquipmentWeight
		if a.EquipmentWeightUnits != "" {
			out["equipment_weight_units"] = a.EquipmentWeightUnits
		}
	}
	return out
}

// ConsumableRecord renders a catalog entry. Macros are omitted when absent.
func ConsumableRecord(c domain.Consumable) Record {
	out := Record{
		"name":            c.Name,
		"sample_size":     c.SampleSize,
		"sample_units":    c.SampleUnits,
		"sample_calories": c.SampleCalories,
	}
	if c.SampleMacros != nil {
		if m, ok := domain.MacroMap(c.SampleMacros); ok {
			out["sample_macros"] = m
		} else {
			out["sample_macros"] = c.SampleMacros
		}
	}
	return out
}

// formatDuration renders d as H:MM:SS, dropping fractional seconds.
func formatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
