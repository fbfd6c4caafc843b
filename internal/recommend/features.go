package recommend

import "fitfocus/fitness-api/internal/domain"

// featureRow reduces recorded attributes to a FeatureRow; missing values become 0. Distance is
// expressed in distanceUnit so rows logged in different units stay comparable.
func featureRow(a domain.ExerciseAttributes, good bool, distanceUnit string) FeatureRow {
	row := FeatureRow{Good: good}
	if a.Sets != nil {
		row.Sets = float64(*a.Sets)
	}
	if a.Reps != nil {
		row.Reps = float64(*a.Reps)
	}
	if a.Distance != nil {
		row.Distance = *a.Distance
		if d, ok := ConvertDistance(*a.Distance, a.DistanceUnits, distanceUnit); ok {
			row.Distance = d
		}
	}
	if a.Duration != nil {
		row.DurationMinutes = a.Duration.Minutes()
	}
	return row
}

// trainingRows labels logged records good and recommended records by their feedback flag.
func trainingRows(logged []domain.LoggedExercise, recommended []domain.RecommendedExercise, distanceUnit string) []FeatureRow {
	rows := make([]FeatureRow, 0, len(logged)+len(recommended))
	for _, r := range recommended {
		rows = append(rows, featureRow(r.ExerciseAttributes, r.GoodRecommendation, distanceUnit))
	}
	for _, l := range logged {
		rows = append(rows, featureRow(l.ExerciseAttributes, true, distanceUnit))
	}
	return rows
}
