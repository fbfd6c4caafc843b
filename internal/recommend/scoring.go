package recommend

import (
	"fitfocus/fitness-api/internal/domain"
)

const (
	// zeroProteinPenaltyRatio replaces floor/protein when protein is exactly 0.
	zeroProteinPenaltyRatio = 10000

	nonPositiveTargetPenalty = 4
	missingFatPenalty        = 1
	missingMacrosPenalty     = 3
)

// CandidateScorer ranks consumables against per-meal targets. Lower scores are better.
type CandidateScorer struct{}

// Score adds up the calorie and macro penalties of one catalog entry.
func (CandidateScorer) Score(c domain.Consumable, t MealTargets) float64 {
	maxCal := t.Calories
	if maxCal < 1 {
		maxCal = 1
	}
	calRatio := float64(c.SampleCalories) / float64(maxCal)
	score := calRatio * calRatio

	macros, ok := domain.MacroMap(c.SampleMacros)
	if c.SampleMacros == nil || !ok {
		return score + missingMacrosPenalty
	}

	if protein, present := macros[domain.MacroProtein]; present {
		score += proteinPenalty(protein, float64(t.ProteinG))
	}
	if carbs, present := macros[domain.MacroCarbohydrates]; present {
		score += ceilingPenalty(carbs, float64(t.CarbsG))
	}
	if fat, present := macros[domain.MacroFat]; present {
		score += ceilingPenalty(fat, float64(t.FatG))
	} else {
		score += missingFatPenalty
	}
	return score
}

// proteinPenalty is (protein/floor)^2 at or above the floor and (floor/protein)^2 below it.
func proteinPenalty(protein, floor float64) float64 {
	if floor <= 0 {
		return nonPositiveTargetPenalty
	}
	ratio := protein / floor
	if ratio < 1 {
		if protein == 0 {
			ratio = zeroProteinPenaltyRatio
		} else {
			ratio = 1 / ratio
		}
	}
	return ratio * ratio
}

// ceilingPenalty is the squared deviation from the ceiling, in either direction.
func ceilingPenalty(value, ceiling float64) float64 {
	if ceiling <= 0 {
		return nonPositiveTargetPenalty
	}
	d := value - ceiling
	return d * d
}
