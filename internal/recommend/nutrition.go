package recommend

import (
	"fitfocus/fitness-api/internal/domain"
)

const (
	defaultDailyCalories = 2000

	kcalPerGramCarbs   = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9

	maxMealCalories = 600
	maxMealsPerDay  = 3
)

// MacroRatios are the shares of daily calories assigned to each macro-nutrient.
type MacroRatios struct {
	Carbs   float64
	Protein float64
	Fat     float64
}

// BaselineRatios apply when the user has no body goals.
var BaselineRatios = MacroRatios{Carbs: 0.55, Protein: 0.25, Fat: 0.20}

// ratioFloors are applied after all goal deltas.
var ratioFloors = MacroRatios{Carbs: 0.20, Protein: 0.10, Fat: 0}

var goalDeltas = map[string]MacroRatios{
	domain.GoalReducingBodyFat:    {Carbs: -0.10, Fat: -0.05},
	domain.GoalIncreasingBodyFat:  {Carbs: 0.10, Fat: 0.05},
	domain.GoalBuildingMuscleMass: {Protein: 0.10},
	domain.GoalBodyMaintenance:    {Protein: 0.10},
	domain.GoalMuscleToning:       {Carbs: -0.20, Protein: 0.10, Fat: -0.10},
	domain.GoalBoostingMetabolism: {Carbs: -0.20, Protein: 0.10, Fat: -0.10},
}

// AdjustRatios adds the delta of every known goal to BaselineRatios, then clamps to the floors.
// Unknown goal tags are ignored.
func AdjustRatios(goals []string) MacroRatios {
	r := BaselineRatios
	for _, g := range goals {
		d, ok := goalDeltas[g]
		if !ok {
			continue
		}
		r.Carbs += d.Carbs
		r.Protein += d.Protein
		r.Fat += d.Fat
	}
	r.Carbs = maxFloat(r.Carbs, ratioFloors.Carbs)
	r.Protein = maxFloat(r.Protein, ratioFloors.Protein)
	r.Fat = maxFloat(r.Fat, ratioFloors.Fat)
	return r
}

// BaselineCalories estimates daily calories with the Harris-Benedict equation. Sexes other than
// M and F use the mean of both equations. Without a profile or a weight it returns 2000.
func BaselineCalories(p *domain.UserProfile) int {
	if p == nil || p.Weight == nil {
		return defaultDailyCalories
	}
	w := ToKilograms(*p.Weight, p.WeightUnits)
	h := ToCentimeters(p.Height, p.HeightUnits)
	a := float64(p.Age)

	male := 88.362 + 13.397*w + 4.799*h - 5.677*a
	female := 447.593 + 9.247*w + 3.098*h - 4.330*a

	switch p.Sex {
	case domain.SexMale:
		return int(male)
	case domain.SexFemale:
		return int(female)
	default:
		return int((male + female) / 2)
	}
}

// ConsumedTotals is what the user already logged for the day.
type ConsumedTotals struct {
	Calories float64
	CarbsG   float64
	ProteinG float64
	FatG     float64
}

// Add accumulates one logged consumable.
func (t *ConsumedTotals) Add(l domain.LoggedConsumable) {
	t.Calories += float64(l.CaloriesLogged)
	t.CarbsG += l.MacrosLogged[domain.MacroCarbohydrates]
	t.ProteinG += l.MacrosLogged[domain.MacroProtein]
	t.FatG += l.MacrosLogged[domain.MacroFat]
}

// DailyTargets is the daily estimate and what remains of it.
type DailyTargets struct {
	DailyCalories int
	Ratios        MacroRatios

	// Remaining budgets, each at least 1.
	MaxCalories int
	MaxCarbsG   int
	MinProteinG int
	MaxFatG     int
}

// DailyTargetEstimator turns a profile and the day's intake into remaining budgets.
type DailyTargetEstimator struct{}

// Estimate is pure: equal inputs always give equal targets.
func (DailyTargetEstimator) Estimate(p *domain.UserProfile, consumed ConsumedTotals) DailyTargets {
	cal := BaselineCalories(p)
	var goals []string
	if p != nil {
		goals = p.BodyGoals
	}
	ratios := AdjustRatios(goals)
	total := float64(cal)

	return DailyTargets{
		DailyCalories: cal,
		Ratios:        ratios,
		MaxCalories:   atLeastOne(int(total - consumed.Calories)),
		MaxCarbsG:     atLeastOne(int(total*ratios.Carbs/kcalPerGramCarbs - consumed.CarbsG)),
		MinProteinG:   atLeastOne(int(total*ratios.Protein/kcalPerGramProtein - consumed.ProteinG)),
		MaxFatG:       atLeastOne(int(total*ratios.Fat/kcalPerGramFat - consumed.FatG)),
	}
}

// MealTargets are the budgets a single recommended consumable is scored against.
type MealTargets struct {
	Calories int
	CarbsG   int
	ProteinG int
	FatG     int
}

// Remaining extracts the remaining daily budgets.
func (t DailyTargets) Remaining() MealTargets {
	return MealTargets{
		Calories: t.MaxCalories,
		CarbsG:   t.MaxCarbsG,
		ProteinG: t.MinProteinG,
		FatG:     t.MaxFatG,
	}
}

var moodMultipliers = map[int]float64{-2: 0.7, -1: 0.9, 0: 1.0, 1: 1.1, 2: 1.3}

// MoodMultiplier maps a mood level to its multiplier; out-of-range levels are neutral.
func MoodMultiplier(level int) float64 {
	if m, ok := moodMultipliers[level]; ok {
		return m
	}
	return 1.0
}

// ApplyMood divides the carb and fat ceilings by the mood multiplier and multiplies the protein
// floor by it. Calories are left alone.
func ApplyMood(t MealTargets, level int) MealTargets {
	m := MoodMultiplier(level)
	t.CarbsG = int(float64(t.CarbsG) / m)
	t.FatG = int(float64(t.FatG) / m)
	t.ProteinG = int(float64(t.ProteinG) * m)
	return t
}

// EstimateMealCount is the number of meals (1 to 3) left for the remaining calories, assuming a
// meal is at most 600 kcal. A small budget is a single meal however small it is.
func EstimateMealCount(calories int) int {
	meals := 1
	for float64(calories)/float64(meals) > maxMealCalories && meals < maxMealsPerDay {
		meals++
	}
	return meals
}

// PerMeal splits every budget evenly across meals.
func PerMeal(t MealTargets, meals int) MealTargets {
	if meals < 1 {
		meals = 1
	}
	return MealTargets{
		Calories: t.Calories / meals,
		CarbsG:   t.CarbsG / meals,
		ProteinG: t.ProteinG / meals,
		FatG:     t.FatG / meals,
	}
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
