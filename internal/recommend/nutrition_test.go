package recommend

import (
	"fitfocus/fitness-api/internal/domain"
	"testing"
)

func maleProfile() *domain.UserProfile {
	w := 80.0
	return &domain.UserProfile{
		Age:         30,
		Sex:         domain.SexMale,
		Height:      180,
		HeightUnits: "cm",
		Weight:      &w,
		WeightUnits: "kg",
	}
}

func TestBaselineCalories(t *testing.T) {
	male := 88.362 + 13.397*80 + 4.799*180 - 5.677*30
	female := 447.593 + 9.247*80 + 3.098*180 - 4.330*30

	tests := []struct {
		name string
		sex  domain.Sex
		want int
	}{
		{"male", domain.SexMale, int(male)},
		{"female", domain.SexFemale, int(female)},
		{"other averages both", domain.SexOther, int((male + female) / 2)},
		{"unset averages both", domain.SexUnset, int((male + female) / 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := maleProfile()
			p.Sex = tt.sex
			if got := BaselineCalories(p); got != tt.want {
				t.Errorf("BaselineCalories = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBaselineCalories_Defaults(t *testing.T) {
	if got := BaselineCalories(nil); got != 2000 {
		t.Errorf("nil profile: got %d, want 2000", got)
	}
	p := maleProfile()
	p.Weight = nil
	if got := BaselineCalories(p); got != 2000 {
		t.Errorf("no weight: got %d, want 2000", got)
	}
}

func TestBaselineCalories_ImperialUnits(t *testing.T) {
	metric := BaselineCalories(maleProfile())

	p := maleProfile()
	lb := 80 / poundsToKilograms
	p.Weight = &lb
	p.WeightUnits = "lb"
	p.Height = 180 / inchesToCm
	p.HeightUnits = "in"

	if got := BaselineCalories(p); got != metric {
		t.Errorf("imperial profile: got %d, want %d", got, metric)
	}
}

// Harris-Benedict for 30y/M/180cm/80kg is 1853.6 kcal.
func TestDailyTargetEstimator_NoGoals(t *testing.T) {
	got := DailyTargetEstimator{}.Estimate(maleProfile(), ConsumedTotals{})

	if got.DailyCalories != 1853 {
		t.Errorf("DailyCalories = %d, want 1853", got.DailyCalories)
	}
	if got.Ratios != BaselineRatios {
		t.Errorf("Ratios = %+v, want %+v", got.Ratios, BaselineRatios)
	}
	want := MealTargets{Calories: 1853, CarbsG: 254, ProteinG: 115, FatG: 41}
	if rem := got.Remaining(); rem != want {
		t.Errorf("Remaining = %+v, want %+v", rem, want)
	}
}

func TestDailyTargetEstimator_ReducingBodyFat(t *testing.T) {
	p := maleProfile()
	p.BodyGoals = []string{domain.GoalReducingBodyFat}
	got := DailyTargetEstimator{}.Estimate(p, ConsumedTotals{})

	if !approxEqual(got.Ratios.Carbs, 0.45, 1e-9) {
		t.Errorf("carbs ratio = %v, want 0.45", got.Ratios.Carbs)
	}
	if !approxEqual(got.Ratios.Fat, 0.15, 1e-9) {
		t.Errorf("fat ratio = %v, want 0.15", got.Ratios.Fat)
	}
	if !approxEqual(got.Ratios.Protein, 0.25, 1e-9) {
		t.Errorf("protein ratio = %v, want 0.25", got.Ratios.Protein)
	}
}

func TestAdjustRatios(t *testing.T) {
	tests := []struct {
		name  string
		goals []string
		want  MacroRatios
	}{
		{"none", nil, BaselineRatios},
		{"unknown tag ignored", []string{"Flying"}, BaselineRatios},
		{"building muscle", []string{domain.GoalBuildingMuscleMass}, MacroRatios{0.55, 0.35, 0.20}},
		{"increasing body fat", []string{domain.GoalIncreasingBodyFat}, MacroRatios{0.65, 0.25, 0.25}},
		{
			"compounding goals clamp to floors",
			[]string{domain.GoalMuscleToning, domain.GoalBoostingMetabolism},
			MacroRatios{Carbs: 0.20, Protein: 0.45, Fat: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustRatios(tt.goals)
			if !approxEqual(got.Carbs, tt.want.Carbs, 1e-9) ||
				!approxEqual(got.Protein, tt.want.Protein, 1e-9) ||
				!approxEqual(got.Fat, tt.want.Fat, 1e-9) {
				t.Errorf("AdjustRatios(%v) = %+v, want %+v", tt.goals, got, tt.want)
			}
		})
	}
}

func TestDailyTargetEstimator_Deterministic(t *testing.T) {
	p := maleProfile()
	p.BodyGoals = []string{domain.GoalBuildingMuscleMass, domain.GoalReducingBodyFat}
	consumed := ConsumedTotals{Calories: 640, CarbsG: 70, ProteinG: 30, FatG: 12}

	est := DailyTargetEstimator{}
	first := est.Estimate(p, consumed)
	for i := 0; i < 10; i++ {
		if got := est.Estimate(p, consumed); got != first {
			t.Fatalf("run %d: %+v differs from %+v", i, got, first)
		}
	}
}

func TestDailyTargetEstimator_FloorsRemainingAtOne(t *testing.T) {
	consumed := ConsumedTotals{Calories: 5000, CarbsG: 900, ProteinG: 400, FatG: 300}
	got := DailyTargetEstimator{}.Estimate(maleProfile(), consumed)

	want := MealTargets{Calories: 1, CarbsG: 1, ProteinG: 1, FatG: 1}
	if rem := got.Remaining(); rem != want {
		t.Errorf("Remaining = %+v, want %+v", rem, want)
	}
}

func TestConsumedTotalsAdd(t *testing.T) {
	var totals ConsumedTotals
	totals.Add(domain.LoggedConsumable{
		CaloriesLogged: 300,
		MacrosLogged:   map[string]float64{domain.MacroCarbohydrates: 40, domain.MacroProtein: 10},
	})
	totals.Add(domain.LoggedConsumable{CaloriesLogged: 120})

	want := ConsumedTotals{Calories: 420, CarbsG: 40, ProteinG: 10, FatG: 0}
	if totals != want {
		t.Errorf("totals = %+v, want %+v", totals, want)
	}
}

func TestApplyMood(t *testing.T) {
	base := MealTargets{Calories: 600, CarbsG: 100, ProteinG: 100, FatG: 30}

	tests := []struct {
		level int
		want  MealTargets
	}{
		{0, base},
		{2, MealTargets{Calories: 600, CarbsG: 76, ProteinG: 130, FatG: 23}},
		{-2, MealTargets{Calories: 600, CarbsG: 142, ProteinG: 70, FatG: 42}},
		{7, base},
	}
	for _, tt := range tests {
		if got := ApplyMood(base, tt.level); got != tt.want {
			t.Errorf("ApplyMood(level %d) = %+v, want %+v", tt.level, got, tt.want)
		}
	}
}

func TestMoodMultiplier(t *testing.T) {
	want := map[int]float64{-2: 0.7, -1: 0.9, 0: 1.0, 1: 1.1, 2: 1.3, 3: 1.0}
	for level, m := range want {
		if got := MoodMultiplier(level); got != m {
			t.Errorf("MoodMultiplier(%d) = %v, want %v", level, got, m)
		}
	}
}

func TestEstimateMealCount(t *testing.T) {
	tests := []struct {
		calories int
		want     int
	}{
		{1, 1},
		{600, 1},
		{601, 2},
		{1200, 2},
		{1201, 3},
		{5000, 3},
	}
	for _, tt := range tests {
		if got := EstimateMealCount(tt.calories); got != tt.want {
			t.Errorf("EstimateMealCount(%d) = %d, want %d", tt.calories, got, tt.want)
		}
	}
}

func TestPerMeal(t *testing.T) {
	got := PerMeal(MealTargets{Calories: 1500, CarbsG: 200, ProteinG: 100, FatG: 50}, 3)
	want := MealTargets{Calories: 500, CarbsG: 66, ProteinG: 33, FatG: 16}
	if got != want {
		t.Errorf("PerMeal = %+v, want %+v", got, want)
	}
}
