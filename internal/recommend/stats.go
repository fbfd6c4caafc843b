package recommend

import (
	"math"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"
)

// mean returns the arithmetic mean; ok is false for an empty population.
func mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	m, err := stats.Mean(xs)
	if err != nil {
		return 0, false
	}
	return m, true
}

// maxOf returns the largest value; ok is false for an empty population.
func maxOf(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	m, err := stats.Max(xs)
	if err != nil {
		return 0, false
	}
	return m, true
}

// lowMedian is the median for odd populations and the smaller middle value for even ones,
// so the result is always an observed value.
func lowMedian(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted[(len(sorted)-1)/2], true
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt draws an integer from [lo, hi] inclusive.
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

const (
	poundsToKilograms = 0.45359237
	inchesToCm        = 2.54
)

// ToKilograms normalizes a body weight to kilograms. Units other than "lb" are taken as kg.
func ToKilograms(weight float64, units string) float64 {
	if units == "lb" {
		return weight * poundsToKilograms
	}
	return weight
}

// ToCentimeters normalizes a height to centimetres. Units other than "in" are taken as cm.
func ToCentimeters(height float64, units string) float64 {
	if units == "in" {
		return height * inchesToCm
	}
	return height
}

var metresPerDistanceUnit = map[string]float64{
	"m":  1,
	"km": 1000,
	"mi": 1609.344,
}

// ConvertDistance converts d between "m", "km" and "mi". ok is false for unknown units.
// An empty from unit is taken to be the target unit.
func ConvertDistance(d float64, from, to string) (float64, bool) {
	if from == "" {
		from = to
	}
	f, okFrom := metresPerDistanceUnit[from]
	t, okTo := metresPerDistanceUnit[to]
	if !okFrom || !okTo {
		return 0, false
	}
	return d * f / t, true
}
