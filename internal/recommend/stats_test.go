package recommend

import (
	"math"
	"math/rand"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMeanAndMax(t *testing.T) {
	if _, ok := mean(nil); ok {
		t.Error("mean of empty population should not be ok")
	}
	if _, ok := maxOf([]float64{}); ok {
		t.Error("max of empty population should not be ok")
	}

	m, ok := mean([]float64{2, 4, 9})
	if !ok || m != 5 {
		t.Errorf("mean = %v, %v; want 5, true", m, ok)
	}
	mx, ok := maxOf([]float64{2, 14, 9})
	if !ok || mx != 14 {
		t.Errorf("max = %v, %v; want 14, true", mx, ok)
	}
}

func TestLowMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"single", []float64{7}, 7},
		{"odd", []float64{9, 1, 5}, 5},
		{"even takes lower middle", []float64{40, 10, 30, 20}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lowMedian(tt.in)
			if !ok || got != tt.want {
				t.Errorf("lowMedian(%v) = %v, %v; want %v", tt.in, got, ok, tt.want)
			}
		})
	}

	in := []float64{3, 1, 2}
	lowMedian(in)
	if in[0] != 3 {
		t.Error("lowMedian must not reorder its input")
	}
}

func TestLinspace(t *testing.T) {
	got := linspace(10, 20, 3)
	want := []float64{10, 15, 20}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if one := linspace(5, 9, 1); len(one) != 1 || one[0] != 5 {
		t.Errorf("linspace n=1 = %v, want [5]", one)
	}
	if none := linspace(5, 9, 0); none != nil {
		t.Errorf("linspace n=0 = %v, want nil", none)
	}
}

func TestUniformAndRandInt(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		u := uniform(rng, 0.8, 1.2)
		if u < 0.8 || u >= 1.2 {
			t.Fatalf("uniform out of range: %v", u)
		}
		n := randInt(rng, 1, 5)
		if n < 1 || n > 5 {
			t.Fatalf("randInt out of range: %d", n)
		}
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(3.14159, 2); got != 3.14 {
		t.Errorf("roundTo(3.14159, 2) = %v", got)
	}
	if got := roundTo(2.25, 1); got != 2.3 {
		t.Errorf("roundTo(2.25, 1) = %v", got)
	}
}

func TestUnitConversions(t *testing.T) {
	if got := ToKilograms(100, "lb"); !approxEqual(got, 45.359237, 1e-9) {
		t.Errorf("ToKilograms(100 lb) = %v", got)
	}
	if got := ToKilograms(80, "kg"); got != 80 {
		t.Errorf("ToKilograms(80 kg) = %v", got)
	}
	if got := ToCentimeters(70, "in"); !approxEqual(got, 177.8, 1e-9) {
		t.Errorf("ToCentimeters(70 in) = %v", got)
	}
	if got := ToCentimeters(180, "cm"); got != 180 {
		t.Errorf("ToCentimeters(180 cm) = %v", got)
	}
}

func TestConvertDistance(t *testing.T) {
	tests := []struct {
		d        float64
		from, to string
		want     float64
		ok       bool
	}{
		{1, "mi", "km", 1.609344, true},
		{1500, "m", "km", 1.5, true},
		{2, "km", "m", 2000, true},
		{3, "", "mi", 3, true},
		{3, "furlong", "km", 0, false},
	}
	for _, tt := range tests {
		got, ok := ConvertDistance(tt.d, tt.from, tt.to)
		if ok != tt.ok || !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("ConvertDistance(%v, %q, %q) = %v, %v; want %v, %v", tt.d, tt.from, tt.to, got, ok, tt.want, tt.ok)
		}
	}
}
