package recommend

import (
	"errors"
	"math"
	"sort"
)

// ClassifierOutcome is the verdict of a GoodnessClassifier for one candidate.
type ClassifierOutcome int

const (
	// InsufficientData means there was too little history to judge. Callers treat it as Good.
	InsufficientData ClassifierOutcome = iota
	Good
	Bad
)

func (o ClassifierOutcome) String() string {
	switch o {
	case Good:
		return "good"
	case Bad:
		return "bad"
	default:
		return "insufficient_data"
	}
}

// FeatureRow is the fixed-shape feature vector of one exercise record. Attributes that were not
// recorded are 0.
type FeatureRow struct {
	Sets            float64
	Reps            float64
	Distance        float64
	DurationMinutes float64
	Good            bool
}

func (r FeatureRow) vector() [4]float64 {
	return [4]float64{r.Sets, r.Reps, r.Distance, r.DurationMinutes}
}

// GoodnessClassifier predicts whether a candidate is a good recommendation from labelled history.
type GoodnessClassifier interface {
	Fit(rows []FeatureRow) error
	// Predict ignores row.Good.
	Predict(row FeatureRow) (ClassifierOutcome, error)
}

// ClassifierFactory builds a fresh classifier for one classification round.
type ClassifierFactory func(neighborCount int) GoodnessClassifier

var errNotFitted = errors.New("classifier: predict called before fit")

// KNNClassifier is a k-nearest-neighbour majority vote over euclidean distance.
// With n training rows it uses k = min(K, n); one row or fewer yields InsufficientData.
type KNNClassifier struct {
	K int

	rows   []FeatureRow
	fitted bool
}

// NewKNNClassifier is a ClassifierFactory.
func NewKNNClassifier(neighborCount int) GoodnessClassifier {
	return &KNNClassifier{K: neighborCount}
}

// Fit stores the training rows.
func (c *KNNClassifier) Fit(rows []FeatureRow) error {
	c.rows = append(c.rows[:0], rows...)
	c.fitted = true
	return nil
}

// Predict labels row by majority vote of its k nearest training rows. A tied vote goes to the
// label of the single nearest row.
func (c *KNNClassifier) Predict(row FeatureRow) (ClassifierOutcome, error) {
	if !c.fitted {
		return InsufficientData, errNotFitted
	}
	n := len(c.rows)
	if n <= 1 {
		return InsufficientData, nil
	}
	k := c.K
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	type neighbour struct {
		dist float64
		good bool
	}
	q := row.vector()
	neighbours := make([]neighbour, n)
	for i, r := range c.rows {
		v := r.vector()
		var sum float64
		for j := range v {
			d := v[j] - q[j]
			sum += d * d
		}
		neighbours[i] = neighbour{dist: math.Sqrt(sum), good: r.Good}
	}
	sort.SliceStable(neighbours, func(i, j int) bool { return neighbours[i].dist < neighbours[j].dist })

	good := 0
	for _, nb := range neighbours[:k] {
		if nb.good {
			good++
		}
	}
	bad := k - good
	switch {
	case good > bad:
		return Good, nil
	case bad > good:
		return Bad, nil
	case neighbours[0].good:
		return Good, nil
	default:
		return Bad, nil
	}
}
