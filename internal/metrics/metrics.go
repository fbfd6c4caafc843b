package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation metrics
	ExerciseRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfocus_exercise_recommendations_total",
			Help: "Exercise recommendation slots by outcome (accepted or dropped after the attempt ceiling)",
		},
		[]string{"outcome"},
	)

	ClassifierOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfocus_exercise_classifier_outcomes_total",
			Help: "Goodness classifier predictions by outcome",
		},
		[]string{"outcome"},
	)

	ConsumableRecommendations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitfocus_consumable_recommendations_total",
			Help: "Total number of consumables returned by the consumable recommender",
		},
	)

	ConsumablePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fitfocus_consumable_pool_size",
			Help:    "Size of the scored candidate pool per consumable recommendation",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Catalog metrics
	CatalogImports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfocus_catalog_imports_total",
			Help: "Catalog rows upserted by the importer",
		},
		[]string{"catalog"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitfocus_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitfocus_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordExerciseSlot counts one requested exercise slot.
func RecordExerciseSlot(accepted bool) {
	if accepted {
		ExerciseRecommendations.WithLabelValues("accepted").Inc()
		return
	}
	ExerciseRecommendations.WithLabelValues("dropped").Inc()
}

// RecordClassifierOutcome counts a classifier prediction ("good", "bad", "insufficient_data").
func RecordClassifierOutcome(outcome string) {
	ClassifierOutcomes.WithLabelValues(outcome).Inc()
}

// RecordConsumableRecommendation observes the pool size and the number of returned items.
func RecordConsumableRecommendation(poolSize, returned int) {
	ConsumablePoolSize.Observe(float64(poolSize))
	ConsumableRecommendations.Add(float64(returned))
}

// RecordCatalogImport counts upserted catalog rows.
func RecordCatalogImport(catalog string, rows int) {
	CatalogImports.WithLabelValues(catalog).Add(float64(rows))
}

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
