package api

import (
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/recommend"
	"fitfocus/fitness-api/internal/repository"
	"fitfocus/fitness-api/internal/service"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// ExerciseHandler serves the exercise catalog, the exercise log and exercise recommendations.
type ExerciseHandler struct {
	exerciseService       service.ExerciseService
	recommendationService service.RecommendationService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, recommendationService service.RecommendationService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService:       exerciseService,
		recommendationService: recommendationService,
	}
}

// --- Request/Response Structs ---

type CreateExerciseRequest struct {
	Name             string `json:"name" binding:"required"`
	Category         string `json:"category" binding:"required,oneof=Muscle Cardio Flexibility"`
	BodyArea         string `json:"body_area" binding:"required"`
	EquipmentNeeded  bool   `json:"equipment_needed"`
	TargetMuscle     string `json:"target_muscle"`
	SecondaryMuscle1 string `json:"secondary_muscle_1"`
	SecondaryMuscle2 string `json:"secondary_muscle_2"`
}

type ListExercisesQuery struct {
	Name            string `form:"name"`
	Category        string `form:"category"`
	BodyArea        string `form:"body_area"`
	Equipment       *bool  `form:"equipment"`
	TargetMuscle    string `form:"target_muscle"`
	SecondaryMuscle string `form:"secondary_muscle"`
	Limit           int    `form:"limit" binding:"omitempty,min=1"`
	Offset          int    `form:"offset" binding:"omitempty,min=0"`
}

type LogExerciseRequest struct {
	Exercise             string    `json:"exercise" binding:"required"`
	DateLogged           string    `json:"date_logged"` // YYYY-MM-DD, default today
	Sets                 *int      `json:"sets"`
	Reps                 *int      `json:"reps"`
	Distance             *float64  `json:"distance"`
	DistanceUnits        string    `json:"distance_units"`
	Duration             string    `json:"duration"` // H:MM:SS
	EquipmentWeight      []float64 `json:"equipment_weight"`
	EquipmentWeightUnits string    `json:"equipment_weight_units"`
}

type LoggedExerciseResponse struct {
	ID                   string    `json:"id"`
	ExerciseID           string    `json:"exercise_id"`
	DateLogged           string    `json:"date_logged"`
	Sets                 *int      `json:"sets,omitempty"`
	Reps                 *int      `json:"reps,omitempty"`
	Distance             *float64  `json:"distance,omitempty"`
	DistanceUnits        string    `json:"distance_units,omitempty"`
	Duration             string    `json:"duration,omitempty"`
	EquipmentWeight      []float64 `json:"equipment_weight,omitempty"`
	EquipmentWeightUnits string    `json:"equipment_weight_units,omitempty"`
}

type ListLoggedExercisesQuery struct {
	From       string `form:"from"`
	To         string `form:"to"`
	ExerciseID string `form:"exercise_id"`
}

type RecommendExercisesQuery struct {
	Count                int    `form:"count" binding:"omitempty,min=1,max=50"`
	TrulyRandom          bool   `form:"truly_random"`
	NeighborCount        int    `form:"k_neighbours" binding:"omitempty,min=1"`
	BadLimit             int    `form:"bad_limit" binding:"omitempty,min=1"`
	DistanceUnits        string `form:"distance_units" binding:"omitempty,oneof=m km mi"`
	EquipmentWeightUnits string `form:"equipment_weight_units" binding:"omitempty,oneof=kg lb"`
}

type FeedbackRequest struct {
	GoodRecommendation *bool `json:"good_recommendation" binding:"required"`
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Add an exercise to the catalog
// @Tags Exercises
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), domain.Exercise{
		Name:             req.Name,
		Category:         domain.ExerciseCategory(req.Category),
		BodyArea:         req.BodyArea,
		EquipmentNeeded:  req.EquipmentNeeded,
		TargetMuscle:     req.TargetMuscle,
		SecondaryMuscle1: req.SecondaryMuscle1,
		SecondaryMuscle2: req.SecondaryMuscle2,
	})
	if err != nil {
		respondServiceError(c, err, "create the exercise")
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises godoc
// @Summary List catalog exercises with filters and pagination
// @Tags Exercises
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var q ListExercisesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), repository.ExerciseFilter{
		NameContains:    q.Name,
		Category:        domain.ExerciseCategory(q.Category),
		BodyArea:        q.BodyArea,
		EquipmentNeeded: q.Equipment,
		TargetMuscle:    q.TargetMuscle,
		SecondaryMuscle: q.SecondaryMuscle,
		Limit:           q.Limit,
		Offset:          q.Offset,
	})
	if err != nil {
		respondServiceError(c, err, "list exercises")
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// LogExercise godoc
// @Summary Log an exercise the user did
// @Tags Exercises
// @Router /exercises/logs [post]
func (h *ExerciseHandler) LogExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	in := service.LogExerciseInput{
		ExerciseName: req.Exercise,
		ExerciseAttributes: domain.ExerciseAttributes{
			Sets:                 req.Sets,
			Reps:                 req.Reps,
			Distance:             req.Distance,
			DistanceUnits:        req.DistanceUnits,
			EquipmentWeight:      req.EquipmentWeight,
			EquipmentWeightUnits: req.EquipmentWeightUnits,
		},
	}
	if req.DateLogged != "" {
		day, err := time.Parse(dateLayout, req.DateLogged)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "date_logged must be YYYY-MM-DD")
			return
		}
		in.DateLogged = day
	}
	if req.Duration != "" {
		d, err := parseClockDuration(req.Duration)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		in.Duration = &d
	}

	logged, err := h.exerciseService.LogExercise(c.Request.Context(), userID, in)
	if err != nil {
		respondServiceError(c, err, "log the exercise")
		return
	}
	c.JSON(http.StatusCreated, mapLoggedExercise(*logged))
}

// ListLoggedExercises godoc
// @Summary List the user's exercise log
// @Tags Exercises
// @Router /exercises/logs [get]
func (h *ExerciseHandler) ListLoggedExercises(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var q ListLoggedExercisesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var filter repository.LoggedExerciseFilter
	for _, p := range []struct {
		raw string
		dst **time.Time
		end bool
	}{{q.From, &filter.From, false}, {q.To, &filter.To, true}} {
		if p.raw == "" {
			continue
		}
		day, err := time.Parse(dateLayout, p.raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "from and to must be YYYY-MM-DD")
			return
		}
		if p.end {
			day = day.AddDate(0, 0, 1) // inclusive end day
		}
		*p.dst = &day
	}
	if q.ExerciseID != "" {
		id, err := primitive.ObjectIDFromHex(q.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise_id")
			return
		}
		filter.ExerciseID = &id
	}

	logs, err := h.exerciseService.ListLoggedExercises(c.Request.Context(), userID, filter)
	if err != nil {
		respondServiceError(c, err, "list logged exercises")
		return
	}
	resp := make([]LoggedExerciseResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, mapLoggedExercise(l))
	}
	c.JSON(http.StatusOK, resp)
}

// RecommendExercises godoc
// @Summary Generate exercise recommendations for the user
// @Tags Recommendations
// @Router /exercises/recommendations [get]
func (h *ExerciseHandler) RecommendExercises(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var q RecommendExercisesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	records, err := h.recommendationService.RecommendExercises(c.Request.Context(), userID, recommend.ExerciseRequest{
		Count:                  q.Count,
		TrulyRandom:            q.TrulyRandom,
		BadRecommendationLimit: q.BadLimit,
		NeighborCount:          q.NeighborCount,
		DistanceUnit:           q.DistanceUnits,
		WeightUnit:             q.EquipmentWeightUnits,
	})
	if err != nil {
		respondServiceError(c, err, "recommend exercises")
		return
	}
	c.JSON(http.StatusOK, records)
}

// SetRecommendationFeedback godoc
// @Summary Mark a recommended exercise as good or bad
// @Tags Recommendations
// @Router /exercises/recommendations/{id} [patch]
func (h *ExerciseHandler) SetRecommendationFeedback(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	recID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recommendation ID format")
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.exerciseService.SetRecommendationFeedback(c.Request.Context(), userID, recID, *req.GoodRecommendation); err != nil {
		respondServiceError(c, err, "update the recommendation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": recID.Hex(), "good_recommendation": *req.GoodRecommendation})
}

func mapLoggedExercise(l domain.LoggedExercise) LoggedExerciseResponse {
	resp := LoggedExerciseResponse{
		ID:                   l.ID.Hex(),
		ExerciseID:           l.ExerciseID.Hex(),
		DateLogged:           l.DateLogged.Format(dateLayout),
		Sets:                 l.Sets,
		Reps:                 l.Reps,
		Distance:             l.Distance,
		DistanceUnits:        l.DistanceUnits,
		EquipmentWeight:      l.EquipmentWeight,
		EquipmentWeightUnits: l.EquipmentWeightUnits,
	}
	if l.Duration != nil {
		resp.Duration = formatClockDuration(*l.Duration)
	}
	return resp
}

// parseClockDuration parses "H:MM:SS" or "MM:SS".
func parseClockDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("duration must be H:MM:SS, got %q", s)
	}
	var total time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("duration must be H:MM:SS, got %q", s)
		}
		total = total*60 + time.Duration(n)
	}
	return total * time.Second, nil
}

func formatClockDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
