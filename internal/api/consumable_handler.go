package api

import (
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/recommend"
	"fitfocus/fitness-api/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ConsumableHandler serves the food catalog, the food log and meal recommendations.
type ConsumableHandler struct {
	consumableService     service.ConsumableService
	recommendationService service.RecommendationService
}

// NewConsumableHandler creates a new ConsumableHandler.
func NewConsumableHandler(consumableService service.ConsumableService, recommendationService service.RecommendationService) *ConsumableHandler {
	return &ConsumableHandler{
		consumableService:     consumableService,
		recommendationService: recommendationService,
	}
}

// --- Request/Response Structs ---

type UpsertConsumableRequest struct {
	Name           string      `json:"name" binding:"required"`
	SampleSize     float64     `json:"sample_size" binding:"gt=0"`
	SampleUnits    string      `json:"sample_units"`
	SampleCalories int         `json:"sample_calories" binding:"min=0"`
	SampleMacros   interface{} `json:"sample_macros"` // checked against the macro vocabulary by the service
}

type LogConsumableRequest struct {
	Consumable     string             `json:"consumable" binding:"required"`
	AmountLogged   float64            `json:"amount_logged" binding:"min=0"`
	DateLogged     string             `json:"date_logged"` // YYYY-MM-DD, default today
	CaloriesLogged int                `json:"calories_logged" binding:"min=0"`
	MacrosLogged   map[string]float64 `json:"macros_logged"`
	SampleUnits    string             `json:"sample_units"`
}

type ListLoggedConsumablesQuery struct {
	DateLogged string `form:"date_logged"`
}

type RecommendConsumablesRequest struct {
	ConsumablesToRecommend int    `json:"consumables_to_recommend" binding:"omitempty,min=1,max=50"`
	DateToSearch           string `json:"date_to_search"` // YYYY-MM-DD, default today
}

// --- Handler Methods ---

// UpsertConsumable godoc
// @Summary Create or replace a food catalog entry
// @Tags Consumables
// @Router /consumables [post]
func (h *ConsumableHandler) UpsertConsumable(c *gin.Context) {
	var req UpsertConsumableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	consumable, err := h.consumableService.UpsertConsumable(c.Request.Context(), domain.Consumable{
		Name:           req.Name,
		SampleSize:     req.SampleSize,
		SampleUnits:    req.SampleUnits,
		SampleCalories: req.SampleCalories,
		SampleMacros:   req.SampleMacros,
	})
	if err != nil {
		respondServiceError(c, err, "save the consumable")
		return
	}
	c.JSON(http.StatusOK, consumable)
}

// LogConsumable godoc
// @Summary Log something the user ate
// @Tags Consumables
// @Router /consumables/logs [post]
func (h *ConsumableHandler) LogConsumable(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req LogConsumableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	day, ok := parseOptionalDate(c, "date_logged", req.DateLogged)
	if !ok {
		return
	}

	logged, err := h.consumableService.LogConsumable(c.Request.Context(), userID, service.LogConsumableInput{
		ConsumableName: req.Consumable,
		AmountLogged:   req.AmountLogged,
		DateLogged:     day,
		CaloriesLogged: req.CaloriesLogged,
		MacrosLogged:   req.MacrosLogged,
		SampleUnits:    req.SampleUnits,
	})
	if err != nil {
		respondServiceError(c, err, "log the consumable")
		return
	}
	c.JSON(http.StatusCreated, logged)
}

// ListLoggedConsumables godoc
// @Summary List the user's food log for one day
// @Tags Consumables
// @Router /consumables/logs [get]
func (h *ConsumableHandler) ListLoggedConsumables(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var q ListLoggedConsumablesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	day, ok := parseOptionalDate(c, "date_logged", q.DateLogged)
	if !ok {
		return
	}
	if day.IsZero() {
		day = time.Now().UTC()
	}

	logs, err := h.consumableService.ListLoggedConsumables(c.Request.Context(), userID, day)
	if err != nil {
		respondServiceError(c, err, "list logged consumables")
		return
	}
	if logs == nil {
		logs = []domain.LoggedConsumable{}
	}
	c.JSON(http.StatusOK, logs)
}

// RecommendConsumables godoc
// @Summary Recommend foods for the user's next meal
// @Tags Recommendations
// @Router /consumables/recommendations [post]
func (h *ConsumableHandler) RecommendConsumables(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req RecommendConsumablesRequest
	// An empty body asks for the defaults.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}
	day, ok := parseOptionalDate(c, "date_to_search", req.DateToSearch)
	if !ok {
		return
	}

	records, err := h.recommendationService.RecommendConsumables(c.Request.Context(), userID, recommend.ConsumableRequest{
		Count:      req.ConsumablesToRecommend,
		SearchDate: day,
	})
	if err != nil {
		respondServiceError(c, err, "recommend consumables")
		return
	}
	if records == nil {
		records = []recommend.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// parseOptionalDate parses a YYYY-MM-DD value, returning the zero time for an empty one. It
// aborts the request on a malformed value.
func parseOptionalDate(c *gin.Context, field, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
