package api

import (
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const moodTimestampLayout = "2006-01-02 15:04:05"

// ProfileHandler serves the user's physical profile and mood samples.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- Request/Response Structs ---

type UpsertProfileRequest struct {
	Age          int      `json:"user_age" binding:"required,min=1"`
	Sex          string   `json:"user_sex" binding:"omitempty,oneof=M F X"`
	Height       float64  `json:"user_height" binding:"required,gt=0"`
	HeightUnits  string   `json:"user_height_units" binding:"required,oneof=cm in"`
	Weight       *float64 `json:"user_weight"`
	WeightUnits  string   `json:"user_weight_units" binding:"omitempty,oneof=kg lb"`
	TargetWeight *float64 `json:"user_target_weight"`
	BodyGoals    []string `json:"user_body_goals"`
}

type RecordMoodRequest struct {
	MoodLevel        *int   `json:"mood_level" binding:"required"`
	DatetimeRecorded string `json:"datetime_recorded"` // "YYYY-MM-DD HH:MM:SS", default now
}

type MoodResponse struct {
	MoodLevel        int    `json:"mood_level"`
	DatetimeRecorded string `json:"datetime_recorded"`
}

// --- Handler Methods ---

// UpsertProfile godoc
// @Summary Create or replace the user's profile
// @Tags Profile
// @Router /profile [put]
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.profileService.UpsertProfile(c.Request.Context(), domain.UserProfile{
		UserID:       userID,
		Age:          req.Age,
		Sex:          domain.Sex(req.Sex),
		Height:       req.Height,
		HeightUnits:  req.HeightUnits,
		Weight:       req.Weight,
		WeightUnits:  req.WeightUnits,
		TargetWeight: req.TargetWeight,
		BodyGoals:    req.BodyGoals,
	})
	if err != nil {
		respondServiceError(c, err, "save the profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get the user's profile
// @Tags Profile
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "get the profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// RecordMood godoc
// @Summary Record the user's current mood
// @Tags Profile
// @Router /mood [post]
func (h *ProfileHandler) RecordMood(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req RecordMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	var recordedAt time.Time
	if req.DatetimeRecorded != "" {
		t, err := time.Parse(moodTimestampLayout, req.DatetimeRecorded)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "datetime_recorded must be YYYY-MM-DD HH:MM:SS")
			return
		}
		recordedAt = t
	}

	mood, err := h.profileService.RecordMood(c.Request.Context(), userID, *req.MoodLevel, recordedAt)
	if err != nil {
		respondServiceError(c, err, "record the mood")
		return
	}
	c.JSON(http.StatusCreated, mapMood(mood))
}

// LatestMood godoc
// @Summary Get the user's most recent mood, neutral when none is recorded
// @Tags Profile
// @Router /mood [get]
func (h *ProfileHandler) LatestMood(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	mood, err := h.profileService.LatestMood(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "get the mood")
		return
	}
	c.JSON(http.StatusOK, mapMood(mood))
}

func mapMood(m *domain.MoodSample) MoodResponse {
	return MoodResponse{
		MoodLevel:        m.MoodLevel,
		DatetimeRecorded: m.RecordedAt.Format(moodTimestampLayout),
	}
}
