package api

import (
	"errors"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/recommend"
	"fitfocus/fitness-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorStatuses maps service errors to HTTP status codes. Order matters: the first match wins.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrValidationFailed, http.StatusBadRequest},
	{service.ErrInvalidMacros, http.StatusBadRequest},
	{service.ErrInvalidMood, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrInvalidUsername, http.StatusBadRequest},
	{service.ErrInvalidEmail, http.StatusBadRequest},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrRecommendationNotFound, http.StatusNotFound},
	{service.ErrProfileNotFound, http.StatusNotFound},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrExerciseExists, http.StatusConflict},
	{service.ErrAmbiguousConsumable, http.StatusConflict},
	{recommend.ErrInconsistentCatalog, http.StatusConflict},
}

// respondServiceError writes the status mapped from err. Unmapped errors are logged and reported
// as 500 without details.
func respondServiceError(c *gin.Context, err error, action string) {
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			abortWithError(c, m.status, err.Error())
			return
		}
	}
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("action", action).Msg("request failed")
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred while trying to "+action)
}
