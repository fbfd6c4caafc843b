package api

import (
	"fitfocus/fitness-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth           service.AuthService
	Exercise       service.ExerciseService
	Consumable     service.ConsumableService
	Profile        service.ProfileService
	Recommendation service.RecommendationService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercise, svc.Recommendation)
	consumableHandler := NewConsumableHandler(svc.Consumable, svc.Recommendation)
	profileHandler := NewProfileHandler(svc.Profile)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := mustUserID(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.POST("/logs", exerciseHandler.LogExercise)
			exerciseGroup.GET("/logs", exerciseHandler.ListLoggedExercises)
			exerciseGroup.GET("/recommendations", exerciseHandler.RecommendExercises)
			exerciseGroup.PATCH("/recommendations/:id", exerciseHandler.SetRecommendationFeedback)
		}

		// --- Consumable Routes ---
		consumableGroup := protected.Group("/consumables")
		{
			consumableGroup.POST("", consumableHandler.UpsertConsumable)
			consumableGroup.POST("/logs", consumableHandler.LogConsumable)
			consumableGroup.GET("/logs", consumableHandler.ListLoggedConsumables)
			consumableGroup.POST("/recommendations", consumableHandler.RecommendConsumables)
		}

		// --- Profile Routes ---
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpsertProfile)
		protected.POST("/mood", profileHandler.RecordMood)
		protected.GET("/mood", profileHandler.LatestMood)
	}
}
