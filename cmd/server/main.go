package main

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/api"
	"fitfocus/fitness-api/internal/catalog"
	"fitfocus/fitness-api/internal/config"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/recommend"
	"fitfocus/fitness-api/internal/repository/cached"
	"fitfocus/fitness-api/internal/repository/mongo"
	"fitfocus/fitness-api/internal/service"
	"fitfocus/fitness-api/internal/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title FitFocus API
// @version 1.0
// @description Exercise and meal recommendations driven by the user's own history.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logging.WithComponent("server")
	log.Info().Str("address", cfg.Server.Address).Str("dataset_source", cfg.Dataset.Source).Msg("configuration loaded")

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		log.Info().Msg("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Info().Msg("index creation completed")
	}()

	// --- Dataset Storage ---
	datasets, err := newDatasetStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dataset storage")
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := cached.NewExerciseCatalog(mongo.NewMongoExerciseRepository(appDB), cfg.Cache.CatalogTTL)
	loggedExerciseRepo := mongo.NewMongoLoggedExerciseRepository(appDB)
	recommendedRepo := mongo.NewMongoRecommendedExerciseRepository(appDB)
	consumableRepo := mongo.NewMongoConsumableRepository(appDB)
	loggedConsumableRepo := mongo.NewMongoLoggedConsumableRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	moodRepo := mongo.NewMongoMoodRepository(appDB)

	// --- Catalog ---
	importer := catalog.NewImporter(datasets, exerciseRepo, consumableRepo,
		cfg.Dataset.FoodKey, cfg.Dataset.ExerciseKey,
		catalog.WithFillMinSize(cfg.Recommend.CatalogMinSize))
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := importer.SeedExercises(seedCtx); err != nil {
		// The API still works with an empty catalog; recommendations just return nothing.
		log.Warn().Err(err).Msg("exercise catalog seeding failed")
	}
	seedCancel()

	// --- Recommenders ---
	rng := recommend.NewRand(cfg.Recommend.Seed)
	exerciseRec := recommend.NewExerciseRecommender(
		service.NewExerciseStore(exerciseRepo, loggedExerciseRepo, recommendedRepo),
		recommend.NewKNNClassifier, rng,
		recommend.WithMaxAttempts(cfg.Recommend.MaxAttempts),
		recommend.WithMaxSelectionDraws(cfg.Recommend.MaxSelectionDraws),
	)
	foodRec := recommend.NewConsumableRecommender(
		service.NewConsumableStore(profileRepo, moodRepo, loggedConsumableRepo, consumableRepo),
		importer, rng,
		recommend.WithCatalogMinSize(cfg.Recommend.CatalogMinSize),
		recommend.WithLookback(cfg.Recommend.Lookback),
	)

	// --- Services ---
	services := api.Services{
		Auth:           service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Exercise:       service.NewExerciseService(exerciseRepo, loggedExerciseRepo, recommendedRepo),
		Consumable:     service.NewConsumableService(consumableRepo, loggedConsumableRepo, domain.DefaultMacroVocabulary()),
		Profile:        service.NewProfileService(profileRepo, moodRepo),
		Recommendation: service.NewRecommendationService(userRepo, exerciseRepo, exerciseRec, foodRec),
	}

	// --- Gin Engine ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestIDMiddleware(), api.LoggerMiddleware(), api.MetricsMiddleware())
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exiting")
}

func newDatasetStorage(cfg config.Config) (storage.DatasetStorage, error) {
	switch cfg.Dataset.Source {
	case config.DatasetSourceS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3Storage(ctx, cfg.S3)
	case config.DatasetSourceFile, "":
		return storage.NewLocalStorage(cfg.Dataset.Dir), nil
	default:
		return nil, errors.New("unknown dataset source " + cfg.Dataset.Source)
	}
}
