// Command catalog imports the exercise and food datasets into the database and uploads dataset
// files to dataset storage.
package main

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/catalog"
	"fitfocus/fitness-api/internal/config"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/repository/mongo"
	"fitfocus/fitness-api/internal/storage"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "catalog manages the FitFocus exercise and food datasets",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a dataset from dataset storage into the database",
}

var importExercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Upsert every valid exercise row by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withImporter(cmd.Context(), func(ctx context.Context, imp *catalog.Importer) error {
			res, err := imp.ImportExercises(ctx)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

var importFoodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "Upsert every food row by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withImporter(cmd.Context(), func(ctx context.Context, imp *catalog.Importer) error {
			res, err := imp.ImportConsumables(ctx)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file> <key>",
	Short: "Upload a local dataset file to dataset storage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := datasetStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(args[0]))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := store.PutObject(cmd.Context(), args[1], f, contentType); err != nil {
			return fmt.Errorf("upload %s: %w", args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding config.yaml")
	importCmd.AddCommand(importExercisesCmd, importFoodsCmd)
	rootCmd.AddCommand(importCmd, uploadCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})
	return cfg, nil
}

func datasetStorage(ctx context.Context, cfg config.Config) (storage.DatasetStorage, error) {
	switch cfg.Dataset.Source {
	case config.DatasetSourceS3:
		return storage.NewS3Storage(ctx, cfg.S3)
	case config.DatasetSourceFile, "":
		return storage.NewLocalStorage(cfg.Dataset.Dir), nil
	default:
		return nil, errors.New("unknown dataset source " + cfg.Dataset.Source)
	}
}

// withImporter connects to the database, runs fn and disconnects.
func withImporter(ctx context.Context, fn func(context.Context, *catalog.Importer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := datasetStorage(ctx, cfg)
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := mongo.ConnectDB(connectCtx, cfg.Database.URI)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.DisconnectDB(client); err != nil {
			logging.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	db := client.Database(cfg.Database.Name)
	mongo.EnsureIndexes(ctx, db)

	imp := catalog.NewImporter(store,
		mongo.NewMongoExerciseRepository(db), mongo.NewMongoConsumableRepository(db),
		cfg.Dataset.FoodKey, cfg.Dataset.ExerciseKey)
	return fn(ctx, imp)
}

func printResult(cmd *cobra.Command, res catalog.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s (%d skipped), run %s\n", res.Imported, res.Catalog, res.Skipped, res.RunID)
}
