package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// DatasetConfig locates the catalog seed files.
type DatasetConfig struct {
	Source      string `mapstructure:"source"` // s3 or file
	Dir         string `mapstructure:"dir"`
	FoodKey     string `mapstructure:"food_key"`
	ExerciseKey string `mapstructure:"exercise_key"`
}

// RecommendConfig tunes the recommenders. Seed 0 seeds from the clock.
type RecommendConfig struct {
	Seed              int64         `mapstructure:"seed"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	MaxSelectionDraws int           `mapstructure:"max_selection_draws"`
	CatalogMinSize    int           `mapstructure:"catalog_min_size"`
	Lookback          time.Duration `mapstructure:"lookback"`
}

type CacheConfig struct {
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

const (
	DatasetSourceS3   = "s3"
	DatasetSourceFile = "file"
)

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// No file; defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("60m", "336h") decode straight into time.Duration fields.
	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitfocus")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "fitfocus-datasets")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("dataset.source", DatasetSourceFile)
	v.SetDefault("dataset.dir", "./data")
	v.SetDefault("dataset.food_key", "food.json")
	v.SetDefault("dataset.exercise_key", "exercises.csv")
	v.SetDefault("recommend.seed", 0)
	v.SetDefault("recommend.max_attempts", 20)
	v.SetDefault("recommend.max_selection_draws", 200)
	v.SetDefault("recommend.catalog_min_size", 100)
	v.SetDefault("recommend.lookback", "336h")
	v.SetDefault("cache.catalog_ttl", "10m")
}
