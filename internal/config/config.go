package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the IMS backend.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	MongoURI               string
	MongoDatabase          string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	UploadMaxMB            int
	UploadTimeout          time.Duration
	ScanCacheTTL           time.Duration
	RelayChannel           string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
// Database connection details and the JWT secret are required; the process
// refuses to start without them.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("IMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PRYM IMS")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("mongo.database", "ims")
	v.SetDefault("cloudinary.folder", "ims/documents")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("upload.timeout", "30s")
	v.SetDefault("scan.cache_ttl", "5m")
	v.SetDefault("relay.channel", "ims:relay")

	uploadTimeout, err := time.ParseDuration(v.GetString("upload.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid upload timeout: %w", err)
	}

	scanTTL, err := time.ParseDuration(v.GetString("scan.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scan cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		MongoURI:               v.GetString("mongo.uri"),
		MongoDatabase:          v.GetString("mongo.database"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		UploadMaxMB:            v.GetInt("upload.max_mb"),
		UploadTimeout:          uploadTimeout,
		ScanCacheTTL:           scanTTL,
		RelayChannel:           v.GetString("relay.channel"),
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("mongo uri must be provided")
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 10
	}

	return cfg, nil
}
