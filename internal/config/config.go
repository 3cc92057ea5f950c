package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	JWTSecret         string
	ChallengeCacheTTL time.Duration
	AssessmentTimeout time.Duration
	OpenAIAPIKey      string
	GraderModel       string
	GraderMaxTokens   int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKILLFORGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SkillForge API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("challenge.cache_ttl", "5m")
	v.SetDefault("assessment.timeout", "45s")
	v.SetDefault("grader.model", "gpt-4o-mini")
	v.SetDefault("grader.max_tokens", 1024)

	cacheTTL, err := time.ParseDuration(v.GetString("challenge.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid challenge cache ttl: %w", err)
	}

	assessmentTimeout, err := time.ParseDuration(v.GetString("assessment.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid assessment timeout: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		ChallengeCacheTTL: cacheTTL,
		AssessmentTimeout: assessmentTimeout,
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		GraderModel:       v.GetString("grader.model"),
		GraderMaxTokens:   v.GetInt("grader.max_tokens"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.AssessmentTimeout <= 0 {
		cfg.AssessmentTimeout = 45 * time.Second
	}

	return cfg, nil
}
