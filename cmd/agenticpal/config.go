package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	redispkg "github.com/agenticpal/agenticpal/pkg/redis"
)

// appConfig holds everything the binary reads from the environment, prefixed
// with AGENTICPAL_ unless a field names its variable explicitly.
type appConfig struct {
	Environment string `default:"development"`
	Addr        string `default:":8080"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	Model        string `default:"googleai/gemini-1.5-flash"`

	Timezone string `default:"UTC"`

	// PlannerStrategy selects how plans are produced: "loop" for the
	// tool-calling dialogue, "structured" for single-shot JSON planning.
	PlannerStrategy string `split_words:"true" default:"loop"`

	// ToolManifest optionally points at a YAML file that overrides tool
	// descriptions or disables tools.
	ToolManifest string `split_words:"true"`

	// CheckpointBackend selects where suspended turns live: "memory",
	// "file", or "redis". History follows the same backend (file uses
	// memory history).
	CheckpointBackend string        `split_words:"true" default:"memory"`
	CheckpointFile    string        `split_words:"true" default:"agenticpal-checkpoints.json"`
	CheckpointTTL     time.Duration `envconfig:"CHECKPOINT_TTL" default:"24h"`

	HistoryMaxTurns int `split_words:"true" default:"20"`

	Redis redispkg.Config
}

// loadConfig reads .env when present, then the environment.
func loadConfig() (appConfig, error) {
	_ = godotenv.Load()

	var cfg appConfig
	if err := envconfig.Process("agenticpal", &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
