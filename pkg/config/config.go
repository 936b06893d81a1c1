package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"healthguard/pkg/pipeline"
	"healthguard/pkg/registry"
)

type Config struct {
	Port        string
	GinMode     string
	DatasetDir  string
	ModelDir    string
	PlotDir     string
	FillPolicy  string
	DatabaseURL string
	EnableDB    bool
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		DatasetDir:  getEnv("DATASET_DIR", "datasets"),
		ModelDir:    getEnv("MODEL_DIR", "models"),
		PlotDir:     os.Getenv("PLOT_DIR"),
		FillPolicy:  getEnv("FILL_POLICY", "zero"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if _, err := pipeline.ParseFillPolicy(cfg.FillPolicy); err != nil {
		return nil, fmt.Errorf("FILL_POLICY: %w", err)
	}

	return cfg, nil
}

// Fill returns the configured fill policy.
func (c *Config) Fill() pipeline.FillPolicy {
	p, err := pipeline.ParseFillPolicy(c.FillPolicy)
	if err != nil {
		return pipeline.ZeroFill
	}
	return p
}

// OpenStore returns the artifact store the registry should use: Postgres
// when enabled, otherwise files under ModelDir. The returned func releases
// the store.
func (c *Config) OpenStore(ctx context.Context) (registry.Store, func(), error) {
	if !c.EnableDB {
		return registry.NewFileStore(c.ModelDir), func() {}, nil
	}
	pg, err := registry.NewPostgresStore(ctx, c.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
