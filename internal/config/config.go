package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"180s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	// ResourcesDir is the durable per-case audio directory.
	ResourcesDir string `env:"RESOURCES_DIR" envDefault:"./resources"`
	// DataDir holds the editable data_{lang}.json documents.
	DataDir string `env:"DATA_DIR" envDefault:"./config"`
	// StaticDir is served for everything outside /api. Empty disables it.
	StaticDir string `env:"STATIC_DIR" envDefault:"."`

	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"120s"`
	InsecureTLS  bool          `env:"INSECURE_TLS" envDefault:"false"`

	ASRURL     string        `env:"ASR_URL"`
	ASRAPIKey  string        `env:"ASR_API_KEY"`
	ASRModel   string        `env:"ASR_MODEL"`
	ASRTimeout time.Duration `env:"ASR_TIMEOUT" envDefault:"300s"`

	// BuildCmd is run by POST /api/build. Empty disables the endpoint.
	BuildCmd     string        `env:"BUILD_CMD"`
	BuildTimeout time.Duration `env:"BUILD_TIMEOUT" envDefault:"120s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile      string
	HTTPAddr     string
	LogLevel     string
	ResourcesDir string
	StaticDir    string
	DataDir      string
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	// Parse environment variables into config struct
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.ResourcesDir != "" {
		cfg.ResourcesDir = overrides.ResourcesDir
	}
	if overrides.StaticDir != "" {
		cfg.StaticDir = overrides.StaticDir
	}
	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}

	return cfg, nil
}
