// Package config resolves the client configuration from, in rising order of
// priority: built-in defaults, breeds.json5, breeds.local.json5, a .env file
// and the process environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Makepad-fr/breeds/internal/catapi"
)

const DefaultFile = "breeds.json5"

// Config is set once at startup and never changes afterwards.
type Config struct {
	BaseURL     string   `json:"base_url" envconfig:"BASE_URL"`
	APIKey      string   `json:"api_key" envconfig:"API_KEY"`
	SubID       string   `json:"sub_id" envconfig:"SUB_ID"`
	ImageLimit  int      `json:"image_limit" envconfig:"IMAGE_LIMIT"`
	RotateEvery Duration `json:"rotate_every" envconfig:"ROTATE_EVERY"`
	Theme       string   `json:"theme" envconfig:"THEME"`
}

func Defaults() Config {
	return Config{
		BaseURL:     catapi.DefaultBaseURL,
		ImageLimit:  catapi.DefaultImageLimit,
		RotateEvery: Duration(5 * time.Second),
		Theme:       "classic",
	}
}

// Load resolves the configuration. file may be empty to use DefaultFile; a
// missing file is not an error, a malformed one is.
func Load(file string) (Config, error) {
	cfg := Defaults()
	if file == "" {
		file = DefaultFile
	}

	fromFile, err := ReadFile[Config](file)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("config file: %w", err)
	default:
		if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		set, err := ReadFile[zeroable](file)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		set.apply(&cfg)
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	var fromEnv Config
	if err := envconfig.Process("", &fromEnv); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	if err := mergo.Merge(&cfg, fromEnv, mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	if envSet("IMAGE_LIMIT") {
		cfg.ImageLimit = fromEnv.ImageLimit
	}
	if envSet("ROTATE_EVERY") {
		cfg.RotateEvery = fromEnv.RotateEvery
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return cfg, cfg.Validate()
}

// zeroable holds the settings for which 0 is a real value (no auto-rotation,
// service default page size). mergo skips zero fields, so these are applied
// whenever the file names them.
type zeroable struct {
	ImageLimit  *int      `json:"image_limit"`
	RotateEvery *Duration `json:"rotate_every"`
}

func (z zeroable) apply(cfg *Config) {
	if z.ImageLimit != nil {
		cfg.ImageLimit = *z.ImageLimit
	}
	if z.RotateEvery != nil {
		cfg.RotateEvery = *z.RotateEvery
	}
}

func envSet(key string) bool {
	v, ok := os.LookupEnv(key)
	return ok && strings.TrimSpace(v) != ""
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if c.ImageLimit < 0 {
		return fmt.Errorf("image_limit must be >= 0, got %d", c.ImageLimit)
	}
	if c.RotateEvery < 0 {
		return fmt.Errorf("rotate_every must be >= 0, got %s", c.RotateEvery)
	}
	return nil
}

// Duration accepts "5s" style strings in both JSON5 files and the environment.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if err2 := json.Unmarshal(b, &n); err2 != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	return d.Decode(s)
}

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(value string) error {
	v, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(v)
	return nil
}
