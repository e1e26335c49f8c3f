package resilient

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables for a cache-aside loader. All fields can be set
// from YAML via LoadConfig; zero values for the resilience knobs are
// replaced with the defaults below when the loader is constructed.
type Config struct {
	// TTL is how long successful origin results stay cached. A value <= 0
	// disables write-back entirely: every fetch that misses goes to the
	// origin and nothing is stored.
	TTL time.Duration `yaml:"ttl"`

	// FailureThreshold is the number of consecutive origin failures that
	// trips the circuit breaker. Must be positive.
	FailureThreshold int `yaml:"failureThreshold"`

	// ResetTimeout is how long the breaker stays open before a half-open
	// probe is allowed. Must be positive.
	ResetTimeout time.Duration `yaml:"resetTimeout"`

	// MaxRetries is the total number of origin attempts per fetch,
	// including the first one. Must be positive.
	MaxRetries int `yaml:"maxRetries"`

	// BaseDelay is the backoff unit between retry attempts. The delay
	// after a failed attempt i (0-indexed) is BaseDelay * (i+1).
	BaseDelay time.Duration `yaml:"baseDelay"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL:              5 * time.Minute,
		FailureThreshold: 5,
		ResetTimeout:     60 * time.Second,
		MaxRetries:       3,
		BaseDelay:        100 * time.Millisecond,
	}
}

// WithDefaults returns a copy of c with zero-valued resilience knobs
// replaced by their defaults. TTL is left alone: a non-positive TTL is a
// meaningful setting (do not cache), not an omission.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.ResetTimeout == 0 {
		c.ResetTimeout = def.ResetTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = def.BaseDelay
	}
	return c
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FailureThreshold, validation.Required, validation.Min(1)),
		validation.Field(&c.ResetTimeout, validation.Required, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Required, validation.Min(1)),
		validation.Field(&c.BaseDelay, validation.Min(time.Duration(0))),
	)
}

// LoadConfig reads a Config from a YAML file, applies defaults for omitted
// resilience knobs, and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal yaml: %w", err)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
