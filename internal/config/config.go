// Package config loads service settings from an optional YAML file, with
// environment variables taking precedence over file values.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/letmevibethatforyou/sitesearch"
)

// Config holds settings shared by the commands.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// Search
	Limit   int                `koanf:"limit"`
	Weights sitesearch.Weights `koanf:"weights"`

	// Content
	BlogDir string `koanf:"blog_dir"`

	// Feature flags
	BlogEnabled    bool          `koanf:"blog_enabled"`
	FlagsSecretARN string        `koanf:"flags_secret_arn"`
	FlagsRefresh   time.Duration `koanf:"flags_refresh"`

	// Storage
	PrefsDB      string `koanf:"prefs_db"`
	PrefsTable   string `koanf:"prefs_table"`
	ContactTable string `koanf:"contact_table"`

	// Algolia
	AlgoliaIndex string `koanf:"algolia_index"`
}

// Default values.
const (
	DefaultAddr         = ":8080"
	DefaultBlogDir      = "content/blog"
	DefaultFlagsRefresh = 5 * time.Minute
	DefaultAlgoliaIndex = "site"
)

// Configuration validation errors.
var (
	ErrInvalidLimit   = errors.New("limit must be positive")
	ErrInvalidWeights = errors.New("weights must be non-negative")
	ErrInvalidRefresh = errors.New("flags_refresh must not be negative")
	ErrMissingAddr    = errors.New("addr is required")
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Addr:         DefaultAddr,
		Limit:        sitesearch.MaxResults,
		Weights:      sitesearch.DefaultWeights(),
		BlogDir:      DefaultBlogDir,
		FlagsRefresh: DefaultFlagsRefresh,
		AlgoliaIndex: DefaultAlgoliaIndex,
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides. The returned config has been validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to decode config file %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "SITESEARCH_ADDR")
	setString(&c.BlogDir, "SITESEARCH_BLOG_DIR")
	setString(&c.FlagsSecretARN, "FLAGS_SECRET_ARN")
	setString(&c.PrefsDB, "SITESEARCH_PREFS_DB")
	setString(&c.PrefsTable, "PREFS_TABLE")
	setString(&c.ContactTable, "CONTACT_TABLE")
	setString(&c.AlgoliaIndex, "ALGOLIA_INDEX")

	if v := os.Getenv("SITESEARCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "SITESEARCH_LIMIT must be an integer")
		}
		c.Limit = n
	}
	if v := os.Getenv("FLAGS_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "FLAGS_REFRESH must be a duration")
		}
		c.FlagsRefresh = d
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, ErrMissingAddr)
	}
	if c.Limit <= 0 {
		errs = append(errs, ErrInvalidLimit)
	}
	if !c.Weights.Valid() {
		errs = append(errs, ErrInvalidWeights)
	}
	if c.FlagsRefresh < 0 {
		errs = append(errs, ErrInvalidRefresh)
	}
	return errors.Join(errs...)
}
