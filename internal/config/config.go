package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "Asia/Seoul"
	configPathEnv      = "ARTICLE_PUBLISHER_CONFIG"
	databasePathEnv    = "DATABASE_PATH"
	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv     = "OPENAI_MODEL"
	wordpressURLEnv    = "WORDPRESS_URL"
	wordpressUserEnv   = "WORDPRESS_USERNAME"
	wordpressPassEnv   = "WORDPRESS_APP_PASSWORD"
	wordpressStatusEnv = "WORDPRESS_STATUS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Publish   PublishConfig   `yaml:"publish"`
	Policy    PolicyConfig    `yaml:"policy"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig locates the SQLite ledger file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// OpenAIConfig defines how to contact the text-generation service.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float32 `yaml:"temperature"`
	ImageModel  string  `yaml:"imageModel"`
	Images      bool    `yaml:"images"`
}

// WordPressConfig wires the CMS REST endpoint and credentials.
type WordPressConfig struct {
	SiteURL        string `yaml:"siteUrl"`
	Username       string `yaml:"username"`
	AppPassword    string `yaml:"appPassword"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxAttempts    int    `yaml:"maxAttempts"`
}

// PublishConfig holds per-run pipeline defaults overridable from the CLI.
type PublishConfig struct {
	Status        string `yaml:"status"`
	ScheduleHours int    `yaml:"scheduleHours"`
	AutoSanitize  bool   `yaml:"autoSanitize"`
	// WindowHours are the local hours posts should go live in; runs outside
	// a window schedule the post for the next one.
	WindowHours []int `yaml:"windowHours"`
}

// PolicyConfig is the content-safety policy the validator enforces.
type PolicyConfig struct {
	ForbiddenTerms []string          `yaml:"forbiddenTerms"`
	Replacements   map[string]string `yaml:"replacements"`
	Disclaimer     string            `yaml:"disclaimer"`
	MinSections    int               `yaml:"minSections"`
	MinLength      int               `yaml:"minLength"`
}

// CardConfig describes one symbolic card with its Korean display name.
type CardConfig struct {
	Name   string `yaml:"name"`
	Korean string `yaml:"korean"`
	Deck   string `yaml:"deck"`
}

// TaxonomyConfig carries the three taxonomies whose cross-product defines
// the combination space. Changing them must not require code changes.
type TaxonomyConfig struct {
	MBTITypes  []string     `yaml:"mbtiTypes"`
	Situations []string     `yaml:"situations"`
	Cards      []CardConfig `yaml:"cards"`
}

// SchedulerConfig defines the daemon-mode run interval.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// IntervalDuration parses the interval string, falling back to daily.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(wordpressURLEnv); v != "" {
		c.WordPress.SiteURL = v
	}

	if v := os.Getenv(wordpressUserEnv); v != "" {
		c.WordPress.Username = v
	}

	if v := os.Getenv(wordpressPassEnv); v != "" {
		c.WordPress.AppPassword = v
	}

	if v := os.Getenv(wordpressStatusEnv); v != "" {
		c.Publish.Status = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.OpenAI.BaseURL != "" {
		base.OpenAI.BaseURL = override.OpenAI.BaseURL
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.MaxTokens > 0 {
		base.OpenAI.MaxTokens = override.OpenAI.MaxTokens
	}
	if override.OpenAI.Temperature > 0 {
		base.OpenAI.Temperature = override.OpenAI.Temperature
	}
	if override.OpenAI.ImageModel != "" {
		base.OpenAI.ImageModel = override.OpenAI.ImageModel
	}
	base.OpenAI.Images = base.OpenAI.Images || override.OpenAI.Images

	if override.WordPress.SiteURL != "" {
		base.WordPress.SiteURL = override.WordPress.SiteURL
	}
	if override.WordPress.Username != "" {
		base.WordPress.Username = override.WordPress.Username
	}
	if override.WordPress.AppPassword != "" {
		base.WordPress.AppPassword = override.WordPress.AppPassword
	}
	if override.WordPress.TimeoutSeconds > 0 {
		base.WordPress.TimeoutSeconds = override.WordPress.TimeoutSeconds
	}
	if override.WordPress.MaxAttempts > 0 {
		base.WordPress.MaxAttempts = override.WordPress.MaxAttempts
	}

	if override.Publish.Status != "" {
		base.Publish.Status = override.Publish.Status
	}
	if override.Publish.ScheduleHours > 0 {
		base.Publish.ScheduleHours = override.Publish.ScheduleHours
	}
	if len(override.Publish.WindowHours) > 0 {
		base.Publish.WindowHours = override.Publish.WindowHours
	}

	if len(override.Policy.ForbiddenTerms) > 0 {
		base.Policy.ForbiddenTerms = override.Policy.ForbiddenTerms
	}
	if len(override.Policy.Replacements) > 0 {
		base.Policy.Replacements = override.Policy.Replacements
	}
	if override.Policy.Disclaimer != "" {
		base.Policy.Disclaimer = override.Policy.Disclaimer
	}
	if override.Policy.MinSections > 0 {
		base.Policy.MinSections = override.Policy.MinSections
	}
	if override.Policy.MinLength > 0 {
		base.Policy.MinLength = override.Policy.MinLength
	}

	if len(override.Taxonomy.MBTITypes) > 0 {
		base.Taxonomy.MBTITypes = override.Taxonomy.MBTITypes
	}
	if len(override.Taxonomy.Situations) > 0 {
		base.Taxonomy.Situations = override.Taxonomy.Situations
	}
	if len(override.Taxonomy.Cards) > 0 {
		base.Taxonomy.Cards = override.Taxonomy.Cards
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}
