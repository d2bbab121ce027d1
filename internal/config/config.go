// Package config loads application configuration from YAML and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Matcher MatcherConfig `yaml:"matcher" mapstructure:"matcher"`
	Arbiter ArbiterConfig `yaml:"arbiter" mapstructure:"arbiter"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MatcherConfig carries the scoring and filtering tunables. The numeric
// defaults were tuned against production catalogs; they are configuration,
// not derived values.
type MatcherConfig struct {
	// MinMatchScore is the global floor below which candidates are dropped.
	MinMatchScore float64 `yaml:"min_match_score" mapstructure:"min_match_score"`
	// AutoAcceptScore accepts the top candidate without arbitration.
	AutoAcceptScore float64 `yaml:"auto_accept_score" mapstructure:"auto_accept_score"`
	// HighConfidenceScore gates price decisions for non-arbitrated matches.
	HighConfidenceScore float64 `yaml:"high_confidence_score" mapstructure:"high_confidence_score"`
	// ReviewScore marks the lower edge of the review band.
	ReviewScore float64 `yaml:"review_score" mapstructure:"review_score"`

	// RecallLimit bounds the lexical recall stage per query.
	RecallLimit int `yaml:"recall_limit" mapstructure:"recall_limit"`
	// TopCandidates bounds candidates returned per search and sent to the
	// arbiter per item.
	TopCandidates int `yaml:"top_candidates" mapstructure:"top_candidates"`

	// MaxSizeGapML rejects candidates whose bottle size differs by more
	// than this many milliliters.
	MaxSizeGapML float64 `yaml:"max_size_gap_ml" mapstructure:"max_size_gap_ml"`
	// CrossConcentrationSizeGapML is the tighter size gap applied when the
	// concentrations also differ.
	CrossConcentrationSizeGapML float64 `yaml:"cross_concentration_size_gap_ml" mapstructure:"cross_concentration_size_gap_ml"`

	// ProductLineFloor rejects same-brand candidates whose product-line
	// similarity falls below it.
	ProductLineFloor float64 `yaml:"product_line_floor" mapstructure:"product_line_floor"`
	// ProductLineGood and ProductLineStrong tier the same-brand penalty.
	ProductLineGood   float64 `yaml:"product_line_good" mapstructure:"product_line_good"`
	ProductLineStrong float64 `yaml:"product_line_strong" mapstructure:"product_line_strong"`
	// NoBrandProductLineFloor rejects candidates when neither side has a
	// recognized brand. Stricter because nothing else anchors identity.
	NoBrandProductLineFloor float64 `yaml:"no_brand_product_line_floor" mapstructure:"no_brand_product_line_floor"`

	// MissingCutoff is the similarity cutoff of the missing-product pass.
	MissingCutoff float64 `yaml:"missing_cutoff" mapstructure:"missing_cutoff"`
	// PriceDiffThreshold is the absolute currency gap that separates
	// approved from price-higher/price-lower.
	PriceDiffThreshold float64 `yaml:"price_diff_threshold" mapstructure:"price_diff_threshold"`

	// RiskCriticalPct and RiskMediumPct are the percentage price gaps
	// above which a result is graded critical or medium. The critical
	// tier additionally requires at least RiskCriticalScore; the medium
	// tier requires at least ReviewScore.
	RiskCriticalPct   float64 `yaml:"risk_critical_pct" mapstructure:"risk_critical_pct"`
	RiskMediumPct     float64 `yaml:"risk_medium_pct" mapstructure:"risk_medium_pct"`
	RiskCriticalScore float64 `yaml:"risk_critical_score" mapstructure:"risk_critical_score"`

	// Workers bounds the per-item search worker pool. 0 means serial.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// WordReplacements is an optional normalization table applied before
	// the built-in synonym table.
	WordReplacements map[string]string `yaml:"word_replacements" mapstructure:"word_replacements"`
}

// ArbiterConfig holds the escalation client settings.
type ArbiterConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	BatchSize         int     `yaml:"batch_size" mapstructure:"batch_size"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CacheConfig configures the arbiter verdict cache.
type CacheConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRICEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("matcher.min_match_score", 68.0)
	v.SetDefault("matcher.auto_accept_score", 97.0)
	v.SetDefault("matcher.high_confidence_score", 92.0)
	v.SetDefault("matcher.review_score", 75.0)
	v.SetDefault("matcher.recall_limit", 25)
	v.SetDefault("matcher.top_candidates", 5)
	v.SetDefault("matcher.max_size_gap_ml", 30.0)
	v.SetDefault("matcher.cross_concentration_size_gap_ml", 3.0)
	v.SetDefault("matcher.product_line_floor", 78.0)
	v.SetDefault("matcher.product_line_good", 88.0)
	v.SetDefault("matcher.product_line_strong", 94.0)
	v.SetDefault("matcher.no_brand_product_line_floor", 85.0)
	v.SetDefault("matcher.missing_cutoff", 70.0)
	v.SetDefault("matcher.price_diff_threshold", 10.0)
	v.SetDefault("matcher.risk_critical_pct", 20.0)
	v.SetDefault("matcher.risk_medium_pct", 10.0)
	v.SetDefault("matcher.risk_critical_score", 85.0)
	v.SetDefault("matcher.workers", 0)
	// AutomaticEnv only surfaces keys viper already knows about, so the
	// key needs an empty default for PRICEWATCH_ARBITER_KEY to land.
	v.SetDefault("arbiter.key", "")
	v.SetDefault("arbiter.model", "claude-haiku-4-5")
	v.SetDefault("arbiter.batch_size", 12)
	v.SetDefault("arbiter.timeout_secs", 30)
	v.SetDefault("arbiter.max_attempts", 3)
	v.SetDefault("arbiter.requests_per_second", 2.0)
	v.SetDefault("cache.path", "arbiter_cache.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given command
// mode. Collected problems are reported together.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "match":
		if c.Arbiter.Key == "" {
			problems = append(problems, "arbiter.key is required")
		}
	case "missing", "cache":
		// No credentials needed.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	m := c.Matcher
	if m.MinMatchScore < 0 || m.MinMatchScore > 100 {
		problems = append(problems, "matcher.min_match_score must be between 0 and 100")
	}
	if m.AutoAcceptScore < m.HighConfidenceScore || m.HighConfidenceScore < m.ReviewScore {
		problems = append(problems, "matcher thresholds must satisfy review <= high_confidence <= auto_accept")
	}
	if m.TopCandidates < 1 {
		problems = append(problems, "matcher.top_candidates must be >= 1")
	}
	if m.RecallLimit < m.TopCandidates {
		problems = append(problems, "matcher.recall_limit must be >= top_candidates")
	}
	if m.Workers < 0 {
		problems = append(problems, "matcher.workers must be >= 0")
	}
	if m.RiskMediumPct > m.RiskCriticalPct {
		problems = append(problems, "matcher.risk_medium_pct must be <= risk_critical_pct")
	}
	if c.Arbiter.BatchSize < 1 || c.Arbiter.BatchSize > 50 {
		problems = append(problems, "arbiter.batch_size must be between 1 and 50")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
