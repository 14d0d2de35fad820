package config

import (
	"github.com/Gurmittoor/hyperlinklaw/internal/indexdetect"
	"github.com/Gurmittoor/hyperlinklaw/internal/match"
	"github.com/Gurmittoor/hyperlinklaw/internal/similarity"
)

// Config holds lawlink configuration.
// Loaded from config.yaml, overridable via LAWLINK_ environment variables.
type Config struct {
	Server   ServerCfg         `mapstructure:"server" yaml:"server"`
	Engine   EngineCfg         `mapstructure:"engine" yaml:"engine"`
	Resolver ResolverCfg       `mapstructure:"resolver" yaml:"resolver"`
	APIKeys  map[string]string `mapstructure:"api_keys" yaml:"api_keys"`
}

// ServerCfg configures the HTTP API server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// EngineCfg holds the matching-engine calibration. The zero value is not
// usable; defaults come from the engine packages and changing them is a
// recalibration, not a tweak.
type EngineCfg struct {
	Similarity similarity.Weights      `mapstructure:"similarity" yaml:"similarity"`
	Detector   indexdetect.Scoring     `mapstructure:"detector" yaml:"detector"`
	Scan       indexdetect.ScanOptions `mapstructure:"scan" yaml:"scan"`
	Match      match.Thresholds        `mapstructure:"match" yaml:"match"`
	// MaxWorkers bounds batch-mapping parallelism (0 = GOMAXPROCS).
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`
}

// ResolverCfg configures the LLM tie-break resolver.
type ResolverCfg struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
	// MinConfidence is the floor below which the resolver may only
	// answer needs_review, never pick.
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	MaxRetries    int     `mapstructure:"max_retries" yaml:"max_retries"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Engine: EngineCfg{
			Similarity: similarity.DefaultWeights(),
			Detector:   indexdetect.DefaultScoring(),
			Scan:       indexdetect.DefaultScanOptions(),
			Match:      match.DefaultThresholds(),
			MaxWorkers: 10,
		},
		Resolver: ResolverCfg{
			Enabled:       false,
			Model:         "gpt-4o-mini",
			MinConfidence: 0.5,
			MaxRetries:    3,
		},
		APIKeys: map[string]string{
			"openai": "${OPENAI_API_KEY}",
		},
	}
}

// ResolveAPIKey returns the API key for a named service with any
// ${ENV_VAR} reference expanded.
func (c *Config) ResolveAPIKey(name string) string {
	return ResolveEnvVars(c.APIKeys[name])
}
