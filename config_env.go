package goCoherence

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	CacheRedisPrefix string        `env:"GC_CACHE_PREFIX"`
	CacheDefaultTTL  time.Duration `env:"GC_CACHE_TTL"`

	SessionTokenTTL  time.Duration `env:"GC_SESSION_TOKEN_TTL"`
	SweepInterval    time.Duration `env:"GC_SESSION_SWEEP_INTERVAL"`
	UseRedisRegistry bool          `env:"GC_SESSION_REDIS_REGISTRY"`
	SessionPrefix    string        `env:"GC_SESSION_PREFIX"`

	TokenSigningMethod string `env:"GC_TOKEN_METHOD"`
	TokenPrivateKey    string `env:"GC_TOKEN_PRIVATE_KEY"`
	TokenPublicKey     string `env:"GC_TOKEN_PUBLIC_KEY"`
	TokenIssuer        string `env:"GC_TOKEN_ISSUER"`
	TokenAudience      string `env:"GC_TOKEN_AUDIENCE"`

	InvalidationStrict bool `env:"GC_INVALIDATION_STRICT"`

	AuditEnabled    bool `env:"GC_AUDIT_ENABLED"`
	AuditBufferSize int  `env:"GC_AUDIT_BUFFER"`

	MetricsEnabled bool `env:"GC_METRICS_ENABLED"`
	MetricsLatency bool `env:"GC_METRICS_LATENCY"`
}

// ConfigFromEnv builds a Config from GC_* environment variables layered
// over the defaults. Unset variables leave the default untouched.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()

	var e envConfig
	if err := env.Parse(&e); err != nil {
		return Config{}, err
	}

	if e.CacheRedisPrefix != "" {
		cfg.Cache.RedisPrefix = e.CacheRedisPrefix
	}
	if e.CacheDefaultTTL > 0 {
		cfg.Cache.DefaultTTL = e.CacheDefaultTTL
	}
	if e.SessionTokenTTL > 0 {
		cfg.Session.TokenTTL = e.SessionTokenTTL
	}
	if e.SweepInterval > 0 {
		cfg.Session.SweepInterval = e.SweepInterval
	}
	if e.UseRedisRegistry {
		cfg.Session.UseRedisRegistry = true
	}
	if e.SessionPrefix != "" {
		cfg.Session.RedisPrefix = e.SessionPrefix
	}
	if e.TokenSigningMethod != "" {
		cfg.Token.SigningMethod = e.TokenSigningMethod
	}
	if e.TokenPrivateKey != "" {
		cfg.Token.PrivateKey = []byte(e.TokenPrivateKey)
	}
	if e.TokenPublicKey != "" {
		cfg.Token.PublicKey = []byte(e.TokenPublicKey)
	}
	if e.TokenIssuer != "" {
		cfg.Token.Issuer = e.TokenIssuer
	}
	if e.TokenAudience != "" {
		cfg.Token.Audience = e.TokenAudience
	}
	if e.InvalidationStrict {
		cfg.Invalidation.Strict = true
	}
	if e.AuditEnabled {
		cfg.Audit.Enabled = true
	}
	if e.AuditBufferSize > 0 {
		cfg.Audit.BufferSize = e.AuditBufferSize
	}
	if e.MetricsEnabled {
		cfg.Metrics.Enabled = true
	}
	if e.MetricsLatency {
		cfg.Metrics.EnableLatencyHistograms = true
	}

	return cfg, nil
}
