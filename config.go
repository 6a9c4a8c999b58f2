package goCoherence

import (
	"errors"
	"time"
)

// Config defines a public type used by the coherence engine.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cache        CacheConfig
	Session      SessionConfig
	Token        TokenConfig
	Invalidation InvalidationConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by the coherence engine.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	RedisPrefix string
	DefaultTTL  time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by the coherence engine.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	TokenTTL         time.Duration
	SweepInterval    time.Duration
	UseRedisRegistry bool
	RedisPrefix      string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by the coherence engine.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	SigningMethod string // "ed25519" (default), "hs256" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

/*
====================================
INVALIDATION CONFIG
====================================
*/

// InvalidationConfig defines a public type used by the coherence engine.
//
// When Strict is set, a failed cache invalidation after a committed write
// surfaces as ErrInvalidationFailed; otherwise the failure is audited and
// the write reported as successful.
type InvalidationConfig struct {
	Strict bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by the coherence engine.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by the coherence engine.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			RedisPrefix: "gc",
			DefaultTTL:  5 * time.Minute,
		},
		Session: SessionConfig{
			TokenTTL:         30 * time.Minute,
			SweepInterval:    time.Minute,
			UseRedisRegistry: false,
			RedisPrefix:      "gc",
		},
		Token: TokenConfig{
			SigningMethod: "ed25519",
		},
		Invalidation: InvalidationConfig{
			Strict: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values the engine cannot run
// with.
func (c *Config) Validate() error {
	// Cache
	if c.Cache.DefaultTTL <= 0 {
		return errors.New("Cache DefaultTTL must be > 0")
	}
	if c.Cache.RedisPrefix == "" {
		return errors.New("Cache RedisPrefix must not be empty")
	}

	// Session
	if c.Session.TokenTTL <= 0 {
		return errors.New("Session TokenTTL must be > 0")
	}
	if c.Session.SweepInterval < 0 {
		return errors.New("Session SweepInterval must be >= 0")
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}

	// Token
	if c.Token.SigningMethod != "ed25519" && c.Token.SigningMethod != "hs256" {
		return errors.New("unsupported token signing method")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PrivateKey) == 0 {
		return errors.New("ed25519 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}
	if c.Token.SigningMethod == "hs256" && len(c.Token.PrivateKey) == 0 {
		return errors.New("hs256 requires PrivateKey")
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2 minutes")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}

// DefaultConfig returns the engine defaults. Callers must still supply
// signing key material before Build.
func DefaultConfig() Config {
	return defaultConfig()
}
