package goCoherence

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goCoherence/cache"
	"github.com/MrEthical07/goCoherence/journal"
	"github.com/MrEthical07/goCoherence/record"
	"github.com/MrEthical07/goCoherence/registry"
	"github.com/MrEthical07/goCoherence/token"
)

// Builder defines a public type used by the coherence engine.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	recordStore record.Store
	journal     journal.Journal
	registry    registry.Registry
	verifier    CredentialVerifier
	auditSink   AuditSink

	built bool
}

// New starts a Builder with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the cache store and, when
// configured, the session registry.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithRecordStore supplies the system of record.
func (b *Builder) WithRecordStore(store record.Store) *Builder {
	b.recordStore = store
	return b
}

// WithJournal supplies the session journal.
func (b *Builder) WithJournal(j journal.Journal) *Builder {
	b.journal = j
	return b
}

// WithRegistry overrides the session registry the engine would otherwise
// construct from the config.
func (b *Builder) WithRegistry(r registry.Registry) *Builder {
	b.registry = r
	return b
}

// WithCredentialVerifier supplies the credential check used by Login.
func (b *Builder) WithCredentialVerifier(v CredentialVerifier) *Builder {
	b.verifier = v
	return b
}

// WithAuditSink supplies the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles counter recording.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the read latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithStrictInvalidation toggles strict invalidation failure handling.
func (b *Builder) WithStrictInvalidation(strict bool) *Builder {
	b.config.Invalidation.Strict = strict
	return b
}

// Build validates the configuration and assembles the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.recordStore == nil {
		return nil, errors.New("record store required")
	}
	if b.journal == nil {
		return nil, errors.New("journal required")
	}
	if b.verifier == nil {
		return nil, errors.New("credential verifier required")
	}

	// -------- SESSION REGISTRY --------
	reg := b.registry
	if reg == nil {
		if cfg.Session.UseRedisRegistry {
			reg = registry.NewRedisRegistry(b.redis, cfg.Session.RedisPrefix)
		} else {
			reg = registry.NewInMemory()
		}
	}

	// -------- TOKEN MANAGER --------
	tm, err := token.NewManager(token.Config{
		TTL:        cfg.Session.TokenTTL,
		Method:     token.Method(cfg.Token.SigningMethod),
		PrivateKey: cloneBytes(cfg.Token.PrivateKey),
		PublicKey:  cloneBytes(cfg.Token.PublicKey),
		Issuer:     cfg.Token.Issuer,
		Audience:   cfg.Token.Audience,
		Leeway:     cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:   cfg,
		cache:    cache.NewStore(b.redis, cfg.Cache.RedisPrefix),
		records:  b.recordStore,
		sessions: reg,
		journal:  b.journal,
		tokens:   tm,
		verifier: b.verifier,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	engine.startSweeper()

	b.built = true

	return engine, nil
}
