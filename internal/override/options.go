package override

import (
	"time"

	"go.uber.org/zap"
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	strategy        Strategy
	cacheCapacity   int
	contextCacheKey bool
	regexCacheSize  int
	rules           ValidationRules
	logger          *zap.Logger
	now             func() time.Time
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		strategy:       HighestPriority,
		cacheCapacity:  DefaultCacheCapacity,
		regexCacheSize: DefaultRegexCacheSize,
		rules:          DefaultValidationRules(),
		logger:         zap.NewNop(),
		now:            time.Now,
	}
}

// WithStrategy sets the conflict resolution strategy.
func WithStrategy(s Strategy) Option {
	return func(o *engineOptions) { o.strategy = s }
}

// WithCacheCapacity bounds the resolution cache.
func WithCacheCapacity(n int) Option {
	return func(o *engineOptions) { o.cacheCapacity = n }
}

// WithContextCacheKey makes the resolution cache key include the context
// fingerprint, not only column and document type.
func WithContextCacheKey(enabled bool) Option {
	return func(o *engineOptions) { o.contextCacheKey = enabled }
}

// WithRegexCacheSize bounds the compiled pattern cache.
func WithRegexCacheSize(n int) Option {
	return func(o *engineOptions) { o.regexCacheSize = n }
}

// WithValidationRules replaces the default validation limits.
func WithValidationRules(r ValidationRules) Option {
	return func(o *engineOptions) { o.rules = r }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source used for modification timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}
