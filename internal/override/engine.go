package override

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
)

// Engine owns the admitted rule set and the resolution cache.
// It is not safe for concurrent use; see SyncEngine.
type Engine struct {
	rules     []MappingOverride
	conflicts []Conflict

	matcher   *Matcher
	validator *Validator
	resolver  *Resolver
	cache     *ResolutionCache

	metrics Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewEngine returns an empty engine.
func NewEngine(opts ...Option) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	matcher := NewMatcher(o.regexCacheSize)

	return &Engine{
		matcher:   matcher,
		validator: NewValidator(o.rules, matcher),
		resolver:  NewResolver(o.strategy, o.logger),
		cache:     NewResolutionCache(o.cacheCapacity, o.contextCacheKey),
		logger:    o.logger,
		now:       o.now,
	}
}

// AddOverride validates a rule, checks it against admitted rules and admits
// it. Validation failures return a *ValidationError. A duplicate id always,
// and any conflict under the Manual strategy, returns a *ConflictError.
// Other conflicts are recorded and reported by Conflicts.
func (e *Engine) AddOverride(rule MappingOverride) error {
	if err := e.validator.Validate(&rule); err != nil {
		e.metrics.ValidationFailures++

		e.logger.Warn("override rejected",
			zap.String("override_id", rule.ID),
			zap.String("name", rule.Name),
			zap.Error(err))

		return errors.Wrapf(err, "add override %q", rule.Name)
	}

	conflicts := DetectConflicts(&rule, e.rules)
	if len(conflicts) > 0 {
		e.metrics.ConflictsEncountered += uint64(len(conflicts))
	}

	if critical := blocking(conflicts); len(critical) > 0 {
		return errors.Wrapf(newConflictError("critical override conflict", critical),
			"add override %q", rule.Name)
	}

	if len(conflicts) > 0 {
		if e.resolver.Strategy() == Manual {
			return errors.Wrapf(newConflictError("override conflicts require manual resolution", conflicts),
				"add override %q", rule.Name)
		}

		e.logger.Warn("override admitted with conflicts",
			zap.String("override_id", rule.ID),
			zap.Int("conflicts", len(conflicts)),
			zap.Stringer("strategy", e.resolver.Strategy()))

		if e.resolver.Strategy() == Combine {
			e.logger.Warn("combine strategy degrades to highest priority",
				zap.String("override_id", rule.ID))
		}

		e.conflicts = append(e.conflicts, conflicts...)
	}

	e.rules = append(e.rules, rule.Clone())
	e.invalidate()

	e.logger.Info("override added",
		zap.String("override_id", rule.ID),
		zap.String("name", rule.Name),
		zap.Stringer("type", rule.Type),
		zap.Stringer("scope", rule.Scope),
		zap.String("target", rule.TargetField),
		zap.Int("priority", rule.Priority))

	return nil
}

// RemoveOverride removes a rule and any admission conflicts it takes part in.
// It reports whether the id was known.
func (e *Engine) RemoveOverride(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}

	e.rules = slices.Delete(e.rules, i, i+1)
	e.conflicts = slices.DeleteFunc(e.conflicts, func(c Conflict) bool { return c.Involves(id) })
	e.invalidate()

	e.logger.Info("override removed", zap.String("override_id", id))

	return true
}

// EnableOverride activates a rule. It reports whether the id was known.
func (e *Engine) EnableOverride(id string) bool {
	return e.setActive(id, true)
}

// DisableOverride deactivates a rule without removing it. It reports whether
// the id was known.
func (e *Engine) DisableOverride(id string) bool {
	return e.setActive(id, false)
}

func (e *Engine) setActive(id string, active bool) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}

	e.rules[i].Active = active
	e.rules[i].ModifiedAt = e.now().UTC()
	e.invalidate()

	e.logger.Info("override toggled",
		zap.String("override_id", id),
		zap.Bool("active", active))

	return true
}

// invalidate clears the cache after a rule-set change. Once any active rule
// depends on file, user, organization, project, conditions or header
// positions, results are keyed on the whole context.
func (e *Engine) invalidate() {
	e.cache.Reset(slices.ContainsFunc(e.rules, func(o MappingOverride) bool {
		return o.Active && observesContext(&o)
	}))
}

func observesContext(o *MappingOverride) bool {
	switch o.Scope.(type) {
	case nil, GlobalScope, DocumentTypeScope:
	default:
		return true
	}

	return len(o.Conditions) > 0 || o.PositionConstraints != nil
}

func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.rules, func(o MappingOverride) bool { return o.ID == id })
}

// ResolveOverride decides whether an override applies to column. It never
// fails: no applicable rule yields a result with OverrideApplied false and
// zero confidence, and the caller falls back to the base column mapper.
func (e *Engine) ResolveOverride(column string, ctx Context) Result {
	start := time.Now()

	if cached, ok := e.cache.Get(column, &ctx); ok {
		e.metrics.CacheHits++
		cached.ResolutionTime = time.Since(start)
		e.record(cached)

		return cached
	}

	e.metrics.CacheMisses++

	matches := e.matching(column, &ctx)

	var res Result

	switch len(matches) {
	case 0:
	case 1:
		res = applied(matches[0], SingleMatchConfidence)
	default:
		e.metrics.ConflictsEncountered++

		winner, conflict, err := e.resolver.Resolve(column, matches)
		if err != nil {
			e.logger.Debug("resolution blocked",
				zap.String("column", column),
				zap.Error(err))

			res = Result{Conflicts: []Conflict{conflict}}
		} else {
			res = applied(winner, ResolvedConflictConfidence)
			res.Conflicts = []Conflict{conflict}
		}
	}

	res.ResolutionTime = time.Since(start)
	e.record(res)
	e.cache.Put(column, &ctx, res)

	e.logger.Debug("override resolved",
		zap.String("column", column),
		zap.String("document_type", ctx.DocumentType),
		zap.Int("matches", len(matches)),
		zap.Bool("applied", res.OverrideApplied),
		zap.String("target", res.TargetField),
		zap.Duration("elapsed", res.ResolutionTime))

	return res
}

func applied(o *MappingOverride, confidence float64) Result {
	c := o.Clone()

	return Result{
		OverrideApplied: true,
		AppliedOverride: &c,
		TargetField:     o.TargetField,
		Confidence:      confidence,
	}
}

// matching returns the active rules applicable to column, in admission order.
func (e *Engine) matching(column string, ctx *Context) []*MappingOverride {
	var out []*MappingOverride

	for i := range e.rules {
		r := &e.rules[i]

		if !r.Active ||
			!ScopeMatches(r.Scope, ctx) ||
			!ConditionsHold(r.Conditions, ctx) ||
			!PositionAllows(r.PositionConstraints, column, ctx.Headers) ||
			!e.matcher.Matches(column, r.Pattern, r.Type) {
			continue
		}

		out = append(out, r)
	}

	return out
}

func (e *Engine) record(r Result) {
	e.metrics.TotalApplications++
	if r.OverrideApplied {
		e.metrics.SuccessfulMatches++
	}

	n := time.Duration(e.metrics.TotalApplications)
	e.metrics.AvgResolutionTime += (r.ResolutionTime - e.metrics.AvgResolutionTime) / n
}

// ActiveOverrides returns copies of the active rules in admission order.
func (e *Engine) ActiveOverrides() []MappingOverride {
	var out []MappingOverride

	for i := range e.rules {
		if e.rules[i].Active {
			out = append(out, e.rules[i].Clone())
		}
	}

	return out
}

// Overrides returns copies of all admitted rules, active or not.
func (e *Engine) Overrides() []MappingOverride {
	out := make([]MappingOverride, len(e.rules))
	for i := range e.rules {
		out[i] = e.rules[i].Clone()
	}

	return out
}

// Override returns a copy of the rule with the given id.
func (e *Engine) Override(id string) (MappingOverride, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return MappingOverride{}, false
	}

	return e.rules[i].Clone(), true
}

// Lookup is like Override but returns an error wrapping ErrNotFound.
func (e *Engine) Lookup(id string) (MappingOverride, error) {
	o, ok := e.Override(id)
	if !ok {
		return MappingOverride{}, errors.Wrapf(ErrNotFound, "override %s", id)
	}

	return o, nil
}

// Metrics returns a snapshot of the counters.
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// Conflicts returns the conflicts recorded when rules were admitted.
func (e *Engine) Conflicts() []Conflict {
	out := make([]Conflict, len(e.conflicts))
	for i := range e.conflicts {
		out[i] = e.conflicts[i].clone()
	}

	return out
}

// Strategy returns the configured resolution strategy.
func (e *Engine) Strategy() Strategy {
	return e.resolver.Strategy()
}

// ClearCache drops every cached resolution.
func (e *Engine) ClearCache() {
	e.cache.Purge()
}

// CacheLen returns the number of cached resolutions.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}

// ValidateSet checks a batch of rules with the engine's validation limits
// without admitting any of them. When the batch conflicts, the conflict
// analysis recommendations for the configured strategy are added as info.
func (e *Engine) ValidateSet(rules []MappingOverride) *diagnostic.Diagnostics {
	diags, conflicts := e.validator.validateSet(rules)

	if len(conflicts) > 0 {
		for _, rec := range e.resolver.Analyze(conflicts).Recommendations {
			diags.AddInfo(CodeAdvice, rec, "", "")
		}
	}

	return diags
}

// AnalyzeConflicts summarizes the conflicts recorded at admission.
func (e *Engine) AnalyzeConflicts() ConflictAnalysis {
	return e.resolver.Analyze(e.conflicts)
}
