package override

import (
	"sync"

	"github.com/Elevated-Standards/mappings-sub003/internal/diagnostic"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
)

// SyncEngine serializes access to an Engine so several goroutines can share
// one rule set and cache.
type SyncEngine struct {
	mu     sync.Mutex
	engine *Engine
}

// NewSyncEngine wraps e. The caller must not use e directly afterwards.
func NewSyncEngine(e *Engine) *SyncEngine {
	return &SyncEngine{engine: e}
}

func (s *SyncEngine) AddOverride(rule MappingOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.AddOverride(rule)
}

func (s *SyncEngine) RemoveOverride(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.RemoveOverride(id)
}

func (s *SyncEngine) EnableOverride(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.EnableOverride(id)
}

func (s *SyncEngine) DisableOverride(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.DisableOverride(id)
}

func (s *SyncEngine) ResolveOverride(column string, ctx Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ResolveOverride(column, ctx)
}

// Merge holds the lock for the whole document so its columns resolve
// against one rule set.
func (s *SyncEngine) Merge(ctx Context, candidates []match.ColumnMatch) []MergedMapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Merge(ctx, candidates)
}

func (s *SyncEngine) ActiveOverrides() []MappingOverride {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ActiveOverrides()
}

func (s *SyncEngine) Override(id string) (MappingOverride, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Override(id)
}

func (s *SyncEngine) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Metrics()
}

func (s *SyncEngine) Conflicts() []Conflict {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Conflicts()
}

func (s *SyncEngine) AnalyzeConflicts() ConflictAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.AnalyzeConflicts()
}

func (s *SyncEngine) Strategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Strategy()
}

func (s *SyncEngine) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.ClearCache()
}

func (s *SyncEngine) ValidateSet(rules []MappingOverride) *diagnostic.Diagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ValidateSet(rules)
}
