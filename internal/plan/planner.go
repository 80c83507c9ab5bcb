package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Elevated-Standards/mappings-sub003/internal/common"
	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// Config holds configuration for planning.
type Config struct {
	// LowConfidence flags fuzzy matches scoring below it for review.
	LowConfidence float64
	// AmbiguityThreshold marks unmapped columns as ambiguous when the top
	// two candidates are within this difference.
	AmbiguityThreshold float64
	// MaxCandidates is the maximum number of candidates to include in suggestions.
	MaxCandidates int
	// Concurrency bounds PlanDocuments; zero or less means one document at a time.
	Concurrency int
}

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{
		LowConfidence:      0.85,
		AmbiguityThreshold: match.DefaultAmbiguityThreshold,
		MaxCandidates:      3,
		Concurrency:        4,
	}
}

// Planner combines the base column mapper with the override engine.
type Planner struct {
	mapper *match.ColumnMapper
	engine *override.SyncEngine
	config Config
	logger *zap.Logger
}

// NewPlanner creates a Planner. A nil logger disables logging.
func NewPlanner(mapper *match.ColumnMapper, engine *override.SyncEngine, config Config, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Planner{mapper: mapper, engine: engine, config: config, logger: logger}
}

// Plan maps every header of doc.
func (p *Planner) Plan(doc Document) *DocumentPlan {
	ctx := doc.Context
	if ctx.ColumnCount == nil && !common.IsEmpty(ctx.Headers) {
		ctx = ctx.WithColumnCount(len(ctx.Headers))
	}

	dp := &DocumentPlan{
		Document:     doc.Name,
		DocumentType: ctx.DocumentType,
	}

	merged := p.engine.Merge(ctx, p.mapper.MapColumns(ctx.Headers))
	targets := make(map[string]string, len(merged))

	for _, m := range merged {
		col := ColumnPlan{MergedMapping: m}

		switch m.Origin {
		case override.OriginOverride:
			col.Explanation = fmt.Sprintf("override %s: %s -> %s", m.OverrideID, m.SourceColumn, m.TargetField)
		case override.OriginExact:
			col.Explanation = fmt.Sprintf("exact alias: %s -> %s", m.SourceColumn, m.TargetField)
		case override.OriginFuzzy:
			col.Explanation = fmt.Sprintf("fuzzy: %s -> %s (score: %.2f)", m.SourceColumn, m.TargetField, m.Confidence)

			if m.Confidence < p.config.LowConfidence {
				col.Candidates = p.mapper.Suggestions(m.SourceColumn, p.config.MaxCandidates)
				dp.Diagnostics.AddInfo("low_confidence",
					fmt.Sprintf("column %q matched %q with score %.2f; review before relying on it",
						m.SourceColumn, m.TargetField, m.Confidence),
					"", m.SourceColumn)
			}
		default:
			col.Candidates = p.mapper.Suggestions(m.SourceColumn, p.config.MaxCandidates)
			col.Explanation = p.unmappedReason(col.Candidates)

			dp.Diagnostics.AddWarning("unmapped_column",
				fmt.Sprintf("column %q: %s", m.SourceColumn, col.Explanation),
				"", m.SourceColumn, candidateTargets(col.Candidates)...)
		}

		for _, c := range m.Conflicts {
			var hints []string
			if c.SuggestedResolution != "" {
				hints = append(hints, c.SuggestedResolution)
			}

			dp.Diagnostics.AddWarning("override_conflict",
				fmt.Sprintf("column %q: %s", m.SourceColumn, c.Description),
				strings.Join(c.OverrideIDs, ","), m.SourceColumn, hints...)
		}

		if m.TargetField != "" {
			if prev, ok := targets[m.TargetField]; ok {
				dp.Diagnostics.AddWarning("duplicate_target",
					fmt.Sprintf("columns %q and %q both map to %q", prev, m.SourceColumn, m.TargetField),
					m.OverrideID, m.SourceColumn)
			} else {
				targets[m.TargetField] = m.SourceColumn
			}
		}

		dp.Columns = append(dp.Columns, col)
	}

	for _, f := range p.mapper.Fields() {
		if !f.Required || !p.appliesTo(f, ctx.DocumentType) {
			continue
		}

		if _, ok := targets[f.Target]; !ok {
			dp.MissingRequired = append(dp.MissingRequired, f.Target)
			dp.Diagnostics.AddError("missing_required",
				fmt.Sprintf("required field %q is not mapped by any column", f.Target), "", "")
		}
	}

	p.logger.Debug("planned document",
		zap.String("document", doc.Name),
		zap.String("document_type", ctx.DocumentType),
		zap.Int("columns", len(dp.Columns)),
		zap.Int("unmapped", len(dp.Unmapped())),
		zap.Int("missing_required", len(dp.MissingRequired)))

	return dp
}

// appliesTo reports whether a catalog field belongs to the document type.
// Custom fields and untyped documents match everything.
func (p *Planner) appliesTo(f match.FieldDef, documentType string) bool {
	if f.SourceType == match.SourceCustom || documentType == "" {
		return true
	}

	st, ok := match.ParseSourceType(documentType)

	return !ok || st == match.SourceCustom || st == f.SourceType
}

func (p *Planner) unmappedReason(candidates match.CandidateList) string {
	switch {
	case len(candidates) >= 2 && candidates.IsAmbiguous(p.config.AmbiguityThreshold):
		return fmt.Sprintf("ambiguous: top candidates %q (%.2f) and %q (%.2f) are too close",
			candidates[0].Field.Target, candidates[0].Score,
			candidates[1].Field.Target, candidates[1].Score)
	case len(candidates) > 0:
		return fmt.Sprintf("best match %q (%.2f) below threshold %.2f",
			candidates[0].Field.Target, candidates[0].Score, p.mapper.MinConfidence())
	default:
		return "no similar catalog field"
	}
}

func candidateTargets(c match.CandidateList) []string {
	out := make([]string, 0, len(c))
	for _, cand := range c {
		out = append(out, cand.Field.Target)
	}

	return out
}

// PlanDocuments plans every document concurrently. Plans are returned in
// input order. Cancelling ctx stops documents not yet started.
func (p *Planner) PlanDocuments(ctx context.Context, docs []Document) ([]*DocumentPlan, error) {
	plans := make([]*DocumentPlan, len(docs))

	g, gctx := errgroup.WithContext(ctx)

	limit := p.config.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g.SetLimit(limit)

	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrapf(err, "planning %s", docs[i].Name)
			}

			plans[i] = p.Plan(docs[i])

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return plans, nil
}
