package match

// ColumnMatch is the base mapper's answer for one source column.
type ColumnMatch struct {
	SourceColumn string
	TargetField  string
	Confidence   float64
	SourceType   SourceType
	Required     bool
	ExactMatch   bool
}

// ColumnMapper maps document headers to catalog fields: an exact header
// lookup first, then threshold-gated fuzzy matching.
type ColumnMapper struct {
	fields        []FieldDef
	exact         map[string]*FieldDef
	minConfidence float64
}

// NewColumnMapper builds the lookup structures for a field catalog.
// A non-positive minConfidence selects DefaultMinScore.
// When two fields claim the same header, the first one wins.
func NewColumnMapper(fields []FieldDef, minConfidence float64) *ColumnMapper {
	if minConfidence <= 0 {
		minConfidence = DefaultMinScore
	}

	m := &ColumnMapper{
		fields:        append([]FieldDef(nil), fields...),
		exact:         make(map[string]*FieldDef),
		minConfidence: minConfidence,
	}

	for i := range m.fields {
		f := &m.fields[i]
		for _, col := range f.Columns {
			key := FoldHeader(col)
			if _, ok := m.exact[key]; !ok {
				m.exact[key] = f
			}
		}
	}

	return m
}

// MinConfidence returns the fuzzy acceptance threshold.
func (m *ColumnMapper) MinConfidence() float64 {
	return m.minConfidence
}

// Fields returns the catalog.
func (m *ColumnMapper) Fields() []FieldDef {
	return m.fields
}

// MapColumn returns the mapping for a single header, or false when neither an
// exact nor a sufficiently confident fuzzy candidate exists.
func (m *ColumnMapper) MapColumn(header string) (ColumnMatch, bool) {
	if f, ok := m.exact[FoldHeader(header)]; ok {
		return ColumnMatch{
			SourceColumn: header,
			TargetField:  f.Target,
			Confidence:   1.0,
			SourceType:   f.SourceType,
			Required:     f.Required,
			ExactMatch:   true,
		}, true
	}

	best := RankCandidates(header, m.fields).AboveThreshold(m.minConfidence).Best()
	if best == nil {
		return ColumnMatch{}, false
	}

	return ColumnMatch{
		SourceColumn: header,
		TargetField:  best.Field.Target,
		Confidence:   best.Score,
		SourceType:   best.Field.SourceType,
		Required:     best.Field.Required,
	}, true
}

// MapColumns maps every header; unmatched headers are omitted.
func (m *ColumnMapper) MapColumns(headers []string) []ColumnMatch {
	results := make([]ColumnMatch, 0, len(headers))

	for _, h := range headers {
		if cm, ok := m.MapColumn(h); ok {
			results = append(results, cm)
		}
	}

	return results
}

// Suggestions returns up to n ranked candidates for a header regardless of
// the acceptance threshold, for "did you mean" reporting.
func (m *ColumnMapper) Suggestions(header string, n int) CandidateList {
	return RankCandidates(header, m.fields).AboveThreshold(suggestionFloor).Top(n)
}

const suggestionFloor = 0.3
