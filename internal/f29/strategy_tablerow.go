package f29

// TableRowStrategy reads the form line by line, taking the largest plausible
// number on any line that names a field by code or label.
type TableRowStrategy struct {
	catalog *Catalog
	fields  []FieldSpec
}

// NewTableRowStrategy creates a table-row strategy over cat
func NewTableRowStrategy(cat *Catalog) *TableRowStrategy {
	var fields []FieldSpec
	for _, f := range cat.Coded() {
		if f.Kind == KindRate {
			continue
		}
		fields = append(fields, f)
	}
	return &TableRowStrategy{catalog: cat, fields: fields}
}

func (s *TableRowStrategy) Name() string { return StrategyTableRow }

func (s *TableRowStrategy) Rank() int { return rankTableRow }

func (s *TableRowStrategy) Extract(doc Document) []Candidate {
	if doc.Text == "" {
		return nil
	}

	best := newBestValues()
	for _, line := range splitLines(Fold(maskTabularBlocks(doc.Text))) {
		tokens := numberToken.FindAllString(line, -1)
		if len(tokens) == 0 {
			continue
		}
		for _, spec := range s.fields {
			if !containsCodeToken(line, spec.Code) && !s.catalog.matchesLabel(spec.ID, line) {
				continue
			}
			for _, tok := range tokens {
				best.offer(spec, interpret(spec, tok, true))
			}
		}
	}
	return best.candidates(StrategyTableRow)
}
