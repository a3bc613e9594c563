package f29

import (
	"regexp"
)

// fieldMatchers holds the compiled matchers of one field
type fieldMatchers struct {
	spec     FieldSpec
	patterns []*regexp.Regexp
}

// LabelPatternStrategy scans the whole text with per-field matchers composed
// from the catalog and keeps the largest value found for each field.
type LabelPatternStrategy struct {
	name       string
	rank       int
	tableFloor bool
	catalog    *Catalog
	matchers   []fieldMatchers
}

// NewLabelPatternStrategy compiles code, label and line-anchored matchers for every coded field
func NewLabelPatternStrategy(cat *Catalog) *LabelPatternStrategy {
	return &LabelPatternStrategy{
		name:     StrategyLabelPattern,
		rank:     rankLabelPattern,
		catalog:  cat,
		matchers: compileMatchers(cat, true),
	}
}

// newCodePatternScanner builds the reduced scanner used over raw bytes: only
// the code-anchored shapes, no label phrases, and the table amount floor.
func newCodePatternScanner(cat *Catalog) *LabelPatternStrategy {
	return &LabelPatternStrategy{
		name:       StrategyBinary,
		rank:       rankBinary,
		tableFloor: true,
		catalog:    cat,
		matchers:   compileMatchers(cat, false),
	}
}

func compileMatchers(cat *Catalog, withLabels bool) []fieldMatchers {
	var out []fieldMatchers
	for _, spec := range cat.Coded() {
		fm := fieldMatchers{spec: spec}
		code := regexp.QuoteMeta(spec.Code)
		// The character after the code may not continue a number, and no
		// shape reads past the end of its line.
		afterInLine := `(?:[^0-9.,\n]|[.,][^0-9\n])`

		fm.patterns = append(fm.patterns,
			regexp.MustCompile(`(?:^|[^0-9.,])`+code+afterInLine+`[^0-9\n]{0,49}?(`+numberPattern+`)`),
			regexp.MustCompile(`(?m)^[ \t]*`+code+afterInLine+`[^\n]*?(`+numberPattern+`)[ \t]*$`),
		)
		if withLabels {
			for _, label := range cat.foldedLabels(spec.ID) {
				fm.patterns = append(fm.patterns,
					regexp.MustCompile(regexp.QuoteMeta(label)+`[^0-9\n]{0,100}(`+numberPattern+`)`))
			}
		}
		out = append(out, fm)
	}
	return out
}

func (s *LabelPatternStrategy) Name() string { return s.name }

func (s *LabelPatternStrategy) Rank() int { return s.rank }

func (s *LabelPatternStrategy) Extract(doc Document) []Candidate {
	if doc.Text == "" {
		return nil
	}
	return s.scan(Fold(maskTabularBlocks(doc.Text))).candidates(s.name)
}

// scan applies every matcher to already folded text
func (s *LabelPatternStrategy) scan(folded string) *bestValues {
	best := newBestValues()
	for _, fm := range s.matchers {
		for _, re := range fm.patterns {
			for _, m := range re.FindAllStringSubmatch(folded, -1) {
				if s.isFormCode(m[1]) {
					continue
				}
				best.offer(fm.spec, interpret(fm.spec, m[1], s.tableFloor))
			}
		}
	}
	return best
}

// isFormCode reports whether a captured token is itself a catalog code, as
// when a row without a value is followed by the next coded row
func (s *LabelPatternStrategy) isFormCode(tok string) bool {
	_, ok := s.catalog.ByCode(tok)
	return ok
}
