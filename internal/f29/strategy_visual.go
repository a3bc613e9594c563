package f29

import (
	"regexp"
	"strings"
)

// columnSeparator splits rendered table rows into cells
var columnSeparator = regexp.MustCompile(`\s{2,}|\t+`)

var tableHeaderMarkers = []string{"CODIGO", "GLOSA", "VALOR"}

// VisualTableStrategy reads rendered "Código / Glosa / Valor" tables, where
// every row carries the code, its label and the value in separate columns.
type VisualTableStrategy struct {
	catalog *Catalog
	fields  []FieldSpec
}

// NewVisualTableStrategy creates a visual-table strategy over cat
func NewVisualTableStrategy(cat *Catalog) *VisualTableStrategy {
	return &VisualTableStrategy{catalog: cat, fields: cat.Coded()}
}

func (s *VisualTableStrategy) Name() string { return StrategyVisualTable }

func (s *VisualTableStrategy) Rank() int { return rankVisualTable }

func (s *VisualTableStrategy) Extract(doc Document) []Candidate {
	if doc.Text == "" {
		return nil
	}

	lines := splitLines(doc.Text)
	best := newBestValues()
	for _, block := range tabularBlocks(lines) {
		for _, line := range lines[block.start:block.end] {
			cols := columnSeparator.Split(strings.TrimSpace(line), -1)
			if len(cols) < 3 {
				continue
			}
			spec, ok := s.match(strings.TrimSpace(cols[0]), Fold(cols[1]))
			if !ok {
				continue
			}
			best.offer(spec, interpret(spec, cols[2], false))
		}
	}
	return best.candidates(StrategyVisualTable)
}

// match resolves a row by exact code first, then by label containment
func (s *VisualTableStrategy) match(code, foldedLabel string) (FieldSpec, bool) {
	if spec, ok := s.catalog.ByCode(code); ok {
		return spec, true
	}
	for _, spec := range s.fields {
		if s.catalog.matchesLabel(spec.ID, foldedLabel) {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

type lineRange struct {
	start, end int
}

// tabularBlocks returns the blank-line separated blocks whose text carries
// every table header marker
func tabularBlocks(lines []string) []lineRange {
	var blocks []lineRange
	flush := func(start, end int) {
		if start >= end {
			return
		}
		folded := Fold(strings.Join(lines[start:end], "\n"))
		for _, marker := range tableHeaderMarkers {
			if !strings.Contains(folded, marker) {
				return
			}
		}
		blocks = append(blocks, lineRange{start: start, end: end})
	}

	start := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush(start, i)
			start = i + 1
		}
	}
	flush(start, len(lines))
	return blocks
}

// maskTabularBlocks blanks every line that belongs to a rendered table so
// that line and pattern scanners leave those rows to the visual-table reader.
// The number of lines is preserved.
func maskTabularBlocks(text string) string {
	lines := splitLines(text)
	blocks := tabularBlocks(lines)
	if len(blocks) == 0 {
		return text
	}
	for _, b := range blocks {
		for i := b.start; i < b.end; i++ {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
