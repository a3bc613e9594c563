package f29

import "strings"

// BinaryStrategy works on the raw bytes of the source file, for documents
// whose text layer is missing or mangled. It decodes the bytes as Latin-1
// with arrays and dictionaries blanked, adds the text of any inflatable
// content streams, and runs the code-anchored matchers over that view with
// the table amount floor. Known values are consulted only for fields the
// matchers did not find.
type BinaryStrategy struct {
	catalog *Catalog
	scanner *LabelPatternStrategy
	known   KnownValues
}

// NewBinaryStrategy creates a binary strategy. known may be nil.
func NewBinaryStrategy(cat *Catalog, known KnownValues) *BinaryStrategy {
	return &BinaryStrategy{
		catalog: cat,
		scanner: newCodePatternScanner(cat),
		known:   known,
	}
}

func (s *BinaryStrategy) Name() string { return StrategyBinary }

func (s *BinaryStrategy) Rank() int { return rankBinary }

func (s *BinaryStrategy) Extract(doc Document) []Candidate {
	if len(doc.Raw) == 0 {
		return nil
	}

	decoded := decodeLatin1(blankObjectSyntax(doc.Raw))
	view := decoded
	if streams := contentStreamText(doc.Raw); streams != "" {
		view = decoded + "\n" + streams
	}

	best := s.scanner.scan(Fold(view))
	for _, id := range s.known.fieldIDs() {
		spec, ok := s.catalog.Lookup(id)
		if !ok || best.has(id) {
			continue
		}
		for _, v := range s.known[id] {
			if strings.Contains(view, v) {
				best.offer(spec, AmountValue(ParseAmount(v)))
			}
		}
	}
	return best.candidates(StrategyBinary)
}
