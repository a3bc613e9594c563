package f29

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// KnownValues lists, per field ID, exact amount strings previously observed in
// real declarations. A verbatim hit in raw bytes is last-resort evidence.
type KnownValues map[string][]string

// ParseKnownValues decodes a YAML document of the form
//
//	code538:
//	  - "3.410.651"
func ParseKnownValues(data []byte) (KnownValues, error) {
	var kv KnownValues
	if err := yaml.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("failed to parse known values: %w", err)
	}

	for id, values := range kv {
		cleaned := values[:0]
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cleaned = append(cleaned, v)
			}
		}
		if len(cleaned) == 0 {
			delete(kv, id)
			continue
		}
		kv[id] = cleaned
	}
	return kv, nil
}

// Validate checks that every entry names a numeric catalog field and parses to a positive amount
func (kv KnownValues) Validate(cat *Catalog) error {
	for _, id := range kv.fieldIDs() {
		spec, ok := cat.Lookup(id)
		if !ok {
			return fmt.Errorf("known values: unknown field %q", id)
		}
		if spec.Kind != KindAmount && spec.Kind != KindCount {
			return fmt.Errorf("known values: field %q is not numeric", id)
		}
		for _, v := range kv[id] {
			if ParseAmount(v) <= 0 {
				return fmt.Errorf("known values: %q is not an amount for %s", v, id)
			}
		}
	}
	return nil
}

// fieldIDs returns the field IDs in sorted order
func (kv KnownValues) fieldIDs() []string {
	ids := make([]string, 0, len(kv))
	for id := range kv {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
