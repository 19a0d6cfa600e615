package schema

import (
	"sort"
	"strings"

	apperrors "github.com/mialing7/pricing-dashboard/internal/errors"
)

// Mapping records where each canonical field was found in a source header.
type Mapping struct {
	columns map[Field]int
}

// Column returns the source column index for the field.
func (m Mapping) Column(f Field) (int, bool) {
	idx, ok := m.columns[f]
	return idx, ok
}

// HasAmount reports whether the optional pre-computed amount column resolved.
func (m Mapping) HasAmount() bool {
	_, ok := m.columns[FieldAmount]
	return ok
}

// Normalizer resolves raw spreadsheet headers against an alias table.
// Resolution is a pure lookup: a trimmed column name either matches one
// canonical field or stays unmatched.
type Normalizer struct {
	aliases AliasTable
	lookup  map[string]Field
}

// NewNormalizer builds a normalizer for the given alias table.
func NewNormalizer(aliases AliasTable) *Normalizer {
	lookup := make(map[string]Field)
	for field, names := range aliases {
		for _, name := range names {
			lookup[name] = field
		}
		// Canonical names resolve to themselves so an already-normalized
		// header is a no-op.
		lookup[field.String()] = field
	}
	return &Normalizer{aliases: aliases, lookup: lookup}
}

// Resolve maps one trimmed column name to a canonical field.
func (n *Normalizer) Resolve(name string) (Field, bool) {
	field, ok := n.lookup[strings.TrimSpace(name)]
	return field, ok
}

// Normalize resolves a full header row. The first column matching a field
// wins; later duplicates are ignored. If any required field is missing the
// whole header is rejected with a SchemaError listing the missing canonical
// names and every alias set that was searched.
func (n *Normalizer) Normalize(header []string) (Mapping, error) {
	columns := make(map[Field]int)
	for i, name := range header {
		field, ok := n.Resolve(name)
		if !ok {
			continue
		}
		if _, seen := columns[field]; seen {
			continue
		}
		columns[field] = i
	}

	var missing []string
	for _, field := range []Field{FieldUnitPrice, FieldQuantity, FieldPartner} {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field.String())
		}
	}
	if len(missing) > 0 {
		return Mapping{}, &apperrors.SchemaError{
			Missing:  missing,
			Searched: n.searchedAliases(),
		}
	}
	return Mapping{columns: columns}, nil
}

func (n *Normalizer) searchedAliases() map[string][]string {
	searched := make(map[string][]string, len(n.aliases))
	for field, names := range n.aliases {
		if !field.Required() {
			continue
		}
		searched[field.String()] = append([]string(nil), names...)
	}
	for _, names := range searched {
		sort.Strings(names)
	}
	return searched
}
