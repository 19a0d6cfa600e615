package errors

import (
	"fmt"
	"sort"
	"strings"
)

// FileReadError reports input bytes that could not be decoded or parsed under
// any attempted encoding/format. The pipeline halts before normalization.
type FileReadError struct {
	Name      string   // source file name
	Encodings []string // decode attempts, in order
	Err       error    // last underlying cause
}

// Error implements the error interface.
func (e *FileReadError) Error() string {
	if len(e.Encodings) > 0 {
		return fmt.Sprintf("read %s: tried encodings [%s]: %v",
			e.Name, strings.Join(e.Encodings, ", "), e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FileReadError) Unwrap() error {
	return e.Err
}

// SchemaError reports canonical columns that stayed unresolved after alias
// mapping. Searched carries the full alias set per required canonical field
// so the caller can show what was looked for.
type SchemaError struct {
	Missing  []string
	Searched map[string][]string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	fields := make([]string, 0, len(e.Searched))
	for name := range e.Searched {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var b strings.Builder
	fmt.Fprintf(&b, "missing required columns: %s (searched", strings.Join(e.Missing, ", "))
	for i, name := range fields {
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " %s: [%s]", name, strings.Join(e.Searched[name], ", "))
	}
	b.WriteString(")")
	return b.String()
}

// EmptyResultError reports a working set that became empty after cleaning or
// a filter stage, leaving nothing to aggregate. It is non-fatal to the
// session: downstream panels are skipped for the run and the caller may
// loosen filters and retry.
type EmptyResultError struct {
	Stage string
}

// Error implements the error interface.
func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no records remain after stage %q", e.Stage)
}
