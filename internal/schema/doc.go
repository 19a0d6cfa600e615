// Package schema maps arbitrary spreadsheet column names onto the canonical
// trade-record fields through a versioned alias table. Resolution is exact
// and case-sensitive after whitespace trimming; an unresolved required field
// rejects the whole header.
package schema
