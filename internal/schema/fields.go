package schema

// Field identifies a canonical column in the normalized trade table.
type Field int

const (
	FieldUnknown Field = iota
	FieldUnitPrice
	FieldQuantity
	FieldPartner
	FieldAmount
)

// String returns the canonical column name for the field.
func (f Field) String() string {
	switch f {
	case FieldUnitPrice:
		return "unit_price"
	case FieldQuantity:
		return "quantity"
	case FieldPartner:
		return "partner"
	case FieldAmount:
		return "revenue_currency_amount"
	default:
		return "unknown"
	}
}

// Required reports whether the field must be present after normalization.
// The pre-computed monetary amount column is consumed opportunistically.
func (f Field) Required() bool {
	switch f {
	case FieldUnitPrice, FieldQuantity, FieldPartner:
		return true
	default:
		return false
	}
}

// AliasTable maps each canonical field to the source column spellings that
// resolve to it. Matching is exact and case-sensitive after trimming.
type AliasTable map[Field][]string

// DefaultAliases returns the built-in alias table. Callers may extend the
// returned table via configuration before constructing a Normalizer.
func DefaultAliases() AliasTable {
	return AliasTable{
		FieldUnitPrice: {
			"unit price per ton", "price per ton", "unit price",
			"price", "Price", "Unit Price",
		},
		FieldQuantity: {
			"second quantity", "quantity", "Qty", "Quantity", "Sales Qty",
		},
		FieldPartner: {
			"trade partner name", "country", "Country", "Partner",
		},
		FieldAmount: {
			"amount", "Amount", "total amount", "Total Amount",
			"sales amount", "Sales Amount", "Traded Value",
		},
	}
}

// Extend returns a copy of the table with extra aliases appended per field.
func (t AliasTable) Extend(extra AliasTable) AliasTable {
	merged := make(AliasTable, len(t))
	for field, aliases := range t {
		merged[field] = append([]string(nil), aliases...)
	}
	for field, aliases := range extra {
		merged[field] = append(merged[field], aliases...)
	}
	return merged
}
