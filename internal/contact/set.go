package contact

// FieldOrder lists field names in first-encountered order.
type FieldOrder []string

// ComputeFieldOrder walks records in order and collects each field name the
// first time it appears. Synthetic fields are skipped.
func ComputeFieldOrder(records []Record) FieldOrder {
	seen := make(map[string]struct{})
	order := make(FieldOrder, 0)
	for _, r := range records {
		for _, f := range r.fields {
			if IsSynthetic(f.Name) {
				continue
			}
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			order = append(order, f.Name)
		}
	}
	return order
}

// Contains reports whether name is part of the order.
func (o FieldOrder) Contains(name string) bool {
	for _, n := range o {
		if n == name {
			return true
		}
	}
	return false
}

// Set is one imported batch of records with its field order.
type Set struct {
	Records []Record
	Fields  FieldOrder
}

// NewSet copies records into a Set and computes their field order.
func NewSet(records []Record) Set {
	cp := make([]Record, len(records))
	copy(cp, records)
	return Set{Records: cp, Fields: ComputeFieldOrder(cp)}
}

// Len returns the number of records.
func (s Set) Len() int {
	return len(s.Records)
}
