package contact

// Synthetic field names added by linking mode.
const (
	FieldMatch     = "match"
	FieldCertainty = "certainty"
)

// IsSynthetic reports whether name is one of the deduplication annotations.
func IsSynthetic(name string) bool {
	return name == FieldMatch || name == FieldCertainty
}

// Field is a single named value.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered, immutable collection of fields. The zero value is an
// empty record. Field names are unique within a record.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in the order given. A repeated name
// keeps its first position and takes the later value.
func NewRecord(fields ...Field) Record {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if i := indexOf(out, f.Name); i >= 0 {
			out[i].Value = f.Value
			continue
		}
		out = append(out, f)
	}
	return Record{fields: out}
}

// FromPairs builds a record from alternating name/value arguments. A trailing
// name without a value is ignored.
func FromPairs(pairs ...string) Record {
	fields := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields = append(fields, Field{Name: pairs[i], Value: pairs[i+1]})
	}
	return NewRecord(fields...)
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Empty reports whether the record has no fields at all.
func (r Record) Empty() bool {
	return len(r.fields) == 0
}

// Get returns the value of name and whether the field exists.
func (r Record) Get(name string) (string, bool) {
	if i := indexOf(r.fields, name); i >= 0 {
		return r.fields[i].Value, true
	}
	return "", false
}

// Value returns the value of name, or "" when absent.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Has reports whether the field exists, even with an empty value.
func (r Record) Has(name string) bool {
	return indexOf(r.fields, name) >= 0
}

// Fields returns a copy of the record's fields in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Names returns the field names in order.
func (r Record) Names() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Name
	}
	return out
}

// With returns a copy of r with name set to value. Existing fields keep their
// position; new fields are appended.
func (r Record) With(name, value string) Record {
	out := make([]Field, len(r.fields), len(r.fields)+1)
	copy(out, r.fields)
	if i := indexOf(out, name); i >= 0 {
		out[i].Value = value
	} else {
		out = append(out, Field{Name: name, Value: value})
	}
	return Record{fields: out}
}

// Without returns a copy of r with the named fields removed.
func (r Record) Without(names ...string) Record {
	out := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		drop := false
		for _, n := range names {
			if f.Name == n {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, f)
		}
	}
	return Record{fields: out}
}

// Equal reports whether both records hold the same fields in the same order.
func (r Record) Equal(other Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i := range r.fields {
		if r.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

func indexOf(fields []Field, name string) int {
	for i := range fields {
		if fields[i].Name == name {
			return i
		}
	}
	return -1
}
