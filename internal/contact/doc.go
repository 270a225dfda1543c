// Package contact defines the canonical in-memory contact shape shared by the
// importers, the deduplication engine, and the exporters.
//
// A Record is an immutable, ordered list of named string fields. A Set pairs
// the records of one input with their FieldOrder: the first-encountered order
// of field names across every record. The order is carried as an explicit
// value so exporters can reproduce the source column and property layout
// without consulting global state.
//
// The synthetic fields written by linking mode (match and certainty) never
// appear in a FieldOrder; exporters place or drop them explicitly.
package contact
