// Package textutil provides the text canonicalization and fuzzy similarity
// primitives used to compare contact fields.
//
// The primary use cases are:
//   - Normalizing phone numbers, email addresses, and full names into a
//     comparable form (NormalizePhone, NormalizeEmail, NormalizeName)
//   - Splitting multi-valued fields joined with semicolons (SplitValues)
//   - Scoring two strings on a 0-100 scale (Ratio, TokenSetRatio)
//
// Normalizers are pure functions. An empty normalized value means the field
// carries no signal and must be left out of any aggregate score rather than
// counted as a mismatch.
package textutil
