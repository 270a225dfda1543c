// Package dedupe finds contact records that refer to the same person and
// either links or merges them.
//
// The pipeline runs as one synchronous batch over an in-memory contact.Set:
//
//  1. Each record is reduced to a profile of normalized phone numbers, email
//     addresses, and full name (see textutil).
//  2. Every pair of records is scored by the Scorer. Per-field fuzzy ratios
//     are averaged over the fields that carry signal on both sides; a pair
//     with no shared signal scores 0.
//  3. Pairs scoring at or above the threshold become edges, and union-find
//     turns the edges into a Partition. Grouping is transitive: A~B and B~C
//     put A, B and C in one cluster even when A~C is below the threshold.
//  4. The resolver either annotates each record with its cluster identifier
//     and best score (ModeLink) or folds every cluster into one record
//     (ModeMerge). Merge conflicts resolve first-non-empty-wins in input
//     order; losing values are kept as Alternatives on the MergedRecord.
//
// Inputs are never mutated. Engine.Run returns freshly built records, and a
// dry-run merge returns the input records unchanged alongside a list of
// Proposals.
//
// Pairwise scoring may be spread across workers (WithWorkers). Workers only
// read the immutable profile slice; union-find is applied by the caller
// goroutine in row order, so results do not depend on the worker count.
package dedupe
