// Package report renders dedupe results for people and machines.
//
// Build turns a dedupe.Result into a Document; Render writes it as a
// go-pretty table, JSON, or YAML. The table form is what a dry run prints:
// every pair that would be merged plus a preview of each merged contact
// with the values first-wins resolution would drop.
package report
