// Package dictscan provides byte-precise, position-preserving edits on PDF
// dictionary and array fragments ("<< ... >>" and "[ ... ]" byte slices). It
// never parses a whole PDF object graph; every function here operates on a
// slice the caller has already located (a field dictionary body, a page's
// /Annots array, and so on) and returns a new slice with the minimal region
// replaced, so formatting and unrelated entries survive untouched.
//
// This mirrors the regex-and-manual-scan style the teacher library uses
// throughout forms/acroform/parser.go and core/write/writer.go#formatValue:
// quick regexp lookups to find candidate positions, then hand-written
// balanced-delimiter scanning to compute exact spans, because PDF dictionary
// values can themselves be nested dictionaries, arrays, or parenthesized
// strings that a naive regex can't bound correctly.
package dictscan
