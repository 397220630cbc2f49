// Package compose rewrites docker-compose files in place, one line at a time.
//
// The rewriter never builds a YAML tree. A Tracker follows just enough of the
// file's structure to know which service a line belongs to, an Editor adds or
// removes the exposed ingest port block, and an ordered table of Rules swaps
// values on lines that carry a known key. Lines no rule touches are written
// back byte for byte.
//
// The pieces, leaves first:
//
//	DetectIndent   infers the whitespace of one nesting level
//	Tracker        state machine: before services, in services, in service S
//	Rule table     DefaultRules, first match wins
//	Editor         idempotent upsert of the ports block
//	Pipeline       tracker + editor + rules for one file
//	Rewriter       stream a file through a Pipeline, replace it, keep its owner
//
// A Pipeline and its ParserState live for exactly one file. Settings are
// shared read-only across every file in a run.
package compose
