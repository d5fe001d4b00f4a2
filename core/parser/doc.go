// Package parser extracts schema-conforming records from raw LLM text
// output. Because language models frequently wrap JSON in narrative prose,
// markdown code fences, or comments, or cut it off mid-token at a length
// limit, this package applies a layered recovery cascade — block isolation,
// text normalization, truncation repair, structural decoding with
// schema-driven healing, and finally regex-based semantic extraction over
// the original text — before giving up with a [ParsingError].
//
// The main entry point is [Parser.Parse]. A [Parser] compiles its pattern
// set once at construction and is safe for concurrent use.
package parser
