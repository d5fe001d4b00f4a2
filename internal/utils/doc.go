// Package utils provides shared low-level helpers used throughout the
// phoenix internals: JSON-to-string serialisation that is always safe to
// embed in log output, and string truncation for bounding diagnostic
// snippets carried inside errors.
package utils
