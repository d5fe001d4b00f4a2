// Package schema defines the record schemas the parser validates against.
// A schema is an ordered set of named fields, each carrying an expected
// [Kind] (string, int, float, bool, list, dict, or any). Every field is
// mandatory: a record that is missing a declared field does not validate.
//
// Schemas are immutable once constructed. Build them programmatically with
// [New], or from a user-supplied definition with [FromJSON], [FromYAML], or
// [FromTypeMap], which all map type names like "str" and "int" onto kinds
// and default unrecognized names to [Any].
package schema
