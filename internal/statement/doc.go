// Package statement builds SQL statements through fluent builders and
// compiles them to the fixed target dialect: backtick-quoted identifiers,
// `?` positional placeholders and the BLOB/REAL/INTEGER/TEXT type keywords.
//
// Builders accumulate intent and never validate in setters. Compile checks
// required fields and consumes the builder: every field is taken on the
// first Compile, so a second Compile fails with a FieldNotSetError.
//
// Identifiers are wrapped in backticks verbatim. Embedded backticks are not
// escaped.
package statement
