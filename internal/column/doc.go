// Package column provides the value model shared by the statement compiler,
// the drivers and the database façade.
//
// This package contains type definitions only. Every other internal package
// imports column; column imports nothing internal.
//
// Key design constraints:
//   - Type and Value have exactly four variants each (binary, float, integer,
//     string), kept in lockstep
//   - Value is a sealed interface; code that needs per-variant behavior
//     implements Visitor so a new variant cannot be silently ignored
//   - No null variant: a SQL NULL read from a backend is an error, never a
//     zero value
package column
