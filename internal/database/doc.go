// Package database glues the statement builders to a driver connection.
//
// A Database owns the first Handle on a shared connection. Statements,
// Tables and Writers each hold their own clone, so the connection stays
// open until every one of them, and the Database, has been closed.
//
// Compile and driver errors are returned unchanged, so callers can use
// statement.IsFieldNotSet and driver.IsKind on them. The only recovery
// performed is the optional write retry of a Writer.
package database
