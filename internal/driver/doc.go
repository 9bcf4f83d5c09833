// Package driver defines the seam between the statement compiler and a
// storage backend.
//
// A Driver opens a Connection. A Connection runs unparameterized text
// directly (Execute) or compiles it once into a reusable Prepared statement.
// A Prepared statement is bound positionally, executed, and read row by row:
//
//	Created --Execute--> Ready (rows buffered) | Done
//	Ready   --Next-----> one Record, stays Ready until exhausted, then Done
//	Done    --Execute--> Ready | Done (reusable)
//
// Connections are shared through a reference-counted Handle and closed when
// the last holder releases it. No locking is provided: a Connection and its
// Prepared statements must not be used from several goroutines at once.
package driver
