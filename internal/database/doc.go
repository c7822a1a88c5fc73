// Package database is the transactional relational store adapter.
//
// Callers describe work as a Transaction: an ordered list of Statements,
// each carrying parameterized SQL, typed bind values and, for reads, the
// types of the result columns. An Executor runs the whole transaction
// atomically and returns the rows of the read statement.
//
// Two executors are provided:
//   - Engine: SQLite (mattn/go-sqlite3) with WAL, a single connection and
//     schema migrations driven by PRAGMA user_version
//   - Queue: a single-writer goroutine in front of another Executor that
//     hands each caller a one-shot result channel
//
// # Critical Patterns
//
// Values are always bound, never interpolated into SQL text.
//
// A transaction is all-or-nothing. Any statement error rolls back every
// earlier statement in the same transaction.
//
// A nil transaction is a programming error and panics.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package database
