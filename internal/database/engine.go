package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/adhistory/internal/telemetry"
)

// Executor runs a transaction atomically.
//
// On success the Result holds the rows of the last KindStep statement (an
// empty slice when there was none or it matched nothing). On failure the
// Result is nil and no statement of the transaction is visible.
type Executor interface {
	Execute(ctx context.Context, tx *Transaction) (*Result, error)
}

// Engine executes transactions against a SQLite database.
type Engine struct {
	db      *sql.DB
	metrics *telemetry.Metrics
	logger  *slog.Logger
	tables  []Table
}

// Option configures an Engine.
type Option func(*Engine)

// WithTables registers the tables whose schema the engine creates and
// migrates on Open. Tables are created and migrated in the given order.
func WithTables(tables ...Table) Option {
	return func(e *Engine) {
		e.tables = append(e.tables, tables...)
	}
}

// WithMetrics records transaction counts and durations.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrates registered tables automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	e.db = db

	if err := e.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return e, nil
}

// Close closes the database connection.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Execute.
func (e *Engine) DB() *sql.DB {
	return e.db
}

// Execute implements Executor.
//
// Panics if tx is nil.
func (e *Engine) Execute(ctx context.Context, tx *Transaction) (*Result, error) {
	if tx == nil {
		panic("database: nil transaction")
	}

	start := time.Now()
	result, err := e.execute(ctx, tx)
	if err != nil {
		e.metrics.ObserveTransaction(telemetry.OutcomeRolledBack, time.Since(start))
		e.logger.DebugContext(ctx, "transaction rolled back", "statements", len(tx.Statements), "error", err)
		return nil, err
	}
	e.metrics.ObserveTransaction(telemetry.OutcomeCommitted, time.Since(start))
	return result, nil
}

func (e *Engine) execute(ctx context.Context, tx *Transaction) (*Result, error) {
	sqlTx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &Error{Code: ErrCodeTransactionFailed, Op: "begin", Err: err}
	}
	defer sqlTx.Rollback() // No-op if committed

	result := &Result{Rows: []Row{}}

	for i := range tx.Statements {
		stmt := &tx.Statements[i]
		switch stmt.Kind {
		case KindExecute, KindRun:
			if _, err := sqlTx.ExecContext(ctx, stmt.SQL, stmt.args()...); err != nil {
				return nil, statementError(i, stmt, err)
			}
		case KindStep:
			rows, err := step(ctx, sqlTx, stmt)
			if err != nil {
				return nil, statementError(i, stmt, err)
			}
			result.Rows = rows
		default:
			return nil, statementError(i, stmt, fmt.Errorf("unsupported statement kind"))
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return nil, &Error{Code: ErrCodeTransactionFailed, Op: "commit", Err: err}
	}

	return result, nil
}

func statementError(i int, stmt *Statement, err error) *Error {
	return &Error{
		Code: ErrCodeStatementFailed,
		Op:   fmt.Sprintf("statement %d (%s)", i, stmt.Kind),
		Err:  err,
	}
}

// step runs a read statement and scans every row according to its
// ColumnTypes.
func step(ctx context.Context, sqlTx *sql.Tx, stmt *Statement) ([]Row, error) {
	rows, err := sqlTx.QueryContext(ctx, stmt.SQL, stmt.args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(columns) != len(stmt.ColumnTypes) {
		return nil, fmt.Errorf("query returned %d columns, %d column types bound", len(columns), len(stmt.ColumnTypes))
	}

	out := []Row{}
	for rows.Next() {
		row, err := scanRow(rows, stmt.ColumnTypes)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// scanRow scans one row into typed values.
func scanRow(rows *sql.Rows, types []ColumnType) (Row, error) {
	ints := make([]int64, len(types))
	strs := make([]string, len(types))
	dest := make([]any, len(types))
	for i, t := range types {
		switch t {
		case ColumnInt64:
			dest[i] = &ints[i]
		case ColumnString:
			dest[i] = &strs[i]
		default:
			return nil, fmt.Errorf("unsupported column type %d at column %d", t, i)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := make(Row, len(types))
	for i, t := range types {
		if t == ColumnInt64 {
			row[i] = Int64Value(ints[i])
		} else {
			row[i] = StringValue(strs[i])
		}
	}
	return row, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (e *Engine) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := e.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
