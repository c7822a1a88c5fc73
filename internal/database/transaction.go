package database

import "fmt"

// StatementKind tells the executor what a statement returns.
type StatementKind int

const (
	// KindExecute runs DDL or other SQL without bind values.
	KindExecute StatementKind = iota + 1
	// KindRun runs a write with bind values and returns no rows.
	KindRun
	// KindStep runs a read and collects its rows into the Result.
	KindStep
)

func (k StatementKind) String() string {
	switch k {
	case KindExecute:
		return "execute"
	case KindRun:
		return "run"
	case KindStep:
		return "step"
	default:
		return fmt.Sprintf("StatementKind(%d)", int(k))
	}
}

// ColumnType is the type of a bound value or result column.
type ColumnType int

const (
	ColumnInt64 ColumnType = iota + 1
	ColumnString
)

// Value is a typed column value.
type Value struct {
	Type   ColumnType
	Int64  int64
	String string
}

// Int64Value returns an INTEGER value.
func Int64Value(v int64) Value {
	return Value{Type: ColumnInt64, Int64: v}
}

// StringValue returns a TEXT value.
func StringValue(v string) Value {
	return Value{Type: ColumnString, String: v}
}

func (v Value) arg() any {
	if v.Type == ColumnInt64 {
		return v.Int64
	}
	return v.String
}

// Statement is one SQL statement inside a Transaction.
type Statement struct {
	Kind StatementKind
	SQL  string

	// Binds are positional values for the ? placeholders in SQL.
	Binds []Value

	// ColumnTypes describes the result columns of a KindStep statement,
	// in SELECT order.
	ColumnTypes []ColumnType
}

// BindInt64 appends an INTEGER bind value.
func (s *Statement) BindInt64(v int64) {
	s.Binds = append(s.Binds, Int64Value(v))
}

// BindString appends a TEXT bind value.
func (s *Statement) BindString(v string) {
	s.Binds = append(s.Binds, StringValue(v))
}

func (s *Statement) args() []any {
	if len(s.Binds) == 0 {
		return nil
	}
	args := make([]any, len(s.Binds))
	for i, b := range s.Binds {
		args[i] = b.arg()
	}
	return args
}

// Transaction is an ordered list of statements executed atomically.
type Transaction struct {
	Statements []Statement
}

// Execute appends a statement without bind values, typically DDL.
func (t *Transaction) Execute(sql string) {
	t.Statements = append(t.Statements, Statement{Kind: KindExecute, SQL: sql})
}

// Add appends a prepared statement.
func (t *Transaction) Add(stmt Statement) {
	t.Statements = append(t.Statements, stmt)
}

// Row is one result row; values follow the statement's ColumnTypes.
type Row []Value

// ColumnInt64 returns the INTEGER at column i.
func (r Row) ColumnInt64(i int) int64 {
	return r[i].Int64
}

// ColumnString returns the TEXT at column i.
func (r Row) ColumnString(i int) string {
	return r[i].String
}

// Result carries the rows of the last KindStep statement in a transaction.
// Rows is empty, not nil, when the read matched nothing.
type Result struct {
	Rows []Row
}
