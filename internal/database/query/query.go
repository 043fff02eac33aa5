// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"context"
	"database/sql"
	"fmt"
)

// Query represents one SQL statement with positionally bound parameters,
// stepped row by row. Binds are collected before the statement is first
// executed (on Exec or the first Next); positions are zero-based and map
// to the statement's placeholders in order.
type Query struct {
	runner  runner
	sqlText string
	binds   map[int]any
	maxBind int

	rows    *sql.Rows
	cols    []any
	started bool
}

func newQuery(r runner, sqlText string) *Query {
	return &Query{
		runner:  r,
		sqlText: sqlText,
		binds:   make(map[int]any),
		maxBind: -1,
	}
}

// BindInt binds an integer to position.
func (q *Query) BindInt(position int, value int) *Query {
	return q.bind(position, value)
}

// BindDouble binds a double to position.
func (q *Query) BindDouble(position int, value float64) *Query {
	return q.bind(position, value)
}

// BindChars binds a string to position.
func (q *Query) BindChars(position int, value string) *Query {
	return q.bind(position, value)
}

// BindBool binds a boolean to position.
func (q *Query) BindBool(position int, value bool) *Query {
	return q.bind(position, value)
}

func (q *Query) bind(position int, value any) *Query {
	q.binds[position] = value
	if position > q.maxBind {
		q.maxBind = position
	}
	return q
}

func (q *Query) args() []any {
	args := make([]any, q.maxBind+1)
	for pos, val := range q.binds {
		args[pos] = val
	}
	return args
}

// Exec runs the query as a statement with no result rows (insert/update/
// delete/ddl).
func (q *Query) Exec(ctx context.Context) (sql.Result, error) {
	result, err := q.runner.ExecContext(ctx, q.sqlText, q.args()...)
	if err != nil {
		return nil, fmt.Errorf("query: exec: %w", err)
	}
	return result, nil
}

// Next advances to the next row, executing the query on first call.
// It returns false (with a nil error) once there are no more rows.
func (q *Query) Next(ctx context.Context) (bool, error) {
	if !q.started {
		rows, err := q.runner.QueryContext(ctx, q.sqlText, q.args()...)
		if err != nil {
			return false, fmt.Errorf("query: query: %w", err)
		}
		q.rows = rows
		q.started = true

		colTypes, err := rows.ColumnTypes()
		if err != nil {
			return false, fmt.Errorf("query: column types: %w", err)
		}
		q.cols = make([]any, len(colTypes))
	}

	if !q.rows.Next() {
		return false, q.rows.Err()
	}

	scan := make([]any, len(q.cols))
	for i := range scan {
		scan[i] = &q.cols[i]
	}
	if err := q.rows.Scan(scan...); err != nil {
		return false, fmt.Errorf("query: scan: %w", err)
	}

	return true, nil
}

// NextWhile calls fn once per remaining row until Next returns false or fn
// returns an error.
func (q *Query) NextWhile(ctx context.Context, fn func(q *Query) error) error {
	for {
		ok, err := q.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(q); err != nil {
			return err
		}
	}
}

// Reset discards the current result set and binds so the Query can be
// re-executed, without needing to rebuild it. It does not affect an
// enclosing transaction.
func (q *Query) Reset() error {
	if q.rows != nil {
		if err := q.rows.Close(); err != nil {
			return fmt.Errorf("query: reset: close rows: %w", err)
		}
	}
	q.rows = nil
	q.cols = nil
	q.started = false
	q.binds = make(map[int]any)
	q.maxBind = -1
	return nil
}

// AsInt returns the field at position at as an integer.
func (q *Query) AsInt(at int) (int, error) {
	v, err := q.field(at)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("query: field %d is not an integer: %T", at, v)
	}
}

// AsDouble returns the field at position at as a double.
func (q *Query) AsDouble(at int) (float64, error) {
	v, err := q.field(at)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("query: field %d is not a double: %T", at, v)
	}
}

// AsString returns the field at position at as a string.
func (q *Query) AsString(at int) (string, error) {
	v, err := q.field(at)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", s), nil
	}
}

// AsBool returns the field at position at as a boolean.
func (q *Query) AsBool(at int) (bool, error) {
	v, err := q.field(at)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("query: field %d is not a boolean: %T", at, v)
	}
}

func (q *Query) field(at int) (any, error) {
	if at < 0 || at >= len(q.cols) {
		return nil, fmt.Errorf("query: field position %d out of range [0,%d)", at, len(q.cols))
	}
	return q.cols[at], nil
}
