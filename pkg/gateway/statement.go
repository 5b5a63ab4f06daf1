package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// listTablesSQL selects user table names from the schema catalog, excluding
// the engine's reserved sqlite_ names and platform-internal _cf_ names. The
// underscores are escaped so LIKE treats them literally; without the ESCAPE
// clause a user table like acf_data would be hidden.
const listTablesSQL = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' AND name NOT LIKE '\_cf\_%' ESCAPE '\' ORDER BY name`

// Statement builders produce exactly one parameterized statement per logical
// operation. Table names must have passed validIdentifier before reaching any
// of these; all values travel as bind parameters, never as SQL text.

func selectAllStmt(table string, limit, offset int) (string, []any) {
	return fmt.Sprintf("SELECT * FROM %s LIMIT ? OFFSET ?", table), []any{limit, offset}
}

// selectByIDStmt binds the id as the raw string from the path; SQLite's type
// coercion handles the comparison against integer id columns.
func selectByIDStmt(table, id string) (string, []any) {
	return fmt.Sprintf("SELECT * FROM %s WHERE id = ?", table), []any{id}
}

func insertStmt(table string, rec Record) (string, []any) {
	columns := make([]string, 0, len(rec))
	placeholders := make([]string, 0, len(rec))
	args := make([]any, 0, len(rec))
	for _, f := range rec {
		columns = append(columns, f.Column)
		placeholders = append(placeholders, "?")
		args = append(args, bindValue(f.Value))
	}

	var query strings.Builder
	query.WriteString(fmt.Sprintf("INSERT INTO %s (", table))
	query.WriteString(strings.Join(columns, ", "))
	query.WriteString(") VALUES (")
	query.WriteString(strings.Join(placeholders, ", "))
	query.WriteString(")")

	return query.String(), args
}

func updateStmt(table string, rec Record, id string) (string, []any) {
	setClauses := make([]string, 0, len(rec))
	args := make([]any, 0, len(rec)+1)
	for _, f := range rec {
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", f.Column))
		args = append(args, bindValue(f.Value))
	}
	args = append(args, id)

	var query strings.Builder
	query.WriteString(fmt.Sprintf("UPDATE %s SET ", table))
	query.WriteString(strings.Join(setClauses, ", "))
	query.WriteString(" WHERE id = ?")

	return query.String(), args
}

func deleteStmt(table, id string) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), []any{id}
}

// rowKeywords are the statement heads that produce a result set.
var rowKeywords = []string{"SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN"}

// returnsRows reports whether a raw statement should run through Query.
// Statements that return no rows run through Exec instead, the only path
// the driver exposes last-insert-id and affected-row counts on. A RETURNING
// clause forces the row path regardless of the head keyword.
func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, kw := range rowKeywords {
		if strings.HasPrefix(q, kw) {
			return true
		}
	}
	return strings.Contains(q, "RETURNING")
}

// bindValue converts decoded JSON scalars into types the driver binds
// natively. json.Number becomes int64 where it fits, float64 otherwise.
func bindValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
