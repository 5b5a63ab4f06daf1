package gateway

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSelectAllStmt(t *testing.T) {
	query, args := selectAllStmt("users", 100, 0)
	if query != "SELECT * FROM users LIMIT ? OFFSET ?" {
		t.Errorf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{100, 0}) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestSelectByIDStmt(t *testing.T) {
	query, args := selectByIDStmt("users", "42")
	if query != "SELECT * FROM users WHERE id = ?" {
		t.Errorf("unexpected query: %s", query)
	}
	// id stays the raw path string; the engine's coercion handles typing
	if !reflect.DeepEqual(args, []any{"42"}) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestInsertStmt(t *testing.T) {
	rec := Record{
		{Column: "name", Value: "A"},
		{Column: "email", Value: "a@x.com"},
		{Column: "age", Value: json.Number("30")},
	}

	query, args := insertStmt("users", rec)
	if query != "INSERT INTO users (name, email, age) VALUES (?, ?, ?)" {
		t.Errorf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{"A", "a@x.com", int64(30)}) {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestUpdateStmt(t *testing.T) {
	rec := Record{
		{Column: "name", Value: "B"},
		{Column: "active", Value: true},
	}

	query, args := updateStmt("users", rec, "7")
	if query != "UPDATE users SET name = ?, active = ? WHERE id = ?" {
		t.Errorf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{"B", true, "7"}) {
		t.Errorf("unexpected args: %#v", args)
	}
}

func TestDeleteStmt(t *testing.T) {
	query, args := deleteStmt("users", "7")
	if query != "DELETE FROM users WHERE id = ?" {
		t.Errorf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{"7"}) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM users", true},
		{"  select 1", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"PRAGMA table_info(users)", true},
		{"EXPLAIN SELECT 1", true},
		{"INSERT INTO users (name) VALUES (?)", false},
		{"insert into users (name) values (?) returning id", true},
		{"UPDATE users SET name = ? WHERE id = ?", false},
		{"DELETE FROM users WHERE id = ?", false},
		{"CREATE TABLE t (id INTEGER)", false},
	}

	for _, tt := range tests {
		if got := returnsRows(tt.query); got != tt.want {
			t.Errorf("returnsRows(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestBindValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"integer number", json.Number("42"), int64(42)},
		{"float number", json.Number("1.5"), 1.5},
		{"string", "x", "x"},
		{"bool", true, true},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bindValue(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("bindValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
