package gateway

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeRecordKeyOrder(t *testing.T) {
	rec, err := decodeRecord(strings.NewReader(`{"name":"A","email":"a@x.com","age":30}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantColumns := []string{"name", "email", "age"}
	if len(rec) != len(wantColumns) {
		t.Fatalf("got %d fields, want %d", len(rec), len(wantColumns))
	}
	for i, col := range wantColumns {
		if rec[i].Column != col {
			t.Errorf("field %d: got column %q, want %q", i, rec[i].Column, col)
		}
	}
}

func TestDecodeRecordScalarTypes(t *testing.T) {
	rec, err := decodeRecord(strings.NewReader(`{"s":"x","n":42,"f":1.5,"b":true,"z":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := rec[0].Value.(string); !ok || v != "x" {
		t.Errorf("s: got %#v, want string \"x\"", rec[0].Value)
	}
	if v, ok := rec[1].Value.(json.Number); !ok || v.String() != "42" {
		t.Errorf("n: got %#v, want json.Number 42", rec[1].Value)
	}
	if v, ok := rec[2].Value.(json.Number); !ok || v.String() != "1.5" {
		t.Errorf("f: got %#v, want json.Number 1.5", rec[2].Value)
	}
	if v, ok := rec[3].Value.(bool); !ok || !v {
		t.Errorf("b: got %#v, want true", rec[3].Value)
	}
	if rec[4].Value != nil {
		t.Errorf("z: got %#v, want nil", rec[4].Value)
	}
}

func TestDecodeRecordEmpty(t *testing.T) {
	for _, body := range []string{"", "{}"} {
		rec, err := decodeRecord(strings.NewReader(body))
		if err != nil {
			t.Fatalf("body %q: unexpected error: %v", body, err)
		}
		if len(rec) != 0 {
			t.Errorf("body %q: got %d fields, want 0", body, len(rec))
		}
	}
}

func TestDecodeRecordRejectsNonObject(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"text"`, `42`, `true`} {
		_, err := decodeRecord(strings.NewReader(body))
		if !errors.Is(err, errNotObject) {
			t.Errorf("body %q: got %v, want errNotObject", body, err)
		}
	}
}

func TestDecodeRecordRejectsNestedValues(t *testing.T) {
	for _, body := range []string{`{"a":{"b":1}}`, `{"a":[1,2]}`} {
		if _, err := decodeRecord(strings.NewReader(body)); err == nil {
			t.Errorf("body %q: expected error for nested value", body)
		}
	}
}
