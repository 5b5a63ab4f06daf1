package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Field is one column/value pair from a request body. Value is one of the
// JSON scalar types: nil, bool, json.Number, or string.
type Field struct {
	Column string
	Value  any
}

// Record is a decoded JSON object body with key order preserved. Column order
// in built statements follows the order keys appear in the body.
type Record []Field

var errNotObject = errors.New("request body must be a JSON object")

// decodeRecord reads a JSON object from r into a Record. An empty body
// decodes to an empty Record, not an error; the caller decides whether that
// is acceptable for the operation. Numbers are kept as json.Number so integer
// ids survive the trip to the bind parameter without float rounding.
func decodeRecord(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var rec Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errNotObject
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if _, nested := valTok.(json.Delim); nested {
			return nil, fmt.Errorf("column %q: value must be a JSON scalar", key)
		}

		rec = append(rec, Field{Column: key, Value: valTok})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return rec, nil
}
