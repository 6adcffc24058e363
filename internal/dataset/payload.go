package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/staffx/internal/shared"
)

// Field is one key/value pair of a decoded JSON object.
type Field struct {
	Key   string
	Value any
}

// Record is a JSON object with its key order preserved. Numbers decode as [json.Number].
type Record []Field

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// With returns r with key set to v. An existing key keeps its position.
func (r Record) With(key string, v any) Record {
	for i, f := range r {
		if f.Key == key {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Key: key, Value: v})
}

// Shape tags the two JSON payload layouts the source API may return.
type Shape int

const (
	ShapeList  Shape = iota // [ {...}, {...} ]
	ShapeKeyed              // { "<key>": [ {...} ] }
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeKeyed:
		return "keyed"
	default:
		return "unknown"
	}
}

// Payload is a parsed API response body in one of the accepted [Shape]s.
type Payload struct {
	shape Shape
	list  []Record
	keyed map[string]json.RawMessage
}

// NoRecords is the fallback record list for a keyed payload that lacks the requested key.
func NoRecords() []Record { return []Record{} }

// ParsePayload decodes body into a [Payload].
//
// Malformed JSON is an [shared.ErrDecode]; valid JSON that is neither an array nor an object is an [shared.ErrSchema].
func ParsePayload(body []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: response body is not valid JSON", shared.ErrDecode)
	}

	switch trimmed[0] {
	case '[':
		records, err := decodeRecords(trimmed)
		if err != nil {
			return nil, err
		}
		return &Payload{shape: ShapeList, list: records}, nil
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
		return &Payload{shape: ShapeKeyed, keyed: keyed}, nil
	default:
		return nil, fmt.Errorf("%w: payload must be a JSON array or object", shared.ErrSchema)
	}
}

// Shape reports which layout the payload was decoded from.
func (p *Payload) Shape() Shape { return p.shape }

// Records returns the payload's record list.
//
// A list payload is returned as-is. A keyed payload yields the list under key, or [NoRecords] when the key is
// absent or null.
func (p *Payload) Records(key string) ([]Record, error) {
	if p.shape == ShapeList {
		return p.list, nil
	}

	raw, ok := p.keyed[key]
	if !ok {
		return NoRecords(), nil
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return NoRecords(), nil
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: key %q does not hold a list", shared.ErrSchema, key)
	}
	return decodeRecords(raw)
}

func decodeRecords(data []byte) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRecord streams one JSON object so that key order survives.
func decodeRecord(data json.RawMessage) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected an object, got %s", shared.ErrSchema, bytes.TrimSpace(data))
	}

	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", shared.ErrDecode, tok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", shared.ErrDecode, key, err)
		}
		rec = rec.With(key, v)
	}
	return rec, nil
}

// FromRecords builds a [Table] whose columns are the union of record keys in order of first appearance.
func FromRecords(records []Record) *Table {
	t := NewTable()
	for _, rec := range records {
		for _, f := range rec {
			t.AddColumn(f.Key)
		}
	}

	t.rows = make([][]any, 0, len(records))
	for _, rec := range records {
		cells := make([]any, len(t.columns))
		for _, f := range rec {
			cells[t.index[f.Key]] = f.Value
		}
		t.rows = append(t.rows, cells)
	}
	return t
}
