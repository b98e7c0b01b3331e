// Package attributes holds the schema-less key/value payload carried by
// every catalog record.
package attributes

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a document that should hold a bag is
// not a JSON object.
var ErrNotObject = errors.New("attributes must be a JSON object")

// Bag is an ordered mapping of string keys to JSON values.
//
// Keys keep the position of their first insertion. Nested objects are
// held as *Bag so their order survives a round trip, arrays as []any and
// numbers as json.Number.
//
// A nil *Bag is a valid value meaning "no attributes", which is distinct
// from an empty bag.
type Bag struct {
	keys   []string
	values map[string]any
}

// New returns an empty bag.
func New() *Bag {
	return &Bag{values: map[string]any{}}
}

// Len returns the number of keys. A nil bag has none.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Keys returns the keys in order.
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Get returns the value stored under key.
func (b *Bag) Get(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

// Has reports whether key is present.
func (b *Bag) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Set upserts a single key. An existing key keeps its position.
func (b *Bag) Set(key string, value any) {
	if b.values == nil {
		b.values = map[string]any{}
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

// Delete removes each named key. Absent keys are ignored.
func (b *Bag) Delete(keys ...string) {
	if b == nil {
		return
	}
	for _, key := range keys {
		if _, ok := b.values[key]; !ok {
			continue
		}
		delete(b.values, key)
		for i, k := range b.keys {
			if k == key {
				b.keys = append(b.keys[:i], b.keys[i+1:]...)
				break
			}
		}
	}
}

// Replace discards every key and installs the entries of other verbatim.
func (b *Bag) Replace(other *Bag) {
	b.keys = nil
	b.values = map[string]any{}
	b.Merge(other)
}

// Merge upserts every entry of other, leaving the remaining keys alone.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		b.Set(key, other.values[key])
	}
}

// Clone returns a copy of b whose top-level keys can be changed without
// affecting b. Nested values are shared.
func (b *Bag) Clone() *Bag {
	if b == nil {
		return nil
	}
	c := &Bag{
		keys:   make([]string, len(b.keys)),
		values: make(map[string]any, len(b.values)),
	}
	copy(c.keys, b.keys)
	for k, v := range b.values {
		c.values[k] = v
	}
	return c
}

// Range calls fn for each entry in order until fn returns false.
func (b *Bag) Range(fn func(key string, value any) bool) {
	if b == nil {
		return
	}
	for _, key := range b.keys {
		if !fn(key, b.values[key]) {
			return
		}
	}
}

// MarshalJSON writes the bag as a JSON object in key order.
func (b *Bag) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(b.values[key])
		if err != nil {
			return nil, fmt.Errorf("cannot marshal attribute %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of b with the decoded object.
func (b *Bag) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	b.keys = parsed.keys
	b.values = parsed.values
	return nil
}

// Value stores the bag as JSON text; a nil bag is stored as NULL.
func (b *Bag) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	buf, err := b.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Parse decodes a JSON object into a bag, keeping document order.
// Anything other than a single object is rejected with ErrNotObject.
func Parse(data []byte) (*Bag, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNotObject
		}
		return nil, fmt.Errorf("cannot parse attributes: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	bag, err := decodeObject(dec)
	if err != nil {
		return nil, fmt.Errorf("cannot parse attributes: %w", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("cannot parse attributes: unexpected data after object")
	}
	return bag, nil
}

// decodeObject reads entries up to and including the closing brace.
func decodeObject(dec *json.Decoder) (*Bag, error) {
	bag := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		bag.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return bag, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
