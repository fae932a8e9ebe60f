package enrich

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type field struct {
	key   string
	value json.RawMessage
}

// Listing is a JSON object that keeps its keys in input order, so enriched
// output differs from the input only by the added fields.
type Listing struct {
	fields []field
}

// ParseListing decodes a single JSON object.
func ParseListing(data []byte) (*Listing, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("listing is not valid json")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("listing is not a json object")
	}

	l := &Listing{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		l.Set(key, value)
	}
	return l, nil
}

// Get returns the raw value stored under key.
func (l *Listing) Get(key string) (json.RawMessage, bool) {
	for _, f := range l.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Set overwrites key in place or appends it.
func (l *Listing) Set(key string, value json.RawMessage) {
	for i := range l.fields {
		if l.fields[i].key == key {
			l.fields[i].value = value
			return
		}
	}
	l.fields = append(l.fields, field{key: key, value: value})
}

// SetValue marshals v and stores it under key.
func (l *Listing) SetValue(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	l.Set(key, raw)
	return nil
}

func (l *Listing) keys() []string {
	keys := make([]string, len(l.fields))
	for i, f := range l.fields {
		keys[i] = f.key
	}
	return keys
}

// MarshalJSON implements json.Marshaler.
func (l *Listing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range l.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
