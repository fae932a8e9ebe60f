package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	FieldItemID   = "item_id"
	FieldItemName = "item_name"
)

var errIncomplete = errors.New("product is missing item_id or item_name")

// Product is one catalog listing. Only item_id is interpreted; the full object
// is kept verbatim (compacted) and re-emitted unchanged when marshalled.
type Product struct {
	ItemID string
	raw    json.RawMessage
}

// ParseProduct decodes one JSON object. Syntax errors and non-object values are
// returned as is. An object qualifies when both item_id and item_name keys are
// present, whatever item_name holds; item_id must be a JSON string (empty is
// allowed) because it becomes the line-item sku. Anything else yields errIncomplete.
func ParseProduct(data []byte) (Product, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Product{}, err
	}

	rawID, ok := fields[FieldItemID]
	if !ok {
		return Product{}, errIncomplete
	}
	var id string
	if len(rawID) == 0 || rawID[0] != '"' {
		return Product{}, errIncomplete
	}
	if err := json.Unmarshal(rawID, &id); err != nil {
		return Product{}, errIncomplete
	}
	if _, ok := fields[FieldItemName]; !ok {
		return Product{}, errIncomplete
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return Product{}, err
	}
	return Product{ItemID: id, raw: compact.Bytes()}, nil
}

// MarshalJSON implements json.Marshaler.
func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Product) UnmarshalJSON(data []byte) error {
	parsed, err := ParseProduct(data)
	if err != nil {
		return fmt.Errorf("catalog product: %w", err)
	}
	*p = parsed
	return nil
}
