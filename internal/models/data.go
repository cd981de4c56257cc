package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DataItem is one key/value pair as last read from the platform store.
// It is a read-only projection rebuilt on every refresh.
type DataItem struct {
	Key   string
	Value any
}

// DisplayValue returns the value JSON-encoded, as rendered in the data list.
func (d DataItem) DisplayValue() string {
	return EncodeValue(d.Value)
}

// NoDataPlaceholder is shown instead of an empty data list.
const NoDataPlaceholder = "No saved data"

// EncodeValue JSON-encodes v without HTML escaping. Values that cannot be
// encoded render as their Go representation so the UI never drops a row.
func EncodeValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
