package dispatcher

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/valyala/fastjson"
)

// ParseValue interprets raw value input: valid JSON is decoded, anything
// else is kept as the trimmed string.
func ParseValue(raw string) any {
	raw = strings.TrimSpace(raw)
	var p fastjson.Parser
	v, err := p.Parse(raw)
	if err != nil {
		return raw
	}
	out, ok := fromJSON(v)
	if !ok {
		return raw
	}
	return out
}

// fromJSON converts a parsed document into the values encoding/json would
// produce. Non-finite numbers are rejected because they cannot be stored.
func fromJSON(v *fastjson.Value) (any, bool) {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, true
	case fastjson.TypeTrue:
		return true, true
	case fastjson.TypeFalse:
		return false, true
	case fastjson.TypeString:
		return string(v.GetStringBytes()), true
	case fastjson.TypeNumber:
		f := v.GetFloat64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case fastjson.TypeArray:
		items := v.GetArray()
		out := make([]any, 0, len(items))
		for _, item := range items {
			x, ok := fromJSON(item)
			if !ok {
				return nil, false
			}
			out = append(out, x)
		}
		return out, true
	case fastjson.TypeObject:
		obj := v.GetObject()
		out := make(map[string]any, obj.Len())
		ok := true
		obj.Visit(func(key []byte, item *fastjson.Value) {
			x, itemOK := fromJSON(item)
			ok = ok && itemOK
			out[string(key)] = x
		})
		if !ok {
			return nil, false
		}
		return out, true
	}
	return nil, false
}

// FormatValue renders a fetched value for the value input: strings
// verbatim, everything else JSON-encoded.
func FormatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return encode(v)
}

// normalize round-trips v through JSON so values built in Go compare equal
// to values decoded from the platform.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
