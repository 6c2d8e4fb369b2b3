package catalog

// Metafield decoding for the commerce backend's typed key/value attributes.

import (
	"encoding/json"
	"math"
	"strconv"
)

// ValueKind discriminates the decoded representation of a metafield value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindNumber
	KindJSON
)

// Value is the decoded form of a single metafield. Exactly one of the typed
// fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Str  string
	Bool bool
	Num  float64
	JSON any
}

// RawMetafield mirrors the backend's metafield record shape. Namespace is
// carried for completeness; decoding keys by namespace happens upstream.
type RawMetafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// MetafieldMap maps metafield keys to their decoded values.
type MetafieldMap map[string]Value

// DecodeMetafields converts raw typed metafield records into a MetafieldMap.
// Decoding is total: malformed JSON falls back to the raw string, invalid
// numbers decode to NaN (treated as absent by callers), and nil-ish entries
// are skipped. It never returns an error.
func DecodeMetafields(fields []RawMetafield) MetafieldMap {
	decoded := make(MetafieldMap, len(fields))
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		decoded[field.Key] = decodeValue(field.Value, field.Type)
	}
	return decoded
}

func decodeValue(raw, fieldType string) Value {
	switch fieldType {
	case "json":
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return Value{Kind: KindString, Str: raw}
		}
		return Value{Kind: KindJSON, JSON: parsed}
	case "boolean":
		return Value{Kind: KindBool, Bool: raw == "true"}
	case "number_decimal", "number_integer":
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			num = math.NaN()
		}
		return Value{Kind: KindNumber, Num: num}
	default:
		return Value{Kind: KindString, Str: raw}
	}
}

// String returns the string form of a value, or empty for absent keys and
// non-string kinds.
func (m MetafieldMap) String(key string) string {
	value, ok := m[key]
	if !ok || value.Kind != KindString {
		return ""
	}
	return value.Str
}

// Number returns the numeric value for key. Absent keys and NaN decodes
// report ok=false so callers treat them as missing.
func (m MetafieldMap) Number(key string) (float64, bool) {
	value, ok := m[key]
	if !ok || value.Kind != KindNumber || math.IsNaN(value.Num) {
		return 0, false
	}
	return value.Num, true
}

// Bool returns the boolean value for key, false when absent.
func (m MetafieldMap) Bool(key string) bool {
	value, ok := m[key]
	return ok && value.Kind == KindBool && value.Bool
}

// StringList returns a JSON-typed metafield decoded as a list of strings.
// Values that decoded to anything other than a list normalize to an empty
// list rather than propagating a wrong type.
func (m MetafieldMap) StringList(key string) []string {
	value, ok := m[key]
	if !ok || value.Kind != KindJSON {
		return []string{}
	}
	items, ok := value.JSON.([]any)
	if !ok {
		return []string{}
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			list = append(list, s)
		}
	}
	return list
}
