package hashing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// NormalizeJSON recursively sorts object keys and re-serializes,
// producing the canonical byte form spec §4.12's duplicate-resolution
// policy and audit row hashing both rely on (object keys sorted,
// arrays left in original order, numbers reproduced verbatim).
// Grounded on gaji_registry.rs's normalize_json_value/normalized_json_text.
func NormalizeJSON(raw json.RawMessage) (string, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("normalize json: %w", err)
	}
	var b []byte
	b, err := appendNormalized(b, v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func appendNormalized(b []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(b, "null"...), nil
	case bool:
		if t {
			return append(b, "true"...), nil
		}
		return append(b, "false"...), nil
	case json.Number:
		return append(b, t.String()...), nil
	case string:
		enc, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return append(b, enc...), nil
	case []any:
		b = append(b, '[')
		for i, item := range t {
			if i > 0 {
				b = append(b, ',')
			}
			var err error
			b, err = appendNormalized(b, item)
			if err != nil {
				return nil, err
			}
		}
		return append(b, ']'), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b = append(b, '{')
		for i, k := range keys {
			if i > 0 {
				b = append(b, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			b = append(b, kb...)
			b = append(b, ':')
			b, err = appendNormalized(b, t[k])
			if err != nil {
				return nil, err
			}
		}
		return append(b, '}'), nil
	default:
		return nil, fmt.Errorf("normalize json: unsupported type %T", v)
	}
}
