package registry

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// normalizeJSONValue recursively sorts object keys so structurally
// equal JSON compares equal regardless of original key order (spec
// §4.12's "dependencies compared after JSON normalization").
func normalizeJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(t))
		for _, k := range keys {
			out[k] = normalizeJSONValue(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeJSONValue(e)
		}
		return out
	default:
		return v
	}
}

func normalizedJSONText(v any) string {
	b, _ := json.Marshal(normalizeJSONValue(v))
	return string(b)
}

func normalizedRawJSONText(raw json.RawMessage) string {
	return normalizedJSONText(rawOrNull(raw))
}

// compareVersionsDesc orders two dotted numeric versions descending
// (newest first); a leading "v" is tolerated. Versions that don't
// parse as major.minor.patch fall back to reverse lexical order so the
// comparison never panics on odd input.
func compareVersionsDesc(left, right string) int {
	a, aok := parseSemver(left)
	b, bok := parseSemver(right)
	switch {
	case aok && bok:
		for i := 0; i < 3; i++ {
			if a[i] != b[i] {
				if a[i] > b[i] {
					return -1
				}
				return 1
			}
		}
		return strings.Compare(right, left)
	case aok && !bok:
		return -1
	case !aok && bok:
		return 1
	default:
		return strings.Compare(right, left)
	}
}

func parseSemver(version string) ([3]int, bool) {
	clean := strings.TrimPrefix(version, "v")
	parts := strings.Split(clean, ".")
	if len(parts) != 3 {
		return [3]int{}, false
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return [3]int{}, false
		}
		out[i] = n
	}
	return out, true
}
