package sheet

import (
	"strconv"
	"strings"
)

// Row is a raw spreadsheet row: an unordered mapping from column identity to
// a scalar cell value. Column identity is NOT a stable key across files:
// depending on the export tool it may be a real header name, "__EMPTY_4",
// "_4", a bare numeral, and so on. All downstream access goes through
// Resolver so that instability is contained in one place.
type Row map[string]interface{}

// AsString renders a cell value as a trimmed string. Numbers are rendered
// without a trailing ".0" so that identifiers read from numeric cells stay
// comparable to their string form.
func AsString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// AsFloat coerces a cell value to float64. Strings are parsed after stripping
// thousands separators; anything unparseable degrades to 0 per the monetary
// defaulting rule.
func AsFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// IsEmptyValue reports whether a cell holds no usable content.
func IsEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
