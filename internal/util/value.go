package util

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const NotAvailable = "N/A"

// FormatValue renders a decoded JSON value for display: null becomes N/A,
// objects and arrays become their JSON text, scalars their plain text.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return NotAvailable
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// Number reports v as a float64 when it is strictly numeric. Numeric strings
// such as "5" are not numbers.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
