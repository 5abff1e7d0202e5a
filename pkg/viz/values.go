package viz

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// toFloat coerces a result cell into a float64. Non-numeric cells
// coerce to 0, in keeping with the never-fail contract.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

// stringify renders a result cell as a label.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
