package viz

import (
	"encoding/json"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// extendedPropsTable is the auxiliary table carrying rendering hints.
const extendedPropsTable = "@ExtendedProperties"

// renderHint is the visualization metadata emitted by the engine.
type renderHint struct {
	Visualization string `json:"Visualization"`
	Title         string `json:"Title"`
}

// Classify decides a chart kind from the response's embedded rendering
// hints. The hint row stores its JSON payload at ordinal 2 or ordinal 0
// depending on the engine variant; ordinal 2 is tried first. A cell
// that parses as JSON but carries no Visualization field counts as a
// miss, so the fallback to ordinal 0 still happens. That order, and
// treating Visualization-less JSON as a miss, is load-bearing
// compatibility behavior, keep it.
func Classify(resp *kusto.TabularResponse) Decision {
	if resp == nil || len(resp.Tables) == 0 {
		return None
	}

	props := resp.TableByName(extendedPropsTable)
	if props == nil || len(props.Rows) == 0 {
		return None
	}

	row := props.Rows[0]
	hint, ok := parseHint(row, 2)
	if !ok {
		hint, ok = parseHint(row, 0)
	}
	if !ok {
		return None
	}

	switch hint.Visualization {
	case "piechart":
		return Decision{Kind: ChartPie, Title: hint.Title}
	case "barchart":
		return Decision{Kind: ChartBar, Title: hint.Title, Orientation: OrientationHorizontal}
	case "columnchart":
		return Decision{Kind: ChartBar, Title: hint.Title, Orientation: OrientationVertical}
	case "timechart", "linechart":
		return Decision{Kind: ChartTime, Title: hint.Title}
	default:
		return None
	}
}

func parseHint(row []any, ordinal int) (renderHint, bool) {
	var hint renderHint
	if ordinal >= len(row) {
		return hint, false
	}
	text, ok := row[ordinal].(string)
	if !ok {
		return hint, false
	}
	if err := json.Unmarshal([]byte(text), &hint); err != nil {
		return hint, false
	}
	return hint, hint.Visualization != ""
}
