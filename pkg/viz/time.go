package viz

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// TimeSeries is one named series of parallel x/y sequences, accumulated
// in row order. A single two-column table produces one unnamed series.
type TimeSeries struct {
	Name string    `json:"name,omitempty"`
	X    []any     `json:"x"`
	Y    []float64 `json:"y"`
}

// RenderTime derives time-series data from a primary table.
//
// The temporal sort key is picked by fallback priority: a declared
// datetime column, else a timespan column (compared as same-day
// time-of-day), else a real column treated as an hour offset. Rows are
// stably sorted ascending by it. Tables with more than two columns are
// grouped by the first declared string column into named series.
func RenderTime(t *kusto.Table) []TimeSeries {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}

	sortIdx, keyOf := temporalColumn(t)
	if sortIdx < 0 {
		return nil
	}

	rows := make([][]any, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return keyOf(cellAt(rows[i], sortIdx)) < keyOf(cellAt(rows[j], sortIdx))
	})

	if len(t.Columns) <= 2 {
		series := TimeSeries{}
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			series.X = append(series.X, row[0])
			series.Y = append(series.Y, toFloat(row[1]))
		}
		return []TimeSeries{series}
	}

	groupIdx := firstColumnOfType(t, kusto.TypeString)
	valueIdx := timeValueColumn(t)
	if valueIdx < 0 {
		return nil
	}

	var order []string
	byName := map[string]*TimeSeries{}
	for _, row := range rows {
		if sortIdx >= len(row) || valueIdx >= len(row) {
			continue
		}
		name := ""
		if groupIdx >= 0 && groupIdx < len(row) {
			name = stringify(row[groupIdx])
		}
		series, ok := byName[name]
		if !ok {
			series = &TimeSeries{Name: name}
			byName[name] = series
			order = append(order, name)
		}
		series.X = append(series.X, row[sortIdx])
		series.Y = append(series.Y, toFloat(row[valueIdx]))
	}

	out := make([]TimeSeries, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// temporalColumn returns the sort column ordinal and its key function,
// or -1 when the table has no temporal column.
func temporalColumn(t *kusto.Table) (int, func(any) float64) {
	if idx := firstColumnOfType(t, kusto.TypeDateTime); idx >= 0 {
		return idx, datetimeKey
	}
	if idx := firstColumnOfType(t, kusto.TypeTimespan); idx >= 0 {
		return idx, timespanKey
	}
	if idx := firstColumnOfType(t, kusto.TypeReal); idx >= 0 {
		return idx, hourOffsetKey
	}
	return -1, nil
}

// timeValueColumn picks the y column: the last column if it is long,
// else the first column that is none of string/datetime/timespan/real.
func timeValueColumn(t *kusto.Table) int {
	last := len(t.Columns) - 1
	if last >= 0 && t.Columns[last].Type == kusto.TypeLong {
		return last
	}
	for i, c := range t.Columns {
		switch c.Type {
		case kusto.TypeString, kusto.TypeDateTime, kusto.TypeTimespan, kusto.TypeReal:
		default:
			return i
		}
	}
	return -1
}

func firstColumnOfType(t *kusto.Table, typ string) int {
	for i, c := range t.Columns {
		if c.Type == typ {
			return i
		}
	}
	return -1
}

func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// datetimeKey orders ISO-8601 timestamps.
func datetimeKey(v any) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return float64(ts.UnixNano())
		}
	}
	return 0
}

// timespanKey orders hh:mm:ss[.fraction] values as same-day time-of-day,
// in seconds.
func timespanKey(v any) float64 {
	s, ok := v.(string)
	if !ok {
		return toFloat(v)
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	h, _ := strconv.ParseFloat(parts[0], 64)
	m, _ := strconv.ParseFloat(parts[1], 64)
	sec, _ := strconv.ParseFloat(parts[2], 64)
	return h*3600 + m*60 + sec
}

// hourOffsetKey orders real values treated as hour offsets.
func hourOffsetKey(v any) float64 {
	return toFloat(v) * 3600
}
