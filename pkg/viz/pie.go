package viz

import "github.com/txn2/kusto-notebook/pkg/kusto"

// PieSeries is the flat label/value data for a pie chart, plus an
// optional hierarchical breakdown when the table carries more than two
// data columns.
type PieSeries struct {
	Labels   []string        `json:"labels"`
	Values   []float64       `json:"values"`
	Sunburst *SunburstSeries `json:"sunburst,omitempty"`
}

// RenderPie derives pie data from a primary table. The value column is
// the rightmost column declared as long when column metadata exists,
// otherwise the last column positionally. Labels come from column 0.
func RenderPie(t *kusto.Table) *PieSeries {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}

	valueIdx := pieValueColumn(t)
	series := &PieSeries{
		Labels: make([]string, 0, len(t.Rows)),
		Values: make([]float64, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		if valueIdx >= len(row) || len(row) == 0 {
			continue
		}
		series.Labels = append(series.Labels, stringify(row[0]))
		series.Values = append(series.Values, toFloat(row[valueIdx]))
	}

	if len(t.Columns) > 2 {
		series.Sunburst = RenderSunburst(t)
	}
	return series
}

func pieValueColumn(t *kusto.Table) int {
	for i := len(t.Columns) - 1; i >= 0; i-- {
		if t.Columns[i].Type == kusto.TypeLong {
			return i
		}
	}
	if len(t.Columns) > 0 {
		return len(t.Columns) - 1
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0]) - 1
	}
	return 0
}
