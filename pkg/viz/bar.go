package viz

import "github.com/txn2/kusto-notebook/pkg/kusto"

// BarSeries is category/value data for a bar chart. Vertical orientation
// puts categories on the x axis, horizontal flips them onto the y axis.
type BarSeries struct {
	Categories  []string    `json:"categories"`
	Values      []float64   `json:"values"`
	Orientation Orientation `json:"orientation"`
}

// RenderBar derives bar data from a primary table: column 0 holds the
// categories and column 1 the values.
func RenderBar(t *kusto.Table, orientation Orientation) *BarSeries {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}

	series := &BarSeries{
		Categories:  make([]string, 0, len(t.Rows)),
		Values:      make([]float64, 0, len(t.Rows)),
		Orientation: orientation,
	}
	for _, row := range t.Rows {
		if len(row) < 2 {
			continue
		}
		series.Categories = append(series.Categories, stringify(row[0]))
		series.Values = append(series.Values, toFloat(row[1]))
	}
	return series
}
