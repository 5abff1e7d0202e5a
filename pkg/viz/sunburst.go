package viz

import "github.com/txn2/kusto-notebook/pkg/kusto"

// SunburstSeries is hierarchy data in the parallel id/label/parent/value
// form hierarchical chart primitives consume directly. BranchValues is
// always "total": child values sum into their parent, so every node's
// value is an aggregate over the rows sharing its path prefix.
type SunburstSeries struct {
	IDs          []string  `json:"ids"`
	Labels       []string  `json:"labels"`
	Parents      []string  `json:"parents"`
	Values       []float64 `json:"values"`
	BranchValues string    `json:"branchvalues"`
}

// RenderSunburst aggregates a flat table into a hierarchy. All columns
// except the last form the hierarchy path (ordinal 0 is the root level)
// and the last column is the numeric weight. Node ids are the
// dash-joined stringified path up to the node's depth; a node's parent
// is the id one level up.
func RenderSunburst(t *kusto.Table) *SunburstSeries {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	width := len(t.Columns)
	if width == 0 {
		width = len(t.Rows[0])
	}
	if width < 2 {
		return nil
	}
	depths := width - 1
	weightIdx := width - 1

	series := &SunburstSeries{BranchValues: "total"}
	totals := map[string]int{} // id -> index into the parallel slices

	for depth := 0; depth < depths; depth++ {
		for _, row := range t.Rows {
			if weightIdx >= len(row) || depth >= len(row) {
				continue
			}
			id := pathID(row, depth)
			parent := ""
			if depth > 0 {
				parent = pathID(row, depth-1)
			}

			idx, seen := totals[id]
			if !seen {
				idx = len(series.IDs)
				totals[id] = idx
				series.IDs = append(series.IDs, id)
				series.Labels = append(series.Labels, stringify(row[depth]))
				series.Parents = append(series.Parents, parent)
				series.Values = append(series.Values, 0)
			}
			series.Values[idx] += toFloat(row[weightIdx])
		}
	}
	return series
}

func pathID(row []any, depth int) string {
	id := stringify(row[0])
	for i := 1; i <= depth; i++ {
		id += "-" + stringify(row[i])
	}
	return id
}
