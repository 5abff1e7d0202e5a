package viz

import "github.com/txn2/kusto-notebook/pkg/kusto"

// Chart bundles a decision with the derived series the rendering layer
// draws from. Exactly one of the series fields is set, matching the
// decision kind.
type Chart struct {
	Decision Decision     `json:"decision"`
	Pie      *PieSeries   `json:"pie,omitempty"`
	Bar      *BarSeries   `json:"bar,omitempty"`
	Time     []TimeSeries `json:"time,omitempty"`
}

// Render classifies the response and derives series from its first
// primary table. Returns nil when no chart applies; the caller renders
// a plain table instead.
func Render(resp *kusto.TabularResponse) *Chart {
	decision := Classify(resp)
	if decision.Kind == ChartNone || len(resp.PrimaryResults) == 0 {
		return nil
	}
	primary := &resp.PrimaryResults[0]

	chart := &Chart{Decision: decision}
	switch decision.Kind {
	case ChartPie:
		chart.Pie = RenderPie(primary)
	case ChartBar:
		chart.Bar = RenderBar(primary, decision.Orientation)
	case ChartTime:
		chart.Time = RenderTime(primary)
	}
	if chart.Pie == nil && chart.Bar == nil && chart.Time == nil {
		return nil
	}
	return chart
}
