// Package viz infers chart decisions from tabular query results and
// derives the series data needed to draw them.
//
// Everything in this package is pure and never fails: any ambiguity in
// the response collapses to ChartNone and the result renders as a plain
// table. Chart rendering is best-effort, not a contract the query must
// satisfy.
package viz

// ChartKind discriminates chart decisions.
type ChartKind string

// Chart kinds.
const (
	ChartNone ChartKind = "none"
	ChartPie  ChartKind = "pie"
	ChartBar  ChartKind = "bar"
	ChartTime ChartKind = "time"
)

// Orientation is the bar chart axis orientation.
type Orientation string

// Bar orientations. Vertical puts categories on the x axis, horizontal
// on the y axis.
const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// Decision carries everything the rendering layer needs to pick a chart
// widget without re-inspecting the response.
type Decision struct {
	Kind        ChartKind   `json:"kind"`
	Title       string      `json:"title,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
}

// None is the no-chart decision.
var None = Decision{Kind: ChartNone}
