package execution

import (
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/viz"
)

// OutputKind discriminates cell output artifacts so the UI picks the
// right widget without re-deciding.
type OutputKind string

// Output kinds.
const (
	OutputVisual  OutputKind = "visual"
	OutputTabular OutputKind = "tabular"
	OutputError   OutputKind = "error"
)

// Output is the single artifact an execution appends to its cell.
// Exactly one payload field is set, matching Kind.
type Output struct {
	Kind OutputKind `json:"kind"`

	// Chart carries the decision and derived series for visual outputs.
	Chart *viz.Chart `json:"chart,omitempty"`

	// Response carries the raw normalized response for tabular outputs.
	Response *kusto.TabularResponse `json:"response,omitempty"`

	// Error carries the classified failure for error outputs.
	Error *ErrorArtifact `json:"error,omitempty"`
}

// Cell is the host-document handle the engine writes results into.
type Cell interface {
	// Document identifies the owning document.
	Document() string
	// Text is the query text to execute.
	Text() string
	// ClearOutputs discards prior outputs before a run.
	ClearOutputs()
	// AppendOutput appends one artifact.
	AppendOutput(out Output)
}
