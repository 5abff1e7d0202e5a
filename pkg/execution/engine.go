package execution

import (
	"context"
	"log/slog"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/viz"
)

// Engine executes cells against a connection's client.
//
// Failures never escape ExecuteCell: query errors render as a cell-scoped
// error artifact, so one cell's failure cannot abort sibling concurrent
// executions.
type Engine struct{}

// NewEngine creates an execution engine.
func NewEngine() *Engine { return &Engine{} }

// ExecuteCell runs the cell's text against the connection, appending
// exactly one output artifact on success or query failure, and zero on
// cancellation or client-setup failure. ctx is the task's cancellation
// token. The returned task is terminal.
func (e *Engine) ExecuteCell(ctx context.Context, cell Cell, capability connection.Capability) *Task {
	task := NewTask(ctx)
	// The one guaranteed terminal action: whatever path exits, the task
	// ends with a timestamp. Explicit per-branch Ends win over this.
	defer task.End(TaskFailed)

	cell.ClearOutputs()

	client, err := capability.Client(ctx)
	if err != nil {
		// Setup failure, not a query error: the user already saw the
		// auth flow fail, so no artifact is appended.
		slog.Warn("client setup failed",
			"task", task.ID, "document", cell.Document(), "error", err)
		task.End(TaskFailed)
		return task
	}

	type result struct {
		resp *kusto.TabularResponse
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		resp, err := client.Execute(task.Context(), databaseOf(capability.Info()), cell.Text())
		resCh <- result{resp: resp, err: err}
	}()

	// The cancellation token and the query race; act on whichever
	// settles first, never on both. The buffered channel lets the loser
	// finish without leaking its goroutine.
	select {
	case <-task.Context().Done():
		task.End(TaskCancelled)
		return task
	case res := <-resCh:
		if res.err != nil {
			artifact := ClassifyError(res.err)
			cell.AppendOutput(Output{Kind: OutputError, Error: &artifact})
			task.End(TaskFailed)
			return task
		}
		e.appendResult(cell, res.resp)
		task.End(TaskSucceeded)
		return task
	}
}

// appendResult normalizes the response, runs chart inference, and
// appends the single result artifact.
func (e *Engine) appendResult(cell Cell, resp *kusto.TabularResponse) {
	resp.Normalize()
	if chart := viz.Render(resp); chart != nil {
		cell.AppendOutput(Output{Kind: OutputVisual, Chart: chart, Response: resp})
		return
	}
	cell.AppendOutput(Output{Kind: OutputTabular, Response: resp})
}

// databaseOf returns the default database a connection queries against.
func databaseOf(info connection.Info) string {
	if az, ok := info.(connection.AzAuth); ok {
		return az.Database
	}
	return ""
}
