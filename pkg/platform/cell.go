package platform

import (
	"sync"

	"github.com/txn2/kusto-notebook/pkg/execution"
)

// BufferCell is an execution.Cell that accumulates output artifacts in
// memory. The MCP surface uses it to carry results back to the host,
// which owns the real notebook cells.
type BufferCell struct {
	document string
	text     string

	mu      sync.Mutex
	outputs []execution.Output
}

// NewBufferCell creates a cell for one execution request.
func NewBufferCell(document, text string) *BufferCell {
	return &BufferCell{document: document, text: text}
}

// Document implements execution.Cell.
func (c *BufferCell) Document() string { return c.document }

// Text implements execution.Cell.
func (c *BufferCell) Text() string { return c.text }

// ClearOutputs implements execution.Cell.
func (c *BufferCell) ClearOutputs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = nil
}

// AppendOutput implements execution.Cell.
func (c *BufferCell) AppendOutput(out execution.Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = append(c.outputs, out)
}

// Outputs returns the accumulated artifacts.
func (c *BufferCell) Outputs() []execution.Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]execution.Output, len(c.outputs))
	copy(out, c.outputs)
	return out
}

// Verify interface compliance.
var _ execution.Cell = (*BufferCell)(nil)
