package controller

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/execution"
	"github.com/txn2/kusto-notebook/pkg/store"
)

// KernelHost is the host document-type system controllers register with
// so users can select them for a notebook or interactive document.
type KernelHost interface {
	RegisterKernel(docType string, token connection.Token, label string) error
	UnregisterKernel(docType string, token connection.Token)
}

// Controller is the connection-bound kernel for one document type.
type Controller struct {
	docType    string
	info       connection.Info
	token      connection.Token
	capability connection.Capability
	engine     *execution.Engine
	store      store.Store
}

// DocType returns the document type tag this controller serves.
func (c *Controller) DocType() string { return c.docType }

// Info returns the bound connection identity.
func (c *Controller) Info() connection.Info { return c.info }

// Token returns the bound connection's encoded token.
func (c *Controller) Token() connection.Token { return c.token }

// OnSelected is the selection-changed hook: when the user binds a
// document to this controller, the association is persisted and the
// most-recently-used record updated.
func (c *Controller) OnSelected(ctx context.Context, documentID string) error {
	if err := c.store.BindDocument(ctx, documentID, c.token); err != nil {
		return err
	}
	return c.store.SetLastUsed(ctx, c.docType, c.token)
}

// ExecuteCells fans the cells out to the execution engine. Cells run
// concurrently with no ordering guarantee among them; each gets its own
// task and cancellation token derived from ctx, and one cell's failure
// never aborts its siblings.
func (c *Controller) ExecuteCells(ctx context.Context, cells []execution.Cell) []*execution.Task {
	tasks := make([]*execution.Task, len(cells))

	g := new(errgroup.Group)
	for i, cell := range cells {
		g.Go(func() error {
			tasks[i] = c.engine.ExecuteCell(ctx, cell, c.capability)
			return nil
		})
	}
	_ = g.Wait()
	return tasks
}
