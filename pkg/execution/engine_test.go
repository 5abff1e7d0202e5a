package execution

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/kusto"
)

// testCell is an in-memory Cell for engine tests.
type testCell struct {
	doc  string
	text string

	mu      sync.Mutex
	outputs []Output
}

func (c *testCell) Document() string { return c.doc }
func (c *testCell) Text() string     { return c.text }
func (c *testCell) ClearOutputs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = nil
}
func (c *testCell) AppendOutput(out Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = append(c.outputs, out)
}
func (c *testCell) Outputs() []Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Output(nil), c.outputs...)
}

// fakeClient scripts Execute responses.
type fakeClient struct {
	resp    *kusto.TabularResponse
	err     error
	gotDB   string
	execute func(ctx context.Context) (*kusto.TabularResponse, error)
}

func (f *fakeClient) Execute(ctx context.Context, database, _ string) (*kusto.TabularResponse, error) {
	f.gotDB = database
	if f.execute != nil {
		return f.execute(ctx)
	}
	return f.resp, f.err
}

func (f *fakeClient) Schema(context.Context) (*kusto.ClusterSchema, error) {
	return nil, errors.New("not implemented")
}

// fakeCapability hands out a scripted client.
type fakeCapability struct {
	info      connection.Info
	client    kusto.Client
	clientErr error
}

func (f *fakeCapability) Info() connection.Info { return f.info }
func (f *fakeCapability) Schema(context.Context, connection.SchemaOptions) (*kusto.ClusterSchema, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeCapability) Save(context.Context) error   { return nil }
func (f *fakeCapability) Delete(context.Context) error { return nil }
func (f *fakeCapability) Client(context.Context) (kusto.Client, error) {
	return f.client, f.clientErr
}

func azInfo() connection.Info {
	return connection.AzAuth{
		ConnID:   "c1",
		Name:     "test",
		Cluster:  "https://x.kusto.windows.net",
		Database: "Samples",
	}
}

func TestExecuteCellTabularSuccess(t *testing.T) {
	client := &fakeClient{resp: &kusto.TabularResponse{
		Tables:     []kusto.Table{{Name: kusto.PrimaryResultName, Rows: [][]any{{"a", float64(1)}}}},
		TableNames: []string{kusto.PrimaryResultName},
	}}
	capability := &fakeCapability{info: azInfo(), client: client}
	cell := &testCell{doc: "doc-1", text: "T | count"}

	task := NewEngine().ExecuteCell(context.Background(), cell, capability)

	assert.True(t, task.Succeeded())
	assert.Equal(t, "Samples", client.gotDB)

	outputs := cell.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, OutputTabular, outputs[0].Kind)
	require.NotNil(t, outputs[0].Response)
	// The engine normalized before appending.
	assert.Len(t, outputs[0].Response.PrimaryResults, 1)
}

func TestExecuteCellVisualSuccess(t *testing.T) {
	client := &fakeClient{resp: &kusto.TabularResponse{
		Tables: []kusto.Table{
			{
				Name: "@ExtendedProperties",
				Rows: [][]any{{`{"Visualization":"piechart","Title":"By state"}`}},
			},
			{
				Name: kusto.PrimaryResultName,
				Columns: []kusto.Column{
					{Name: "state", Type: kusto.TypeString},
					{Name: "count", Type: kusto.TypeLong},
				},
				Rows: [][]any{{"WA", float64(3)}},
			},
		},
		TableNames: []string{"@ExtendedProperties", kusto.PrimaryResultName},
	}}
	capability := &fakeCapability{info: azInfo(), client: client}
	cell := &testCell{doc: "doc-1", text: "T | summarize count() by state | render piechart"}

	task := NewEngine().ExecuteCell(context.Background(), cell, capability)

	assert.True(t, task.Succeeded())
	outputs := cell.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, OutputVisual, outputs[0].Kind)
	require.NotNil(t, outputs[0].Chart)
	assert.Equal(t, "By state", outputs[0].Chart.Decision.Title)
	assert.NotNil(t, outputs[0].Response)
}

func TestExecuteCellQueryErrorAppendsArtifact(t *testing.T) {
	client := &fakeClient{err: &kusto.HTTPError{StatusCode: 401}}
	capability := &fakeCapability{info: azInfo(), client: client}
	cell := &testCell{doc: "doc-1", text: "T"}

	task := NewEngine().ExecuteCell(context.Background(), cell, capability)

	assert.Equal(t, TaskFailed, task.State())
	outputs := cell.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, OutputError, outputs[0].Kind)
	require.NotNil(t, outputs[0].Error)
	assert.Equal(t, string(ErrAuthentication), outputs[0].Error.Name)
	assert.NotEmpty(t, outputs[0].Error.Message)
}

func TestExecuteCellClientSetupFailureIsSilent(t *testing.T) {
	capability := &fakeCapability{info: azInfo(), clientErr: errors.New("user cancelled sign-in")}
	cell := &testCell{doc: "doc-1", text: "T"}

	task := NewEngine().ExecuteCell(context.Background(), cell, capability)

	assert.Equal(t, TaskFailed, task.State())
	assert.Empty(t, cell.Outputs())
}

func TestExecuteCellCancellation(t *testing.T) {
	client := &fakeClient{execute: func(ctx context.Context) (*kusto.TabularResponse, error) {
		<-ctx.Done()
		// Settle well after the cancellation token so the engine acts on
		// the token, not the late result.
		time.Sleep(50 * time.Millisecond)
		return nil, ctx.Err()
	}}
	capability := &fakeCapability{info: azInfo(), client: client}
	cell := &testCell{doc: "doc-1", text: "T"}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	task := NewEngine().ExecuteCell(ctx, cell, capability)

	assert.Equal(t, TaskCancelled, task.State())
	assert.False(t, task.Succeeded())
	assert.Empty(t, cell.Outputs())
}

func TestExecuteCellClearsPriorOutputs(t *testing.T) {
	client := &fakeClient{resp: &kusto.TabularResponse{
		Tables:     []kusto.Table{{Name: kusto.PrimaryResultName}},
		TableNames: []string{kusto.PrimaryResultName},
	}}
	capability := &fakeCapability{info: azInfo(), client: client}
	cell := &testCell{doc: "doc-1", text: "T"}
	cell.AppendOutput(Output{Kind: OutputError, Error: &ErrorArtifact{Name: "stale"}})

	NewEngine().ExecuteCell(context.Background(), cell, capability)

	outputs := cell.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, OutputTabular, outputs[0].Kind)
}

func TestExecuteCellConcurrentIsolation(t *testing.T) {
	mkCapability := func(label string) *fakeCapability {
		return &fakeCapability{
			info: azInfo(),
			client: &fakeClient{resp: &kusto.TabularResponse{
				Tables: []kusto.Table{{
					Name: kusto.PrimaryResultName,
					Rows: [][]any{{label}},
				}},
				TableNames: []string{kusto.PrimaryResultName},
			}},
		}
	}

	engine := NewEngine()
	cells := []*testCell{
		{doc: "doc-1", text: "A"},
		{doc: "doc-1", text: "B"},
		{doc: "doc-2", text: "C"},
	}
	labels := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for i := range cells {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engine.ExecuteCell(context.Background(), cells[i], mkCapability(labels[i]))
		}(i)
	}
	wg.Wait()

	for i, cell := range cells {
		outputs := cell.Outputs()
		require.Len(t, outputs, 1, "cell %d", i)
		require.Len(t, outputs[0].Response.PrimaryResults, 1)
		assert.Equal(t, [][]any{{labels[i]}}, outputs[0].Response.PrimaryResults[0].Rows)
	}
}

func TestDatabaseOf(t *testing.T) {
	assert.Equal(t, "Samples", databaseOf(azInfo()))
	assert.Empty(t, databaseOf(connection.AppInsights{ConnID: "a", Name: "n"}))
}
