package platform

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

// The MCP tool surface is the narrow inbound interface the host
// document/UI layer drives: cell execution, controller registration,
// and connection CRUD.

type executeCellInput struct {
	DocType  string `json:"doc_type"`
	Document string `json:"document"`
	Token    string `json:"connection_token"`
	Query    string `json:"query"`
}

type registerControllerInput struct {
	DocType string `json:"doc_type"`
	Token   string `json:"connection_token"`
}

type selectKernelInput struct {
	DocType  string `json:"doc_type"`
	Document string `json:"document"`
	Token    string `json:"connection_token"`
}

type addConnectionInput struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cluster  string `json:"cluster,omitempty"`
	Database string `json:"database,omitempty"`
}

type removeConnectionInput struct {
	Token string `json:"connection_token"`
}

type listConnectionsInput struct{}

type schemaInput struct {
	Token       string `json:"connection_token"`
	IgnoreCache bool   `json:"ignore_cache,omitempty"`
}

type connectionEntry struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func (p *Platform) registerTools() {
	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_execute_cell",
		Description: "Execute one notebook cell's query against a connection and return its output artifacts.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in executeCellInput) (*mcp.CallToolResult, any, error) {
		return p.handleExecuteCell(ctx, in)
	})

	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_register_controller",
		Description: "Register (idempotently) the kernel controller for a document type and connection.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in registerControllerInput) (*mcp.CallToolResult, any, error) {
		return p.handleRegisterController(ctx, in)
	})

	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_select_kernel",
		Description: "Bind a document to a connection's kernel and record it as most recently used.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in selectKernelInput) (*mcp.CallToolResult, any, error) {
		return p.handleSelectKernel(ctx, in)
	})

	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_add_connection",
		Description: "Persist a new connection and make it available as a kernel.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in addConnectionInput) (*mcp.CallToolResult, any, error) {
		return p.handleAddConnection(ctx, in)
	})

	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_remove_connection",
		Description: "Delete a connection and tear down every controller bound to it.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in removeConnectionInput) (*mcp.CallToolResult, any, error) {
		return p.handleRemoveConnection(ctx, in)
	})

	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_list_connections",
		Description: "List stored connections with their opaque tokens.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ listConnectionsInput) (*mcp.CallToolResult, any, error) {
		return p.handleListConnections(ctx)
	})

	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name:        "kusto_get_schema",
		Description: "Fetch a connection's schema (databases, tables, columns), cached unless ignore_cache.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in schemaInput) (*mcp.CallToolResult, any, error) {
		return p.handleSchema(ctx, in)
	})
}

func (p *Platform) handleExecuteCell(ctx context.Context, in executeCellInput) (*mcp.CallToolResult, any, error) {
	info, err := connection.Decode(connection.Token(in.Token))
	if err != nil {
		return toolError(err), nil, nil
	}
	docType := in.DocType
	if docType == "" {
		docType = DocTypeNotebook
	}

	outputs, task, err := p.ExecuteCell(ctx, docType, in.Document, info, in.Query)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{
		"task_id": task.ID,
		"state":   task.State(),
		"outputs": outputs,
	})
}

func (p *Platform) handleRegisterController(_ context.Context, in registerControllerInput) (*mcp.CallToolResult, any, error) {
	info, err := connection.Decode(connection.Token(in.Token))
	if err != nil {
		return toolError(err), nil, nil
	}
	ctrl, err := p.manager.RegisterController(in.DocType, info)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{
		"doc_type": ctrl.DocType(),
		"token":    ctrl.Token(),
		"label":    ctrl.Info().DisplayName(),
	})
}

func (p *Platform) handleSelectKernel(ctx context.Context, in selectKernelInput) (*mcp.CallToolResult, any, error) {
	info, err := connection.Decode(connection.Token(in.Token))
	if err != nil {
		return toolError(err), nil, nil
	}
	docType := in.DocType
	if docType == "" {
		docType = DocTypeNotebook
	}

	if err := p.SelectKernel(ctx, docType, in.Document, info); err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{
		"doc_type": docType,
		"document": in.Document,
		"token":    in.Token,
	})
}

func (p *Platform) handleAddConnection(ctx context.Context, in addConnectionInput) (*mcp.CallToolResult, any, error) {
	info, err := ConnectionConfig{
		Kind:     in.Kind,
		ID:       in.ID,
		Name:     in.Name,
		Cluster:  in.Cluster,
		Database: in.Database,
	}.Info()
	if err != nil {
		return toolError(err), nil, nil
	}
	if err := p.AddConnection(ctx, info); err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{"token": connection.Encode(info)})
}

func (p *Platform) handleRemoveConnection(ctx context.Context, in removeConnectionInput) (*mcp.CallToolResult, any, error) {
	info, err := connection.Decode(connection.Token(in.Token))
	if err != nil {
		return toolError(err), nil, nil
	}
	if err := p.RemoveConnection(ctx, info); err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{"removed": true})
}

func (p *Platform) handleListConnections(ctx context.Context) (*mcp.CallToolResult, any, error) {
	infos, err := p.ListConnections(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}

	entries := make([]connectionEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, connectionEntry{
			Kind:  string(info.Kind()),
			Name:  info.DisplayName(),
			Token: string(connection.Encode(info)),
		})
	}
	return toolJSON(map[string]any{"connections": entries, "count": len(entries)})
}

func (p *Platform) handleSchema(ctx context.Context, in schemaInput) (*mcp.CallToolResult, any, error) {
	info, err := connection.Decode(connection.Token(in.Token))
	if err != nil {
		return toolError(err), nil, nil
	}
	schema, err := p.Schema(ctx, info, connection.SchemaOptions{IgnoreCache: in.IgnoreCache})
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(schema)
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// toolError reports a failure in the tool result rather than as a Go
// error, per MCP convention.
func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}
}
