package kusto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 4 * time.Minute

	queryPath = "/v1/rest/query"
	mgmtPath  = "/v1/rest/mgmt"
)

// Config holds REST client configuration. Construction requires either a
// bearer token or an API key; the endpoint decides which applies.
type Config struct {
	// Endpoint is the base URL of the engine, e.g.
	// https://help.kusto.windows.net or an app-insights app URL.
	Endpoint string

	// BearerToken is attached as an Authorization header when set.
	BearerToken string

	// APIKey is attached as an x-api-key header when set.
	APIKey string

	Timeout time.Duration
}

// RESTClient implements Client over the engine's v1 REST surface.
type RESTClient struct {
	cfg  Config
	http *http.Client
}

// NewRESTClient creates a client for one endpoint.
func NewRESTClient(cfg Config) (*RESTClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("engine endpoint is required")
	}
	if cfg.BearerToken == "" && cfg.APIKey == "" {
		return nil, fmt.Errorf("either a bearer token or an api key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &RESTClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// wireColumn is a column as serialized by the v1 endpoint.
type wireColumn struct {
	ColumnName string `json:"ColumnName"`
	DataType   string `json:"DataType"`
	ColumnType string `json:"ColumnType"`
}

// wireTable is a table as serialized by the v1 endpoint.
type wireTable struct {
	TableName string       `json:"TableName"`
	Columns   []wireColumn `json:"Columns"`
	Rows      [][]any      `json:"Rows"`
}

// wireResponse is the v1 response envelope.
type wireResponse struct {
	Tables     []wireTable `json:"Tables"`
	Exceptions []string    `json:"Exceptions"`
}

// Execute runs a query and returns the normalized tabular response.
func (c *RESTClient) Execute(ctx context.Context, database, query string) (*TabularResponse, error) {
	return c.post(ctx, queryPath, database, query)
}

// Schema fetches the cluster schema via a management query.
func (c *RESTClient) Schema(ctx context.Context) (*ClusterSchema, error) {
	resp, err := c.post(ctx, mgmtPath, "", ".show schema")
	if err != nil {
		return nil, err
	}
	return foldSchema(resp), nil
}

func (c *RESTClient) post(ctx context.Context, path, database, query string) (*TabularResponse, error) {
	body, err := json.Marshal(map[string]string{"db": database, "csl": query})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-ms-client-request-id", uuid.NewString())
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		// Best effort: the body may not be the structured error payload.
		_ = json.NewDecoder(resp.Body).Decode(&httpErr.Data)
		return nil, httpErr
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	tabular := fromWire(wire)
	tabular.Normalize()
	return tabular, nil
}

// fromWire maps the v1 envelope into a TabularResponse. When the envelope
// ends with a table-of-contents table, its Name column renames the data
// tables (the v1 endpoint names them Table_0, Table_1, ...) and the TOC
// itself is dropped.
func fromWire(wire wireResponse) *TabularResponse {
	tables := make([]Table, 0, len(wire.Tables))
	for _, wt := range wire.Tables {
		tables = append(tables, Table{
			Name:    wt.TableName,
			Columns: wireColumns(wt.Columns),
			Rows:    wt.Rows,
		})
	}

	tables = applyTOC(tables)

	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}

	return &TabularResponse{
		Tables:     tables,
		TableNames: names,
		Exceptions: wire.Exceptions,
	}
}

func wireColumns(cols []wireColumn) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		typ := c.ColumnType
		if typ == "" {
			typ = c.DataType
		}
		out = append(out, Column{Name: c.ColumnName, Type: typ})
	}
	return out
}

// applyTOC renames data tables from the trailing table-of-contents table,
// if one is present. Single-table responses have no TOC.
func applyTOC(tables []Table) []Table {
	if len(tables) < 2 {
		return tables
	}

	toc := tables[len(tables)-1]
	ordinalIdx := toc.ColumnIndex("Ordinal")
	nameIdx := toc.ColumnIndex("Name")
	if ordinalIdx < 0 || nameIdx < 0 {
		return tables
	}

	data := tables[: len(tables)-1 : len(tables)-1]
	for _, row := range toc.Rows {
		if ordinalIdx >= len(row) || nameIdx >= len(row) {
			continue
		}
		ord, ok := asInt(row[ordinalIdx])
		if !ok || ord < 0 || ord >= len(data) {
			continue
		}
		if name, ok := row[nameIdx].(string); ok {
			data[ord].Name = name
		}
	}
	return data
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

// foldSchema builds a ClusterSchema from the row shape of ".show schema":
// one row per column, keyed by DatabaseName/TableName/ColumnName, with
// table- and database-level rows carrying empty names at the finer grain.
func foldSchema(resp *TabularResponse) *ClusterSchema {
	schema := &ClusterSchema{Databases: map[string]DatabaseSchema{}}

	var rows *Table
	if len(resp.PrimaryResults) > 0 {
		rows = &resp.PrimaryResults[0]
	} else if len(resp.Tables) > 0 {
		rows = &resp.Tables[0]
	}
	if rows == nil {
		return schema
	}

	dbIdx := rows.ColumnIndex("DatabaseName")
	tblIdx := rows.ColumnIndex("TableName")
	colIdx := rows.ColumnIndex("ColumnName")
	typIdx := rows.ColumnIndex("ColumnType")
	if dbIdx < 0 {
		return schema
	}

	for _, row := range rows.Rows {
		dbName, _ := cell(row, dbIdx).(string)
		if dbName == "" {
			continue
		}
		db, ok := schema.Databases[dbName]
		if !ok {
			db = DatabaseSchema{Name: dbName, Tables: map[string]TableSchema{}}
		}

		tblName, _ := cell(row, tblIdx).(string)
		if tblName != "" {
			tbl, ok := db.Tables[tblName]
			if !ok {
				tbl = TableSchema{Name: tblName}
			}
			colName, _ := cell(row, colIdx).(string)
			if colName != "" {
				colType, _ := cell(row, typIdx).(string)
				tbl.Columns = append(tbl.Columns, Column{Name: colName, Type: colType})
			}
			db.Tables[tblName] = tbl
		}

		schema.Databases[dbName] = db
	}
	return schema
}

func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// Verify interface compliance.
var _ Client = (*RESTClient)(nil)
