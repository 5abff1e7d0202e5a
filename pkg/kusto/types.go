// Package kusto provides the tabular data model and client abstraction for
// the query engine. The REST adapter in this package is the only component
// that speaks the engine's wire format; everything above it works with the
// normalized TabularResponse.
package kusto

// Column type tags as declared by the engine.
const (
	TypeString   = "string"
	TypeLong     = "long"
	TypeReal     = "real"
	TypeDateTime = "datetime"
	TypeTimespan = "timespan"
)

// PrimaryResultName is the table name engines use when they do not
// pre-separate the principal output into a dedicated field.
const PrimaryResultName = "PrimaryResult"

// Column describes one column of a result table.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is one named result table. Rows are addressed by column ordinal.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// TabularResponse is the normalized result of a query execution.
//
// PrimaryResults holds the query's principal output. For a successful,
// non-diagnostic query it is never empty after Normalize.
type TabularResponse struct {
	Tables         []Table  `json:"tables"`
	TableNames     []string `json:"tableNames"`
	PrimaryResults []Table  `json:"primaryResults"`
	Exceptions     []string `json:"exceptions,omitempty"`
}

// TableByName returns the first table with the given name, or nil.
func (r *TabularResponse) TableByName(name string) *Table {
	for i := range r.Tables {
		if r.Tables[i].Name == name {
			return &r.Tables[i]
		}
	}
	return nil
}

// ColumnIndex returns the ordinal of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ClusterSchema describes the databases visible through a connection.
type ClusterSchema struct {
	Databases map[string]DatabaseSchema `json:"databases"`
}

// DatabaseSchema describes one database.
type DatabaseSchema struct {
	Name   string                 `json:"name"`
	Tables map[string]TableSchema `json:"tables"`
}

// TableSchema describes one table.
type TableSchema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}
