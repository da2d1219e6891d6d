package models

// Pagination defaults applied when a request omits page or page_size.
const (
	DefaultPage     = 1
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// QueryRequest is an ad-hoc statement submitted by a client.
type QueryRequest struct {
	SQL      string `json:"sql"`
	Params   Params `json:"params"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// QueryResult holds the outcome of a single executed statement.
// SELECT statements fill Rows; anything else reports Affected.
type QueryResult struct {
	Columns   []string         `json:"columns,omitempty"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"row_count"`
	Affected  *int64           `json:"affected,omitempty"`
	ElapsedMs float64          `json:"elapsed_ms"`
}

// QueryPage is the paginated response for an ad-hoc SELECT.
type QueryPage struct {
	Rows      []map[string]any `json:"rows"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	RowCount  int              `json:"row_count"`
	ElapsedMs float64          `json:"elapsed_ms"`
}
