package models

import "time"

// HistoryEntry records metadata about one successfully executed ad-hoc query.
// Result rows are never retained.
type HistoryEntry struct {
	SQL string `json:"sql"`

	// Params is set only when the request used named parameters. Positional
	// values carry no field meaning and are not kept.
	Params *Params `json:"params"`

	RowCount  int     `json:"row_count"`
	ElapsedMs float64 `json:"elapsed_ms"`

	// TablesUsed lists allowlisted tables seen in the statement (advisory).
	TablesUsed []string  `json:"tables_used,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}
