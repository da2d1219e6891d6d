package models

import "time"

// Bookmark is a named, reusable statement with its bind values.
// Names are not unique.
type Bookmark struct {
	Name      string    `json:"name"`
	SQL       string    `json:"sql"`
	Params    Params    `json:"params"`
	CreatedAt time.Time `json:"created_at"`
}

// Translation is the SQL template produced from a natural-language request.
type Translation struct {
	SQL    string `json:"sql"`
	Params Params `json:"params"`
}
