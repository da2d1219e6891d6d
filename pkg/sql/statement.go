package sql

import "strings"

// StatementType is the coarse kind of a SQL statement, taken from its
// leading keyword.
type StatementType string

const (
	StatementSelect  StatementType = "SELECT"
	StatementInsert  StatementType = "INSERT"
	StatementUpdate  StatementType = "UPDATE"
	StatementDelete  StatementType = "DELETE"
	StatementDDL     StatementType = "DDL" // CREATE, ALTER, DROP, TRUNCATE
	StatementUnknown StatementType = "UNKNOWN"
)

// DetectStatementType classifies a statement by its first keyword.
// WITH is not treated as SELECT: ad-hoc statements must start with select.
func DetectStatementType(sqlQuery string) StatementType {
	normalized := strings.ToLower(strings.TrimSpace(sqlQuery))

	switch {
	case strings.HasPrefix(normalized, "select"):
		return StatementSelect
	case strings.HasPrefix(normalized, "insert"):
		return StatementInsert
	case strings.HasPrefix(normalized, "update"):
		return StatementUpdate
	case strings.HasPrefix(normalized, "delete"):
		return StatementDelete
	case strings.HasPrefix(normalized, "create"),
		strings.HasPrefix(normalized, "alter"),
		strings.HasPrefix(normalized, "drop"),
		strings.HasPrefix(normalized, "truncate"):
		return StatementDDL
	default:
		return StatementUnknown
	}
}

// IsSelect reports whether the trimmed, lowercased statement starts with "select".
func IsSelect(sqlQuery string) bool {
	return DetectStatementType(sqlQuery) == StatementSelect
}

// tokenized lowercases sqlQuery, collapses all whitespace runs to a single
// space and pads both ends, so whole tokens can be found with " tok ".
func tokenized(sqlQuery string) string {
	return " " + strings.Join(strings.Fields(strings.ToLower(sqlQuery)), " ") + " "
}

// containsToken reports whether tok appears in sqlQuery as a whole
// whitespace-delimited token.
func containsToken(sqlQuery, tok string) bool {
	return strings.Contains(tokenized(sqlQuery), " "+strings.ToLower(tok)+" ")
}
