// Package sql provides validation and rewriting for ad-hoc SELECT statements.
package sql

import (
	"strings"

	"github.com/fguintu/FlySQL/pkg/apperrors"
)

// ValidationResult contains the normalized SQL and any validation errors.
type ValidationResult struct {
	NormalizedSQL string

	// TablesUsed is the advisory allowlist scan result. It never causes
	// rejection.
	TablesUsed []string

	Error error
}

// Validate checks that sqlQuery is a single SELECT statement.
//
// The validation order is:
// 1. Trim whitespace and strip one trailing semicolon (normalize)
// 2. Require a "select" prefix (case-insensitive)
// 3. Reject any remaining semicolon outside literals and comments
// 4. Scan for allowlisted tables (advisory only)
//
// Errors are *apperrors.InvalidQueryError.
func Validate(sqlQuery string) ValidationResult {
	normalized := stripTrailingSemicolon(strings.TrimSpace(sqlQuery))

	if !IsSelect(normalized) {
		return ValidationResult{Error: apperrors.NewInvalidQuery(apperrors.ErrNotSelect)}
	}

	if hasSemicolonOutsideStrings(normalized) {
		return ValidationResult{Error: apperrors.NewInvalidQuery(apperrors.ErrMultipleStatements)}
	}

	return ValidationResult{
		NormalizedSQL: normalized,
		TablesUsed:    ScanTables(normalized),
	}
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals, quoted identifiers and comments.
//
// pgx sends statements over the extended protocol, which refuses multiple
// commands in one string as well; this check rejects them before they reach
// the database and gives a clearer error.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	i := 0
	for i < len(sqlQuery) {
		if end, ok := skipLiteralOrComment(sqlQuery, i); ok {
			i = end
			continue
		}
		if sqlQuery[i] == ';' {
			return true
		}
		i++
	}
	return false
}

// stripTrailingSemicolon removes a trailing semicolon and any whitespace after it.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")

	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}

	return sqlQuery
}
