package sql

import "strings"

// AllowedTables are the airportdb tables ad-hoc queries are expected to read.
var AllowedTables = []string{
	"airline",
	"airplane",
	"airplane_type",
	"airport",
	"airport_geo",
	"airport_reachable",
	"booking",
	"employee",
	"flight",
	"flight_log",
	"flightschedule",
	"passenger",
	"passengerdetails",
	"weatherdata",
}

// ScanTables returns the allowlisted tables that appear in sqlQuery as whole
// tokens, in allowlist order.
//
// The scan is intentionally permissive and never rejects a statement: joins,
// aliases, schema-qualified names and subqueries hide table names from a
// token scan, so an empty result does not mean the statement is unsafe. The
// result is only logged and kept on history entries.
func ScanTables(sqlQuery string) []string {
	padded := tokenized(sqlQuery)
	var found []string
	for _, table := range AllowedTables {
		if strings.Contains(padded, " "+table+" ") {
			found = append(found, table)
		}
	}
	return found
}
