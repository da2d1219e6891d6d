package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fguintu/FlySQL/pkg/models"
)

func TestBindNamed(t *testing.T) {
	origDest := models.Named(
		models.Param{Name: "origin", Value: "ORD"},
		models.Param{Name: "dest", Value: "JFK"},
	)

	tests := []struct {
		name         string
		sql          string
		params       models.Params
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "numbered by insertion order, not appearance",
			sql:          "SELECT * FROM airport WHERE iata = :dest OR iata = :origin",
			params:       origDest,
			expectedSQL:  "SELECT * FROM airport WHERE iata = $2 OR iata = $1",
			expectedArgs: []any{"ORD", "JFK"},
		},
		{
			name:         "repeated placeholder reuses position",
			sql:          "SELECT :origin, :origin",
			params:       origDest,
			expectedSQL:  "SELECT $1, $1",
			expectedArgs: []any{"ORD"},
		},
		{
			name:         "casts are not placeholders",
			sql:          "SELECT departure::date FROM flight WHERE iata = :origin",
			params:       origDest,
			expectedSQL:  "SELECT departure::date FROM flight WHERE iata = $1",
			expectedArgs: []any{"ORD"},
		},
		{
			name:         "string literals and quoted identifiers are untouched",
			sql:          `SELECT ':origin', ":dest" FROM flight WHERE x = :dest`,
			params:       origDest,
			expectedSQL:  `SELECT ':origin', ":dest" FROM flight WHERE x = $1`,
			expectedArgs: []any{"JFK"},
		},
		{
			name:         "comments are untouched",
			sql:          "SELECT 1 -- :origin\nFROM flight /* :dest */ WHERE a = :origin",
			params:       origDest,
			expectedSQL:  "SELECT 1 -- :origin\nFROM flight /* :dest */ WHERE a = $1",
			expectedArgs: []any{"ORD"},
		},
		{
			name:         "unknown placeholder is kept verbatim",
			sql:          "SELECT * FROM flight WHERE flightno = :flightno",
			params:       origDest,
			expectedSQL:  "SELECT * FROM flight WHERE flightno = :flightno",
			expectedArgs: []any{},
		},
		{
			name: "unreferenced keys leave no gap",
			sql:  "SELECT * FROM airport WHERE iata = :code",
			params: models.Named(
				models.Param{Name: "note", Value: "x"},
				models.Param{Name: "code", Value: "JFK"},
			),
			expectedSQL:  "SELECT * FROM airport WHERE iata = $1",
			expectedArgs: []any{"JFK"},
		},
		{
			name: "referenced names keep insertion order around unused keys",
			sql:  "SELECT * FROM airport WHERE iata = :dest OR iata = :origin",
			params: models.Named(
				models.Param{Name: "origin", Value: "ORD"},
				models.Param{Name: "note", Value: "x"},
				models.Param{Name: "dest", Value: "JFK"},
			),
			expectedSQL:  "SELECT * FROM airport WHERE iata = $2 OR iata = $1",
			expectedArgs: []any{"ORD", "JFK"},
		},
		{
			name:         "empty named params",
			sql:          "SELECT 1",
			params:       models.Named(),
			expectedSQL:  "SELECT 1",
			expectedArgs: []any{},
		},
		{
			name:         "positional params pass through",
			sql:          "SELECT * FROM flight WHERE flight_id = $1",
			params:       models.Positional(int64(7)),
			expectedSQL:  "SELECT * FROM flight WHERE flight_id = $1",
			expectedArgs: []any{int64(7)},
		},
		{
			name:         "empty params",
			sql:          "SELECT 1",
			params:       models.Params{},
			expectedSQL:  "SELECT 1",
			expectedArgs: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := BindNamed(tt.sql, tt.params)
			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
