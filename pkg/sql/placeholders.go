package sql

import (
	"strconv"
	"strings"

	"github.com/fguintu/FlySQL/pkg/models"
)

// BindNamed replaces :name placeholders with PostgreSQL positional
// parameters and returns the values they refer to.
//
// Only names the statement references are numbered, in params insertion
// order, so the $N sequence has no gaps and the returned args line up with
// it. Unreferenced keys are ignored:
//
//	sql := "SELECT * FROM airport WHERE iata = :dest OR iata = :origin"
//	params := models.Named(
//		models.Param{Name: "note", Value: "x"},
//		models.Param{Name: "origin", Value: "ORD"},
//		models.Param{Name: "dest", Value: "JFK"},
//	)
//	bound, args := BindNamed(sql, params)
//	// bound == "SELECT * FROM airport WHERE iata = $2 OR iata = $1"
//	// args  == []any{"ORD", "JFK"}
//
// Placeholders inside string literals, quoted identifiers and comments are
// left alone, as are :: casts. A placeholder with no supplied value is kept
// verbatim so the database reports it. Positional params pass through with
// the SQL unchanged.
func BindNamed(sqlQuery string, params models.Params) (string, []any) {
	if !params.IsNamed() {
		return sqlQuery, params.Values()
	}

	referenced := make(map[string]bool)
	scanPlaceholders(sqlQuery, func(name string) string {
		referenced[name] = true
		return ":" + name
	})

	positions := make(map[string]int, len(referenced))
	args := make([]any, 0, len(referenced))
	for _, name := range params.Names() {
		if !referenced[name] {
			continue
		}
		value, _ := params.Get(name)
		args = append(args, value)
		positions[name] = len(args)
	}

	bound := scanPlaceholders(sqlQuery, func(name string) string {
		if pos, ok := positions[name]; ok {
			return "$" + strconv.Itoa(pos)
		}
		return ":" + name
	})
	return bound, args
}

// scanPlaceholders copies sqlQuery, replacing each :name placeholder outside
// literals and comments with replace(name).
func scanPlaceholders(sqlQuery string, replace func(name string) string) string {
	var b strings.Builder
	b.Grow(len(sqlQuery))

	i := 0
	for i < len(sqlQuery) {
		if end, ok := skipLiteralOrComment(sqlQuery, i); ok {
			b.WriteString(sqlQuery[i:end])
			i = end
			continue
		}

		ch := sqlQuery[i]
		switch {
		case ch == ':' && i+1 < len(sqlQuery) && sqlQuery[i+1] == ':':
			// Type cast (value::date); copy both colons.
			b.WriteString("::")
			i += 2
			continue

		case ch == ':' && i+1 < len(sqlQuery) && isNameStart(sqlQuery[i+1]):
			end := i + 2
			for end < len(sqlQuery) && isNamePart(sqlQuery[end]) {
				end++
			}
			b.WriteString(replace(sqlQuery[i+1 : end]))
			i = end
			continue
		}

		b.WriteByte(ch)
		i++
	}

	return b.String()
}

// skipLiteralOrComment reports whether a string literal, quoted identifier
// or comment opens at i, and if so returns the index just past it.
// Backslashes are ordinary characters (standard_conforming_strings).
func skipLiteralOrComment(s string, i int) (int, bool) {
	switch {
	case s[i] == '\'' || s[i] == '"':
		return skipQuoted(s, i, s[i]), true

	case s[i] == '-' && i+1 < len(s) && s[i+1] == '-':
		end := strings.IndexByte(s[i:], '\n')
		if end < 0 {
			return len(s), true
		}
		return i + end, true

	case s[i] == '/' && i+1 < len(s) && s[i+1] == '*':
		end := strings.Index(s[i+2:], "*/")
		if end < 0 {
			return len(s), true
		}
		return i + 2 + end + 2, true
	}
	return i, false
}

// skipQuoted returns the index just past the literal or identifier that
// opens at start. Doubled quotes stay inside the literal.
func skipQuoted(s string, start int, quote byte) int {
	i := start + 1
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
