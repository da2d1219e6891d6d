package services

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/models"
)

// FallbackSQL is returned for any request the translator does not recognise.
const FallbackSQL = "SELECT flight_id, flightno, departure, arrival FROM flight LIMIT 100"

// Translator turns a narrow natural-language phrasing into a parameterised
// SQL template. Only "show flights from <ORIGIN> to <DEST>" with an optional
// today / tomorrow / this week qualifier is understood; everything else gets
// FallbackSQL. It never fails.
type Translator interface {
	Translate(text string) models.Translation
}

type translator struct {
	logger *zap.Logger
}

func NewTranslator(logger *zap.Logger) Translator {
	return &translator{logger: logger.Named("nl2sql")}
}

var _ Translator = (*translator)(nil)

var flightsPattern = regexp.MustCompile(
	`(?i)^\s*show\s+flights\s+from\s+(\w+)\s+to\s+(\w+)(?:\s+(today|tomorrow|this\s+week))?\s*[?.!]?\s*$`)

// Date filters compare against the database clock. date_trunc('week', ...)
// starts weeks on Monday, so equal truncations share an ISO year-week.
var dateFilters = map[string]string{
	"today":     "f.departure::date = CURRENT_DATE",
	"tomorrow":  "f.departure::date = CURRENT_DATE + 1",
	"this week": "date_trunc('week', f.departure) = date_trunc('week', CURRENT_DATE)",
}

const flightsTemplate = `SELECT f.flight_id, f.flightno, al.airlinename, a1.iata AS origin, a2.iata AS dest, f.departure, f.arrival
FROM flight f
JOIN airport a1 ON f."from" = a1.airport_id
JOIN airport a2 ON f."to" = a2.airport_id
JOIN airline al ON f.airline_id = al.airline_id
WHERE a1.iata = :origin AND a2.iata = :dest`

func (t *translator) Translate(text string) models.Translation {
	m := flightsPattern.FindStringSubmatch(text)
	if m == nil {
		t.logger.Debug("No translation pattern matched, using fallback",
			zap.Int("length", len(text)))
		return models.Translation{SQL: FallbackSQL, Params: models.Named()}
	}

	origin := strings.ToUpper(m[1])
	dest := strings.ToUpper(m[2])

	var b strings.Builder
	b.WriteString(flightsTemplate)
	if qualifier := strings.Join(strings.Fields(strings.ToLower(m[3])), " "); qualifier != "" {
		b.WriteString(" AND ")
		b.WriteString(dateFilters[qualifier])
	}
	b.WriteString("\nORDER BY f.departure DESC\nLIMIT 200")

	return models.Translation{
		SQL: b.String(),
		Params: models.Named(
			models.Param{Name: "origin", Value: origin},
			models.Param{Name: "dest", Value: dest},
		),
	}
}
