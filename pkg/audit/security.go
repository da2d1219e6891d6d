// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events about ad-hoc queries in structured JSON
// format for easy parsing by security information and event management systems.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/logging"
	"github.com/fguintu/FlySQL/pkg/middleware"
)

// maxParamValueLength bounds parameter values copied into audit events.
const maxParamValueLength = 64

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags a bind value.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventQueryRejected is logged when a statement fails validation.
	EventQueryRejected SecurityEventType = "query_rejected"
	// EventQueryExecution is logged for every executed ad-hoc query.
	EventQueryExecution SecurityEventType = "query_execution"
)

// SecurityEvent represents an auditable security event.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning
}

// SQLInjectionDetails describes a bind value that matched an injection
// pattern. Values are bound, never interpolated, so a match is a signal of
// intent rather than a successful attack.
type SQLInjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
	SQL         string `json:"sql"`
}

// QueryRejectedDetails describes a statement refused before execution.
type QueryRejectedDetails struct {
	SQL    string `json:"sql"`
	Reason string `json:"reason"`
}

// QueryExecutionDetails describes an executed ad-hoc query.
type QueryExecutionDetails struct {
	SQL        string   `json:"sql"`
	TablesUsed []string `json:"tables_used,omitempty"`
	RowCount   int      `json:"row_count"`
	ElapsedMs  float64  `json:"elapsed_ms"`
}

// SecurityAuditor logs security events under the "security_audit" logger
// namespace.
type SecurityAuditor struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{
		logger: logger.Named("security_audit"),
		now:    time.Now,
	}
}

func (a *SecurityAuditor) event(ctx context.Context, eventType SecurityEventType, severity string, details any) (SecurityEvent, string) {
	event := SecurityEvent{
		Timestamp: a.now().UTC(),
		EventType: eventType,
		RequestID: middleware.RequestIDFromContext(ctx),
		Details:   details,
		Severity:  severity,
	}
	// Marshaling known types does not fail.
	eventJSON, _ := json.Marshal(event)
	return event, string(eventJSON)
}

// LogInjectionAttempt records a bind value that looks like SQL injection.
// SQL and the value are sanitized and truncated before logging.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, details SQLInjectionDetails) {
	details.SQL = logging.SanitizeQuery(details.SQL)
	details.ParamValue = logging.TruncateString(details.ParamValue, maxParamValueLength)

	event, eventJSON := a.event(ctx, EventSQLInjectionAttempt, "warning", details)

	a.logger.Warn("SQL injection pattern in parameter",
		zap.String("event_json", eventJSON),
		zap.String("request_id", event.RequestID),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("severity", event.Severity),
	)
}

// LogQueryRejected records a statement refused by validation.
func (a *SecurityAuditor) LogQueryRejected(ctx context.Context, sqlQuery string, reason error) {
	details := QueryRejectedDetails{
		SQL:    logging.SanitizeQuery(sqlQuery),
		Reason: reason.Error(),
	}
	event, eventJSON := a.event(ctx, EventQueryRejected, "warning", details)

	a.logger.Warn("Query rejected",
		zap.String("event_json", eventJSON),
		zap.String("request_id", event.RequestID),
		zap.String("reason", details.Reason),
		zap.String("severity", event.Severity),
	)
}

// LogQueryExecution records an executed ad-hoc query. This can generate high
// log volume.
func (a *SecurityAuditor) LogQueryExecution(ctx context.Context, details QueryExecutionDetails) {
	details.SQL = logging.SanitizeQuery(details.SQL)
	event, eventJSON := a.event(ctx, EventQueryExecution, "info", details)

	a.logger.Info("Query executed",
		zap.String("event_json", eventJSON),
		zap.String("request_id", event.RequestID),
		zap.Int("row_count", details.RowCount),
		zap.Float64("elapsed_ms", details.ElapsedMs),
		zap.String("severity", event.Severity),
	)
}
