package services

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/models"
	sqlpkg "github.com/fguintu/FlySQL/pkg/sql"
)

// DefaultHistoryLimit is the number of entries kept when no limit is configured.
const DefaultHistoryLimit = 100

// HistoryService keeps a bounded, in-memory log of executed ad-hoc queries.
type HistoryService interface {
	// Record appends an entry for a successfully executed statement. Only
	// named params are kept.
	Record(sqlQuery string, params models.Params, rowCount int, elapsedMs float64)

	// List returns the retained entries, most recently recorded first.
	List() []models.HistoryEntry
}

type historyService struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
	limit   int
	now     func() time.Time
	logger  *zap.Logger
}

// NewHistoryService creates a history store holding at most limit entries.
// A non-positive limit means DefaultHistoryLimit.
func NewHistoryService(limit int, logger *zap.Logger) HistoryService {
	return newHistoryService(limit, time.Now, logger)
}

func newHistoryService(limit int, now func() time.Time, logger *zap.Logger) *historyService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &historyService{
		entries: make([]models.HistoryEntry, 0, limit),
		limit:   limit,
		now:     now,
		logger:  logger.Named("history-service"),
	}
}

var _ HistoryService = (*historyService)(nil)

func (s *historyService) Record(sqlQuery string, params models.Params, rowCount int, elapsedMs float64) {
	entry := models.HistoryEntry{
		SQL:        sqlQuery,
		RowCount:   rowCount,
		ElapsedMs:  elapsedMs,
		TablesUsed: sqlpkg.ScanTables(sqlQuery),
		ExecutedAt: s.now().UTC(),
	}
	if params.IsNamed() {
		kept := params.Clone()
		entry.Params = &kept
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.limit; over > 0 {
		// Copy the tail so evicted entries are not pinned by the backing array.
		s.entries = slices.Clone(s.entries[over:])
		s.logger.Debug("Evicted history entries", zap.Int("evicted", over))
	}
}

func (s *historyService) List() []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryEntry, len(s.entries))
	for i, entry := range s.entries {
		out[len(s.entries)-1-i] = entry
	}
	return out
}
