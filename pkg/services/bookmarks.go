package services

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/apperrors"
	"github.com/fguintu/FlySQL/pkg/logging"
	"github.com/fguintu/FlySQL/pkg/models"
)

// BookmarkService stores named, reusable statements in memory.
// Bookmarks are never evicted and names need not be unique.
type BookmarkService interface {
	Add(name, sqlQuery string, params models.Params) (*models.Bookmark, error)
	List() []models.Bookmark
}

type bookmarkService struct {
	mu        sync.Mutex
	bookmarks []models.Bookmark
	now       func() time.Time
	logger    *zap.Logger
}

func NewBookmarkService(logger *zap.Logger) BookmarkService {
	return &bookmarkService{
		now:    time.Now,
		logger: logger.Named("bookmark-service"),
	}
}

var _ BookmarkService = (*bookmarkService)(nil)

// Add validates and appends a bookmark. Blank name or SQL fails with a
// *apperrors.ValidationError. Positional or absent params are stored as an
// empty mapping.
func (s *bookmarkService) Add(name, sqlQuery string, params models.Params) (*models.Bookmark, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(sqlQuery) == "" {
		return nil, apperrors.NewValidationError(apperrors.ErrMissingBookmark)
	}

	if params.IsNamed() {
		params = params.Clone()
	} else {
		if params.Len() > 0 {
			s.logger.Warn("Dropping positional params from bookmark",
				zap.String("name", name),
				zap.Int("count", params.Len()))
		}
		params = models.Named()
	}

	bookmark := models.Bookmark{
		Name:      name,
		SQL:       sqlQuery,
		Params:    params,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.bookmarks = append(s.bookmarks, bookmark)
	s.mu.Unlock()

	s.logger.Info("Bookmark added",
		zap.String("name", name),
		zap.String("sql", logging.SanitizeQuery(sqlQuery)))

	return &bookmark, nil
}

func (s *bookmarkService) List() []models.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}
