package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/adapters/datasource"
	"github.com/fguintu/FlySQL/pkg/audit"
	"github.com/fguintu/FlySQL/pkg/logging"
	"github.com/fguintu/FlySQL/pkg/models"
	sqlpkg "github.com/fguintu/FlySQL/pkg/sql"
)

// QueryService runs client-supplied SELECT statements safely.
type QueryService interface {
	// RunSafeSelect validates, paginates and executes req, then records it
	// in history. Rejections are *apperrors.InvalidQueryError; database
	// failures are *apperrors.QueryExecutionError.
	RunSafeSelect(ctx context.Context, req *models.QueryRequest) (*models.QueryPage, error)
}

type queryService struct {
	executor        datasource.QueryExecutor
	rewriter        *sqlpkg.Rewriter
	history         HistoryService
	auditor         *audit.SecurityAuditor
	defaultPageSize int
	logger          *zap.Logger
}

// NewQueryService wires the validator, rewriter, executor, history store and
// security auditor. defaultPageSize applies when a request omits page_size.
func NewQueryService(
	executor datasource.QueryExecutor,
	rewriter *sqlpkg.Rewriter,
	history HistoryService,
	auditor *audit.SecurityAuditor,
	defaultPageSize int,
	logger *zap.Logger,
) QueryService {
	if defaultPageSize <= 0 {
		defaultPageSize = models.DefaultPageSize
	}
	return &queryService{
		executor:        executor,
		rewriter:        rewriter,
		history:         history,
		auditor:         auditor,
		defaultPageSize: defaultPageSize,
		logger:          logger.Named("query-service"),
	}
}

var _ QueryService = (*queryService)(nil)

func (s *queryService) RunSafeSelect(ctx context.Context, req *models.QueryRequest) (*models.QueryPage, error) {
	validation := sqlpkg.Validate(req.SQL)
	if validation.Error != nil {
		s.auditor.LogQueryRejected(ctx, req.SQL, validation.Error)
		return nil, validation.Error
	}

	if len(validation.TablesUsed) == 0 {
		s.logger.Debug("No allowlisted table found in query",
			zap.String("sql", logging.SanitizeQuery(validation.NormalizedSQL)))
	}
	for _, hit := range sqlpkg.CheckAllParameters(req.Params) {
		s.auditor.LogInjectionAttempt(ctx, audit.SQLInjectionDetails{
			ParamName:   hit.ParamName,
			ParamValue:  fmt.Sprint(hit.ParamValue),
			Fingerprint: hit.Fingerprint,
			SQL:         validation.NormalizedSQL,
		})
	}

	page := req.Page
	if page < 1 {
		page = models.DefaultPage
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.defaultPageSize
	}

	rewritten := s.rewriter.Rewrite(validation.NormalizedSQL, req.Params, page, pageSize)
	if !rewritten.Wrapped {
		s.logger.Debug("Query carries its own LIMIT; page size not enforced",
			zap.String("sql", logging.SanitizeQuery(validation.NormalizedSQL)))
	}

	result, err := s.executor.Execute(ctx, rewritten.SQL, rewritten.Args)
	if err != nil {
		return nil, err
	}

	s.history.Record(validation.NormalizedSQL, req.Params, result.RowCount, result.ElapsedMs)
	s.auditor.LogQueryExecution(ctx, audit.QueryExecutionDetails{
		SQL:        validation.NormalizedSQL,
		TablesUsed: validation.TablesUsed,
		RowCount:   result.RowCount,
		ElapsedMs:  result.ElapsedMs,
	})

	rows := result.Rows
	if rows == nil {
		rows = []map[string]any{}
	}
	return &models.QueryPage{
		Rows:      rows,
		Page:      page,
		PageSize:  rewritten.PageSize,
		RowCount:  result.RowCount,
		ElapsedMs: result.ElapsedMs,
	}, nil
}
