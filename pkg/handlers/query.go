package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/models"
	"github.com/fguintu/FlySQL/pkg/services"
)

// QueryResponse is returned by POST /api/query.
type QueryResponse struct {
	Rows      []map[string]any `json:"rows"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	RowCount  int              `json:"row_count"`
	ElapsedMs float64          `json:"elapsed_ms"`
}

// QueryHandler serves ad-hoc query execution and its history.
type QueryHandler struct {
	queryService services.QueryService
	history      services.HistoryService
	logger       *zap.Logger
}

func NewQueryHandler(queryService services.QueryService, history services.HistoryService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		history:      history,
		logger:       logger.Named("query-handler"),
	}
}

func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Query)
	mux.HandleFunc("GET /api/history", h.History)
}

// Query handles POST /api/query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	page, err := h.queryService.RunSafeSelect(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp := QueryResponse{
		Rows:      page.Rows,
		Page:      page.Page,
		PageSize:  page.PageSize,
		RowCount:  page.RowCount,
		ElapsedMs: page.ElapsedMs,
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode query response", zap.Error(err))
	}
}

// History handles GET /api/history. Entries are most recent first.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, h.history.List()); err != nil {
		h.logger.Error("Failed to encode history response", zap.Error(err))
	}
}
