package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/services"
)

// NLQueryRequest is the body of POST /api/nl2sql.
type NLQueryRequest struct {
	Query string `json:"query"`
}

// NLHandler translates natural-language flight questions into SQL.
type NLHandler struct {
	translator services.Translator
	logger     *zap.Logger
}

func NewNLHandler(translator services.Translator, logger *zap.Logger) *NLHandler {
	return &NLHandler{
		translator: translator,
		logger:     logger.Named("nl2sql-handler"),
	}
}

func (h *NLHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/nl2sql", h.Translate)
}

// Translate handles POST /api/nl2sql. Unrecognised text still gets a
// runnable fallback statement.
func (h *NLHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req NLQueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, h.translator.Translate(req.Query)); err != nil {
		h.logger.Error("Failed to encode translation response", zap.Error(err))
	}
}
