package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/models"
	"github.com/fguintu/FlySQL/pkg/services"
)

// AddBookmarkRequest is the body of POST /api/bookmarks.
type AddBookmarkRequest struct {
	Name   string        `json:"name"`
	SQL    string        `json:"sql"`
	Params models.Params `json:"params"`
}

// BookmarkHandler serves the bookmark store.
type BookmarkHandler struct {
	bookmarks services.BookmarkService
	logger    *zap.Logger
}

func NewBookmarkHandler(bookmarks services.BookmarkService, logger *zap.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarks: bookmarks,
		logger:    logger.Named("bookmark-handler"),
	}
}

func (h *BookmarkHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bookmarks", h.List)
	mux.HandleFunc("POST /api/bookmarks", h.Add)
}

// List handles GET /api/bookmarks.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, h.bookmarks.List()); err != nil {
		h.logger.Error("Failed to encode bookmarks response", zap.Error(err))
	}
}

// Add handles POST /api/bookmarks.
func (h *BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddBookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if _, err := h.bookmarks.Add(req.Name, req.SQL, req.Params); err != nil {
		writeError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"ok": true}); err != nil {
		h.logger.Error("Failed to encode bookmark response", zap.Error(err))
	}
}
