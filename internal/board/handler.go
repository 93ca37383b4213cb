package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/document"
	"github.com/inamate/whiteboard/internal/export"
)

// DocumentSource returns the current committed document of a board, live
// when the board is open in a room.
type DocumentSource interface {
	Document(ctx context.Context, boardID string) (*document.Document, error)
}

type Handler struct {
	service *Service
	docs    DocumentSource
}

func NewHandler(service *Service, docs DocumentSource) *Handler {
	return &Handler{service: service, docs: docs}
}

type createRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
}

type joinRequest struct {
	Passphrase string `json:"passphrase"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	board, err := h.service.Create(r.Context(), req.Name, req.Passphrase)
	if err != nil {
		slog.Error("create board failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, board)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	board, err := h.service.Get(r.Context(), boardID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list boards failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, boards)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]

	var req joinRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	token, err := h.service.Join(r.Context(), boardID, req.Passphrase)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Shapes returns the committed shapes of a board.
func (h *Handler) Shapes(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, doc.Shapes)
}

// ExportPDF renders the committed shapes of a board as a one-page PDF.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	boardID := mux.Vars(r)["boardId"]
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", boardID+".pdf"))
	if err := export.PDF(w, doc.Shapes); err != nil {
		slog.Error("export pdf failed", "board", boardID, "error", err)
	}
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	boardID := mux.Vars(r)["boardId"]

	if _, err := h.service.Authorize(r.Context(), boardID, auth.TokenFromRequest(r)); err != nil {
		handleServiceError(w, err)
		return nil, false
	}

	doc, err := h.docs.Document(r.Context(), boardID)
	if err != nil {
		handleServiceError(w, err)
		return nil, false
	}
	return doc, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, auth.ErrInvalidPassphrase):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid passphrase"})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
