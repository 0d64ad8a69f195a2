package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
	"github.com/heartmarshall/flashcards-backend/internal/service/review"
)

type reviewService interface {
	StartSession(ctx context.Context, input review.StartSessionInput) (review.Snapshot, error)
	GetSession(ctx context.Context) (review.Snapshot, error)
	ShowBack(ctx context.Context) (review.Snapshot, error)
	Rate(ctx context.Context, input review.RateInput) (review.RateOutput, error)
	CompleteSession(ctx context.Context) (domain.CardSetProgress, error)
	ResetSession(ctx context.Context) error
	GetDueCards(ctx context.Context, input review.GetDueCardsInput) ([]domain.Card, error)
	GetCardSetProgress(ctx context.Context, cardSetID string) (domain.CardSetProgress, error)
	GetAllProgress(ctx context.Context) (map[string]domain.CardSetProgress, error)
	ResetCardSetProgress(ctx context.Context, cardSetID string) (domain.CardSetProgress, error)
	ForceSync(ctx context.Context) error
	GetCacheStats(ctx context.Context) (domain.CacheStats, error)
}

const maxBodyBytes = 1 << 16

// ReviewHandler exposes the review service over JSON/HTTP.
type ReviewHandler struct {
	svc reviewService
	log *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(svc reviewService, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log.With("handler", "review")}
}

// Register mounts the review routes on mux under /api/v1.
func (h *ReviewHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/session", h.StartSession)
	mux.HandleFunc("GET /api/v1/session", h.GetSession)
	mux.HandleFunc("DELETE /api/v1/session", h.ResetSession)
	mux.HandleFunc("POST /api/v1/session/show-back", h.ShowBack)
	mux.HandleFunc("POST /api/v1/session/rate", h.Rate)
	mux.HandleFunc("POST /api/v1/session/complete", h.CompleteSession)

	mux.HandleFunc("GET /api/v1/card-sets/{id}/due", h.GetDueCards)
	mux.HandleFunc("GET /api/v1/progress", h.GetAllProgress)
	mux.HandleFunc("GET /api/v1/progress/{id}", h.GetCardSetProgress)
	mux.HandleFunc("DELETE /api/v1/progress/{id}", h.ResetCardSetProgress)

	mux.HandleFunc("POST /api/v1/sync", h.ForceSync)
	mux.HandleFunc("GET /api/v1/cache/stats", h.GetCacheStats)
}

type startSessionRequest struct {
	CardSetID string `json:"cardSetId"`
	DueOnly   bool   `json:"dueOnly"`
	Limit     int    `json:"limit"`
}

type rateRequest struct {
	CardID  string `json:"cardId"`
	Quality string `json:"quality"`
}

type dueCardsResponse struct {
	Cards []domain.Card `json:"cards"`
}

func (h *ReviewHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	snap, err := h.svc.StartSession(r.Context(), review.StartSessionInput{
		CardSetID: req.CardSetID,
		DueOnly:   req.DueOnly,
		Limit:     req.Limit,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetSession(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ReviewHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetSession(r.Context()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) ShowBack(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.ShowBack(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *ReviewHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	// Unknown names map to -1 so the service reports them as invalid.
	q, ok := domain.ParseQuality(req.Quality)
	if !ok {
		q = -1
	}

	out, err := h.svc.Rate(r.Context(), review.RateInput{CardID: req.CardID, Quality: q})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.CompleteSession(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ReviewHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	cards, err := h.svc.GetDueCards(r.Context(), review.GetDueCardsInput{
		CardSetID: r.PathValue("id"),
		Limit:     limit,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	writeJSON(w, http.StatusOK, dueCardsResponse{Cards: cards})
}

func (h *ReviewHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.GetAllProgress(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *ReviewHandler) GetCardSetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetCardSetProgress(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ReviewHandler) ResetCardSetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ResetCardSetProgress(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ReviewHandler) ForceSync(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ForceSync(r.Context()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetCacheStats(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// decodeBody reads a JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "malformed JSON")
	}
	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}
