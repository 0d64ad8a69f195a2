package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flashcards-backend/internal/cache"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
	"github.com/heartmarshall/flashcards-backend/pkg/ctxutil"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
	Retryable bool                `json:"retryable,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

// toErrorResponse maps a service error onto an HTTP status and body.
func toErrorResponse(err error) (int, ErrorResponse) {
	var (
		valErr    *domain.ValidationError
		remoteErr *domain.RemoteError
	)

	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest, ErrorResponse{Code: "VALIDATION", Message: "invalid input", Fields: valErr.Errors}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHENTICATED", Message: "authentication required"}
	case errors.Is(err, domain.ErrSessionNotActive):
		return http.StatusConflict, ErrorResponse{Code: "SESSION_NOT_ACTIVE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.As(err, &remoteErr):
		return remoteStatus(remoteErr)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Code: "FORBIDDEN", Message: "forbidden"}
	case errors.Is(err, cache.ErrNotLoaded), errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{Code: "UNAVAILABLE", Message: "storage unavailable", Retryable: true}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "internal server error"}
	}
}

func remoteStatus(e *domain.RemoteError) (int, ErrorResponse) {
	resp := ErrorResponse{Code: e.Code.String(), Message: e.Message, Retryable: e.Retryable}
	switch e.Code {
	case domain.RemoteCodeValidation:
		return http.StatusUnprocessableEntity, resp
	case domain.RemoteCodePermission:
		return http.StatusForbidden, resp
	case domain.RemoteCodeNotFound:
		return http.StatusNotFound, resp
	case domain.RemoteCodeTransient:
		return http.StatusServiceUnavailable, resp
	default:
		return http.StatusBadGateway, resp
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, resp := toErrorResponse(err)
	resp.RequestID = ctxutil.RequestIDFromCtx(r.Context())

	if status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
