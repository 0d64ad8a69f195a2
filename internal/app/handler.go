package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flashcards-backend/internal/config"
	"github.com/heartmarshall/flashcards-backend/internal/domain"
	"github.com/heartmarshall/flashcards-backend/internal/service/review"
	"github.com/heartmarshall/flashcards-backend/internal/transport/middleware"
	"github.com/heartmarshall/flashcards-backend/internal/transport/rest"
)

type reviewAPI interface {
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

// HandlerDeps are the collaborators of the HTTP API.
type HandlerDeps struct {
	Review   reviewAPI
	Store    interface{ Ping(ctx context.Context) error }
	Caches   interface{ Len() int }
	Verifier interface {
		ValidateToken(ctx context.Context, token string) (string, error)
	}
}

// NewHandler builds the routed and middleware-wrapped HTTP handler.
func NewHandler(cfg *config.Config, logger *slog.Logger, deps HandlerDeps) http.Handler {
	mux := http.NewServeMux()

	health := rest.NewHealthHandler(deps.Store, deps.Caches, cfg.Database.Driver, BuildVersion())
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	rest.NewReviewHandler(deps.Review, logger).Register(mux)

	return middleware.Chain(
		middleware.RequestID,
		middleware.CORS(cfg.CORS),
		middleware.Auth(deps.Verifier),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)(mux)
}
