// Package ctxutil carries request-scoped identity through context.Context.
package ctxutil

import (
	"context"
)

type ctxKey string

const (
	accountIDKey ctxKey = "account_id"
	requestIDKey ctxKey = "request_id"
)

// WithAccountID stores the authenticated account in the context.
func WithAccountID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

// AccountIDFromCtx extracts the account from the context.
// Returns "" and false if the value is missing, empty, or of the wrong type.
func AccountIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
