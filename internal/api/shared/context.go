package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys set by the API layer.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's ID as a string.
	UserIDContextKey ContextKey = "userID"

	// IsAdminContextKey holds the authenticated user's admin flag.
	IsAdminContextKey ContextKey = "isAdmin"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithIdentity stores the authenticated caller in the context.
func WithIdentity(ctx context.Context, userID string, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, userID)
	return context.WithValue(ctx, IsAdminContextKey, isAdmin)
}

// Identity returns the authenticated caller stored by WithIdentity.
// ok is false when the request was not authenticated.
func Identity(ctx context.Context) (userID string, isAdmin bool, ok bool) {
	userID, ok = ctx.Value(UserIDContextKey).(string)
	if !ok || userID == "" {
		return "", false, false
	}
	isAdmin, _ = ctx.Value(IsAdminContextKey).(bool)
	return userID, isAdmin, true
}
