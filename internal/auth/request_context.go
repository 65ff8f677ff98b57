package auth

import (
	"context"
	"net/http"
	"strings"

	gormModels "gabber/annotator/internal/models/gorm"
)

type contextKey string

var (
	callerKey    contextKey = "caller"
	requestIDKey contextKey = "request_id"
)

// SetCaller stores the authenticated user for handlers downstream
func SetCaller(ctx context.Context, user *gormModels.User) context.Context {
	return context.WithValue(ctx, callerKey, user)
}

// GetCaller returns the authenticated user, or nil for anonymous requests
func GetCaller(ctx context.Context) *gormModels.User {
	if user, ok := ctx.Value(callerKey).(*gormModels.User); ok {
		return user
	}
	return nil
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// BearerToken extracts the token of an "Authorization: Bearer ..." header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
