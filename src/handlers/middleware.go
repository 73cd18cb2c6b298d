package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/username/magifolio/backend/src/logger"
)

type contextKey string

const (
	requestIDContextKey contextKey = "requestID"
	sessionIDContextKey contextKey = "sessionID"
)

const sessionCookieName = "magifolio_session"

// ContextualLoggerMiddleware creates a request-scoped logger carrying a
// request ID and embeds it in the context.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware assigns every client an anonymous session ID cookie.
// The ID keys uploaded investment data; there are no user accounts.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				sessionID = cookie.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   30 * 24 * 60 * 60, // 30 days
			})
		}

		ctxLogger := logger.FromContext(r.Context()).With(slog.String("sessionID", sessionID))
		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, sessionIDContextKey, sessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionIDFromContext returns the session ID set by SessionMiddleware.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	return sessionID, ok && sessionID != ""
}
