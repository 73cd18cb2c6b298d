package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/magifolio/backend/src/logger"
)

func init() {
	logger.InitLogger("error")
}

func TestSessionMiddlewareAssignsCookie(t *testing.T) {
	var captured string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetSessionIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/result", nil))

	require.NotEmpty(t, captured)
	_, err := uuid.Parse(captured)
	assert.NoError(t, err, "session ID should be a UUID")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, captured, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddlewareReusesValidCookie(t *testing.T) {
	existing := uuid.New().String()

	var captured string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetSessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/result", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: existing})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, existing, captured)
	assert.Empty(t, rec.Result().Cookies(), "no new cookie should be set")
}

func TestSessionMiddlewareRejectsMalformedCookie(t *testing.T) {
	var captured string
	handler := SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetSessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/result", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEqual(t, "not-a-uuid", captured)
	_, err := uuid.Parse(captured)
	assert.NoError(t, err)
	assert.Len(t, rec.Result().Cookies(), 1, "a replacement cookie should be set")
}
