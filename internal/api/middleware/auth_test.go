package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oms-backend/internal/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("middleware-test-secret-key-0123456789", time.Hour)
}

func issueTestToken(t *testing.T, svc *auth.JWTService, userID, role string) string {
	t.Helper()
	token, _, err := svc.GenerateToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return token
}

// claimsRecorder records the claims the middleware injected into the context.
func claimsRecorder(captured **auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := GetUserFromContext(r.Context()); ok {
			*captured = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractToken_Cookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractToken_BearerHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "header-token", ExtractToken(r))
}

func TestExtractToken_CookieWinsOverHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	r.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractToken_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, "", ExtractToken(r))
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	svc := newTestJWTService()
	handler := AuthMiddleware(svc)(claimsRecorder(new(*auth.Claims)))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	svc := newTestJWTService()
	handler := AuthMiddleware(svc)(claimsRecorder(new(*auth.Claims)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthMiddleware_ValidToken_InjectsClaims(t *testing.T) {
	svc := newTestJWTService()
	var captured *auth.Claims
	handler := AuthMiddleware(svc)(claimsRecorder(&captured))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+issueTestToken(t, svc, "user-42", "staff"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-42", captured.UserID)
	assert.Equal(t, "staff", captured.Role)
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	svc := newTestJWTService()
	var captured *auth.Claims
	handler := AuthMiddleware(svc)(claimsRecorder(&captured))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: issueTestToken(t, svc, "user-7", "customer")})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-7", captured.UserID)
}

func TestRequireRole_Allowed(t *testing.T) {
	svc := newTestJWTService()
	var captured *auth.Claims
	handler := AuthMiddleware(svc)(RequireRole("staff", "admin")(claimsRecorder(&captured)))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+issueTestToken(t, svc, "user-1", "admin"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	svc := newTestJWTService()
	handler := AuthMiddleware(svc)(RequireRole("staff", "admin")(claimsRecorder(new(*auth.Claims))))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+issueTestToken(t, svc, "user-1", "customer"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestRequireRole_NoClaimsInContext(t *testing.T) {
	handler := RequireRole("staff")(claimsRecorder(new(*auth.Claims)))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID_EmptyWithoutClaims(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, "", GetUserID(r.Context()))
}
