package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildofheroes/goh-api/internal/auth"
	"github.com/guildofheroes/goh-api/internal/model"
)

const testSecret = "middleware-test-secret"

func protectedEcho(t *testing.T, mw ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{BearerAuth(testSecret)}, mw...)
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":  UserID(c),
			"username": c.Get(CtxUsername),
			"role":     Role(c),
		})
	}, chain...)
	return e
}

func signedToken(t *testing.T, role string, ttlMin int) string {
	t.Helper()
	tok, err := auth.NewAccessToken(testSecret, &model.User{ID: 7, Username: "aragorn", Role: role}, ttlMin)
	require.NoError(t, err)
	return tok.Token
}

func TestBearerAuthAccepts(t *testing.T) {
	e := protectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, model.RolePlayer, 30))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	assert.Contains(t, rec.Body.String(), `"username":"aragorn"`)
}

func TestBearerAuthRejects(t *testing.T) {
	e := protectedEcho(t)
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "INVALID_TOKEN"},
		{"not bearer", "Basic abc123", "INVALID_TOKEN"},
		{"garbage token", "Bearer not.a.jwt", "INVALID_TOKEN"},
		{"expired token", "Bearer " + signedToken(t, model.RolePlayer, -1), "TOKEN_EXPIRED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho(t, RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, model.RolePlayer, 30))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, model.RoleAdmin, 30))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHonorsInbound(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))

	// Generated when absent.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
