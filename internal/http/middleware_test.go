package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-portal/internal/auth"
	"job-portal/internal/domain"
	"job-portal/internal/service"
)

const testSecret = "middleware-test-secret"

func signedToken(t *testing.T, role domain.Role) string {
	t.Helper()
	claims := &auth.Claims{
		UserID: 42,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func protectedRouter(roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", requireAuth(testSecret, roles...), func(c *gin.Context) {
		claims := claimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID})
	})
	return router
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec := doRequest(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	rec := doRequest(protectedRouter(), "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthBadSignature(t *testing.T) {
	claims := &auth.Claims{UserID: 1, Role: domain.RoleEmployer}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	rec := doRequest(protectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthWrongRole(t *testing.T) {
	rec := doRequest(protectedRouter(domain.RoleEmployer), "Bearer "+signedToken(t, domain.RoleJobSeeker))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuthAllows(t *testing.T) {
	rec := doRequest(protectedRouter(domain.RoleEmployer), "Bearer "+signedToken(t, domain.RoleEmployer))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")
}

func TestRequireAuthAnyAuthenticated(t *testing.T) {
	rec := doRequest(protectedRouter(), "Bearer "+signedToken(t, domain.RoleJobSeeker))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, nil, testSecret, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"already resolved", service.ErrAlreadyResolved, http.StatusConflict},
		{"missing cv", service.ErrMissingCV, http.StatusBadRequest},
		{"not allowed", service.ErrNotAllowed, http.StatusForbidden},
		{"not job owner", service.ErrNotJobOwner, http.StatusForbidden},
		{"transport", errors.Join(service.ErrTransport, errors.New("dial tcp: refused")), http.StatusBadGateway},
		{"not found", errors.New("job not found"), http.StatusNotFound},
		{"validation fallthrough", errors.New("salary must be a positive number"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			h.serviceError(c, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTransportErrorHidesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil, nil, nil, testSecret, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	h.serviceError(c, errors.Join(service.ErrTransport, errors.New("s3 bucket key leaked-internal-name")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "leaked-internal-name")
}
