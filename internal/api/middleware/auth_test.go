package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Email:  "coach@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return r
}

func getProtected(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	router := authTestRouter(AuthRequired(testSecret))

	rec := getProtected(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	router := authTestRouter(AuthRequired(testSecret))

	rec := getProtected(router, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsWrongSecret(t *testing.T) {
	router := authTestRouter(AuthRequired(testSecret))

	rec := getProtected(router, "Bearer "+signToken(t, "other-secret", 42))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	router := authTestRouter(AuthRequired(testSecret))

	rec := getProtected(router, "Bearer "+signToken(t, testSecret, 42))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	router := authTestRouter(OptionalAuth(testSecret))

	rec := getProtected(router, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":0`)
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	router := authTestRouter(OptionalAuth(testSecret))

	rec := getProtected(router, "Bearer "+signToken(t, testSecret, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}
