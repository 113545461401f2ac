package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newEngine(auth *JWTAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", auth.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestJWTAuth_Middleware(t *testing.T) {
	auth := NewJWTAuth("secret", time.Hour)
	valid, err := auth.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)
	foreign, err := NewJWTAuth("other", time.Hour).GenerateToken("u1", "")
	require.NoError(t, err)
	expired, err := NewJWTAuth("secret", time.Nanosecond).GenerateToken("u1", "")
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	var tests = []struct {
		name         string
		header       string
		expectedCode int
		expectedBody string
	}{
		{name: "valid token", header: "Bearer " + valid, expectedCode: http.StatusOK, expectedBody: "u1"},
		{name: "lowercase scheme", header: "bearer " + valid, expectedCode: http.StatusOK, expectedBody: "u1"},
		{name: "missing header", expectedCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", expectedCode: http.StatusUnauthorized},
		{name: "foreign signature", header: "Bearer " + foreign, expectedCode: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, expectedCode: http.StatusUnauthorized},
		{name: "unsigned token", header: "Bearer " + none, expectedCode: http.StatusUnauthorized},
	}

	r := newEngine(auth)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, rr.Body.String())
			} else {
				require.Contains(t, rr.Body.String(), `"success":false`)
			}
		})
	}
}

func TestJWTAuth_GenerateTokenRequiresUser(t *testing.T) {
	_, err := NewJWTAuth("secret", time.Hour).GenerateToken("", "")
	require.Error(t, err)
}
