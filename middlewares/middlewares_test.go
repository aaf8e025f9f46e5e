package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	h := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"staff": utils.CurrentStaffID(c), "rid": utils.RequestID(c)})
	}
	r.GET("/x", h)
	r.POST("/x", h)
	return r
}

func do(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	good, err := utils.GenerateToken(3, "manager", secret, time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(3, "manager", secret, -time.Hour)
	require.NoError(t, err)
	foreign, err := utils.GenerateToken(3, "manager", "other", time.Hour)
	require.NoError(t, err)

	required := newRouter(AuthMiddleware(secret, true))
	assert.Equal(t, http.StatusUnauthorized, do(required, "GET", "/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(required, "GET", "/x", expired).Code)
	assert.Equal(t, http.StatusUnauthorized, do(required, "GET", "/x", foreign).Code)

	w := do(required, "GET", "/x", good)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"staff":3`)

	assert.Equal(t, http.StatusOK, do(required, "GET", "/x?token="+good, "").Code)

	optional := newRouter(AuthMiddleware(secret, false))
	assert.Equal(t, http.StatusOK, do(optional, "GET", "/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(optional, "GET", "/x", "garbage").Code)

	roles := newRouter(AuthMiddleware(secret, true, "admin"))
	assert.Equal(t, http.StatusForbidden, do(roles, "GET", "/x", good).Code)
}

func TestWriteGuard(t *testing.T) {
	r := newRouter(WriteGuard(AuthMiddleware(secret, true)))
	assert.Equal(t, http.StatusOK, do(r, "GET", "/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "POST", "/x", "").Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := do(r, "GET", "/x", "")
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Contains(t, w.Body.String(), id)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
