package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docflow/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantTestRouter() (*gin.Engine, *uuid.UUID, *bool) {
	gin.SetMode(gin.TestMode)
	var seen uuid.UUID
	var inRequestCtx bool
	r := gin.New()
	r.Use(TenantMiddleware())
	r.GET("/documents", func(c *gin.Context) {
		if id, ok := GetTenantID(c); ok {
			seen = id
		}
		_, inRequestCtx = shared.TenantFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, &seen, &inRequestCtx
}

func TestTenantMiddleware_SetsTenantFromHeader(t *testing.T) {
	r, seen, inRequestCtx := newTenantTestRouter()
	tenantID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, *seen)
	assert.True(t, *inRequestCtx)
}

func TestTenantMiddleware_MissingHeaderRejected(t *testing.T) {
	r, _, _ := newTenantTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantMiddleware_MalformedHeaderRejected(t *testing.T) {
	r, _, _ := newTenantTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantMiddleware_SkipsHealthCheck(t *testing.T) {
	r, _, _ := newTenantTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
