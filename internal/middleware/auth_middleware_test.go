package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shifttrack_backend/internal/models"
	"shifttrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-secret", time.Hour)

	r := gin.New()
	authed := r.Group("/", AuthMiddleware())
	authed.GET("/whoami", func(c *gin.Context) {
		id, ok := ActorID(c)
		require.True(t, ok)
		role, ok := ActorRole(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	authed.GET("/admin-only", RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newProtectedRouter(t)

	token, err := utils.GenerateAccessToken(7, "alice@example.com", models.RoleEmployee)
	require.NoError(t, err)

	w := doRequest(r, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
	assert.Contains(t, w.Body.String(), `"role":"employee"`)

	w = doRequest(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "/whoami", "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleAuthMiddleware(t *testing.T) {
	r := newProtectedRouter(t)

	adminToken, err := utils.GenerateAccessToken(1, "boss@example.com", models.RoleAdmin)
	require.NoError(t, err)
	employeeToken, err := utils.GenerateAccessToken(7, "alice@example.com", models.RoleEmployee)
	require.NoError(t, err)

	w := doRequest(r, "/admin-only", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "/admin-only", employeeToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
