package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tienda-api/internal/auth"
	"tienda-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(issuer *auth.TokenIssuer, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/protected")
	group.Use(AuthRequired(issuer))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("", func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"email": principal.Email})
	})
	return router
}

func TestAuthRequiredMissingToken(t *testing.T) {
	router := protectedRouter(auth.NewTokenIssuer("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredBadToken(t *testing.T) {
	router := protectedRouter(auth.NewTokenIssuer("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	router := protectedRouter(issuer)

	token, err := issuer.Generate(auth.Principal{ID: 7, Email: "ana@tienda.local", Rol: models.RoleCliente})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@tienda.local")
}

func TestRequireRolesForbidsCustomer(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	router := protectedRouter(issuer, models.RoleAdmin)

	token, err := issuer.Generate(auth.Principal{ID: 7, Email: "ana@tienda.local", Rol: models.RoleCliente})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsStaff(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	router := protectedRouter(issuer, models.RoleAdmin, models.RoleAgente)

	token, err := issuer.Generate(auth.Principal{ID: 2, Email: "agente@tienda.local", Rol: models.RoleAgente})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMemoryFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(nil, "3-M"))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var last int
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		last = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
