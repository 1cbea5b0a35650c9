package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tienda-api/internal/auth"
	"tienda-api/internal/redisclient"
	"tienda-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const principalKey = "principal"

// AuthRequired verifies the bearer token and attaches the authenticated
// principal to the request context.
func AuthRequired(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token no proporcionado"})
			return
		}

		principal, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token inválido o expirado"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated principal attached by
// AuthRequired.
func CurrentPrincipal(c *gin.Context) auth.Principal {
	p, _ := c.Get(principalKey)
	principal, _ := p.(auth.Principal)
	return principal
}

// RequireRoles rejects requests whose principal has none of the given
// roles. Mounted after AuthRequired.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if !allowed[principal.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "No tienes permisos para realizar esta acción"})
			return
		}
		c.Next()
	}
}

// RateLimit throttles requests per client IP. Counters live in Redis when a
// client is available so limits hold across replicas, otherwise in memory.
func RateLimit(redis *redisclient.Client, format string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		util.GetLogger().Fatal("invalid rate limit format", zap.String("format", format), zap.Error(err))
	}

	var store limiter.Store
	if redis != nil {
		store, err = sredis.NewStoreWithOptions(redis.GetClient(), limiter.StoreOptions{
			Prefix: "ratelimit",
		})
		if err != nil {
			util.GetLogger().Warn("redis rate limit store unavailable, falling back to memory", zap.Error(err))
			store = memory.NewStore()
		}
	} else {
		store = memory.NewStore()
	}

	limiterMiddleware := stdlib.NewMiddleware(limiter.New(store, rate))

	return func(c *gin.Context) {
		limiterMiddleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if c.Writer.Status() == http.StatusTooManyRequests {
			c.Abort()
			return
		}
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
