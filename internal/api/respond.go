package api

import (
	"errors"
	"net/http"

	"tienda-api/internal/service"
	"tienda-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to an HTTP response. Business rule
// violations carry their own status and Spanish message; anything else is a
// 500 with a generic message, logged server-side with the full error.
func respondError(c *gin.Context, err error) {
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) {
		c.JSON(reqErr.Status, gin.H{"message": reqErr.Message})
		return
	}

	util.GetLogger().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
}

// bindJSON binds the request body and writes the 400 on failure. Returns
// false when the request was already answered.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Datos de la solicitud no válidos"})
		return false
	}
	return true
}

// pathID parses a path parameter as an int64 id. Returns 0, false and
// answers the request when it is not a number.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := parseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador no válido"})
		return 0, false
	}
	return id, true
}
