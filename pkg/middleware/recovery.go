package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swetasamaddar-clear/document-finder/pkg/logger"
)

// JSONRecovery turns a panic in a handler into the standard error body with status 500.
func JSONRecovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		msg := fmt.Sprint(recovered)
		logger.Errorf("panic serving %s %s: %s", c.Request.Method, c.Request.URL.Path, msg)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "error", "message": msg})
	})
}
