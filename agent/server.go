package agent

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the agent's HTTP router. Every route sits behind the
// bearer-token check; a wrong or missing token gets a 401.
func NewRouter(collector *Collector, token string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requireToken(token))

	router.GET("/systeminfo", func(c *gin.Context) {
		info, err := collector.Collect(c.Request.Context())
		if err != nil {
			logger.Error("collection failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect system info"})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	return router
}

// requireToken enforces the static bearer token on every request
func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
