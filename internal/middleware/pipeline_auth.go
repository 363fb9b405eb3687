package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/logger"
)

// APIKeyHeader carries the pipeline key on workbook uploads.
const APIKeyHeader = "X-API-Key"

// PipelineAuthMiddleware admits requests whose X-API-Key equals apiKey. With
// no key configured every request gets 503, so uploads stay disabled until
// PIPELINE_API_KEY is set.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(APIKeyHeader)), []byte(apiKey)) != 1 {
			logger.Named("http").Warnw("rejected pipeline request",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"request_id", RequestID(c),
			)
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
