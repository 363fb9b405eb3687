package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/logger"
)

// ErrorHandler turns the last error a handler attached with c.Error into the
// JSON error envelope. Errors that are not AppErrors become INTERNAL_ERROR and
// their text stays in the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Named("http")

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			log.Errorw("unexpected error",
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", RequestID(c),
			)
			abortWithError(c, apperrors.ErrInternalServer)
			return
		}

		if appErr.Internal != nil {
			log.Errorw("request failed",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", RequestID(c),
			)
		}
		abortWithError(c, appErr)
	}
}

// abortWithError stops the chain and writes {"error":{"code","message"}}.
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
