package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
)

// MaxBodySize caps the request body at maxMB megabytes. A declared length over
// the cap is rejected up front; a chunked body fails with *http.MaxBytesError
// once a reader crosses the cap, and handlers map that to ErrPayloadTooLarge.
func MaxBodySize(maxMB int64) gin.HandlerFunc {
	limit := maxMB << 20
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			abortWithError(c, apperrors.ErrPayloadTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
