package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MultipartOverhead is the slack allowed on top of the file size for form
// boundaries and the other fields of an upload form.
const MultipartOverhead = 1 << 20

// LimitRequestBody caps how much of a request body handlers may read. Reads
// past the limit fail with *http.MaxBytesError.
func LimitRequestBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
