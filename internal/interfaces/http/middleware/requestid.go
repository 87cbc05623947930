package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/SimilACTrail/pkg/errors"
	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// BodyLimit caps request bodies at limit bytes.  Declared oversize bodies are
// rejected before the handler runs.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			abortWithError(c, errors.ErrCodeBodyTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// abortWithError ends the request with the API error envelope for code.
func abortWithError(c *gin.Context, code errors.ErrorCode) {
	resp := common.NewErrorResponse(string(code), errors.DefaultMessageForCode(code), "")
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(code), resp)
}

//Personal.AI order the ending
