package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns every request a UUID that doubles as the crawl run ID.
// A client-supplied X-Request-ID is adopted only when it is itself a UUID;
// anything else is logged and replaced.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)

		if id != "" {
			if _, err := uuid.Parse(id); err != nil {
				fresh := uuid.New().String()
				log.WithFields(logrus.Fields{
					"request_id":        fresh,
					"client_request_id": id,
				}).Debug("client request ID is not a UUID, replaced")
				c.Set("client_request_id", id)
				id = fresh
			}
		} else {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
