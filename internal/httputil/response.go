// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// RespondError writes a standardized JSON error response and aborts the request.
func RespondError(c *gin.Context, status int, code, message string) {
	RespondErrorDetails(c, status, code, message, nil)
}

// RespondErrorDetails is RespondError with extra string fields merged into the body.
// The standard fields always win over details with the same key.
func RespondErrorDetails(c *gin.Context, status int, code, message string, details map[string]string) {
	resp := make(map[string]string, len(details)+3)
	for k, v := range details {
		resp[k] = v
	}

	resp["code"] = code
	resp["message"] = message

	if rid, exists := c.Get("request_id"); exists {
		if s, ok := rid.(string); ok && s != "" {
			resp["request_id"] = s
		}
	}

	c.AbortWithStatusJSON(status, resp)
}
