package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// VisitorIP is the address recorded with a click: the first X-Forwarded-For
// entry, then X-Real-IP, then the connection address, then "unknown".
// Headers are taken as sent, so the result must not drive access control.
func VisitorIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if c.Request != nil && c.Request.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}
		if host != "" {
			return host
		}
	}
	return "unknown"
}
