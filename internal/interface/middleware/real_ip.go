package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP sets the real client IP into Gin context (key: "real_ip").
// Priority: CF-Connecting-IP, then left-most X-Forwarded-For, then
// the socket peer.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
			if ip := net.ParseIP(cf); ip != nil {
				c.Set("real_ip", ip.String())
				c.Next()
				return
			}
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				first := strings.TrimSpace(parts[0])
				if ip := net.ParseIP(first); ip != nil {
					c.Set("real_ip", ip.String())
					c.Next()
					return
				}
			}
		}
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
