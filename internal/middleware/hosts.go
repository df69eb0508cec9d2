package middleware

import (
	"net"
	"net/http"
	"strings"

	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AllowedHosts rejects requests whose Host header matches none of the patterns.
// "*" matches any host, ".example.com" matches example.com and its subdomains,
// anything else must match exactly. Matching ignores case and the port.
func AllowedHosts(patterns []string) gin.HandlerFunc {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(p)))
	}

	return func(c *gin.Context) {
		host := requestHost(c.Request.Host)
		if !hostAllowed(host, normalized) {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid host header")
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestHost(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = hostport
	}
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	return strings.ToLower(host)
}

func hostAllowed(host string, patterns []string) bool {
	if host == "" {
		return false
	}
	for _, p := range patterns {
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "."):
			if host == p[1:] || strings.HasSuffix(host, p) {
				return true
			}
		case host == p:
			return true
		}
	}
	return false
}
