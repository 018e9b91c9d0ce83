package middleware

import (
	"net/http"
	"slices"
	"strings"

	"PromiseRouter/modules/kit/routerx"

	"github.com/gin-gonic/gin"
)

// Cors 允许 origins 中的来源跨域（空表示允许所有）；预检请求直接以 204 结束链路。
func Cors(origins ...string) routerx.NextHandler {
	allowHeaders := strings.Join([]string{"Authorization", "Content-Type", "X-Trace-Id"}, ", ")
	return func(c *gin.Context, next routerx.Next) error {
		origin := c.GetHeader("Origin")
		if origin != "" && (len(origins) == 0 || slices.Contains(origins, origin)) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", "X-Trace-Id")
			h.Add("Vary", "Origin")
			if c.Request.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", "600")
				c.Status(http.StatusNoContent)
				return nil
			}
		}
		next(nil)
		return nil
	}
}
