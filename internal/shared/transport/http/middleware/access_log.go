package middleware

import (
	"PromiseRouter/internal/shared/transport"
	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/routerx"
	"PromiseRouter/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

// AccessLog 统一写访问日志：沿用 X-Trace-Id 并回写到响应头，链路结束后按状态码输出一次。
func AccessLog(log logx.Logger) routerx.NextHandler {
	return func(c *gin.Context, next routerx.Next) error {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, al := transport.NewContext(c.Request.Context(), c.Request.Method+" "+route, c.GetHeader(tracex.HeaderTraceID))
		c.Request = c.Request.WithContext(ctx)
		if al.TraceID != "" {
			c.Header(tracex.HeaderTraceID, al.TraceID)
		}

		defer func() {
			transport.WriteAccessLog(ctx, log, c.Writer.Status())
		}()
		next(nil)
		return nil
	}
}
