package middleware

import (
	"PromiseRouter/internal/shared/transport"
	"PromiseRouter/modules/kit/routerx"

	"github.com/gin-gonic/gin"
)

// ReportError 包装错误响应：先把错误码记到 access 日志上下文，再交给 responder 输出。
func ReportError(responder routerx.ErrorResponder) routerx.ErrorResponder {
	if responder == nil {
		responder = routerx.DefaultErrorResponder
	}
	return func(c *gin.Context, err error) {
		transport.SetErrorReason(c.Request.Context(), routerx.Describe(err).Code)
		responder(c, err)
	}
}
