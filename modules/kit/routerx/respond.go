package routerx

import (
	"errors"
	"net/http"
	"strings"

	"PromiseRouter/modules/kit/errx"
	"PromiseRouter/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponder 把链路末尾仍未被处理的错误写成响应。
type ErrorResponder func(c *gin.Context, err error)

// ErrorBody 是默认错误响应体。
type ErrorBody struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// DefaultErrorResponder 按 errx 语义输出 JSON：{"code": "...", "msg": "..."}。
// 非 errx 错误一律按内部错误处理，不向客户端暴露原始错误信息。
func DefaultErrorResponder(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errx.HTTPStatus(err), Describe(err))
}

// Describe 提取对外可见的 code/msg。
func Describe(err error) ErrorBody {
	var e *errx.Error
	if errors.As(err, &e) && e != nil {
		msg := e.Msg()
		if msg == "" {
			msg = http.StatusText(errx.HTTPStatus(err))
		}
		return ErrorBody{Code: e.CodeText(), Msg: msg}
	}
	// 自带 StatusCode() 的非 errx 错误按状态码描述
	if status := errx.HTTPStatus(err); status != http.StatusInternalServerError {
		if text := http.StatusText(status); text != "" {
			return ErrorBody{Code: strings.ToUpper(strings.ReplaceAll(text, " ", "_")), Msg: text}
		}
	}
	return ErrorBody{Code: string(errx.CodeInternal), Msg: errx.ErrInternal.Msg()}
}

// runtime 是根路由构建时确定的兜底行为，挂载的子路由共享根路由的 runtime。
type runtime struct {
	log       logx.Logger
	responder ErrorResponder
}

var defaultRuntime = &runtime{log: logx.Nop(), responder: DefaultErrorResponder}

func newRuntime(cfg *Config) *runtime {
	rt := &runtime{log: cfg.Logger, responder: cfg.ErrorResponder}
	if rt.log == nil {
		rt.log = logx.Nop()
	}
	if rt.responder == nil {
		rt.responder = DefaultErrorResponder
	}
	return rt
}

func runtimeOf(c *gin.Context) *runtime {
	if v, ok := c.Get(runtimeKey); ok {
		if rt, ok := v.(*runtime); ok {
			return rt
		}
	}
	return defaultRuntime
}

// enter 位于每条链路最前面。
func (rt *runtime) enter(c *gin.Context) {
	c.Set(runtimeKey, rt)
}

// finish 位于每条链路最后：仍有待处理错误时记录日志并输出错误响应。
func (rt *runtime) finish(c *gin.Context) {
	err := PendingError(c)
	if err == nil {
		return
	}
	clearPending(c)
	rt.fail(c, err)
}

func (rt *runtime) fail(c *gin.Context, err error) {
	rt.logError(c, err)
	if c.Writer.Written() {
		c.Abort()
		return
	}
	rt.responder(c, err)
	c.Abort()
}

func (rt *runtime) notFound(c *gin.Context) {
	if PendingError(c) != nil {
		rt.finish(c)
		return
	}
	rt.fail(c, errx.ErrNotFound.WithData("path", c.Request.URL.Path))
}

func (rt *runtime) methodNotAllowed(c *gin.Context) {
	if PendingError(c) != nil {
		rt.finish(c)
		return
	}
	rt.fail(c, errx.ErrMethodNotAllowed.WithData("method", c.Request.Method))
}

// logError 5xx 记为技术错误（带 cause 链和栈），其余记为业务拒绝。
func (rt *runtime) logError(c *gin.Context, err error) {
	ctx := requestContext(c)
	action := c.Request.Method + " " + routeOf(c)
	status := errx.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logx.ReportSysError(ctx, rt.log, logx.NewSysLog(action, err), zap.Int("status", status))
		return
	}
	body := Describe(err)
	logx.ReportBiz(ctx, rt.log, logx.NewBizLog(action, body.Code, body.Msg), zap.Int("status", status))
}

func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}
