package handler

import (
	"errors"

	"PromiseRouter/modules/kit/errx"
	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/routerx"

	"github.com/gin-gonic/gin"
)

// mapError 业务拒绝在模块内就地响应（记 biz 日志）；技术错误继续交给根路由统一处理。
func (a *Account) mapError(err error, c *gin.Context, next routerx.Next) error {
	var e *errx.Error
	if !errors.As(err, &e) || !errx.IsBiz(err) {
		return err
	}
	logx.ReportBiz(c.Request.Context(), a.log, logx.NewBizLog("account "+c.Request.Method+" "+c.FullPath(), e.Reason(), e.Msg()))
	c.AbortWithStatusJSON(errx.HTTPStatus(err), routerx.Describe(err))
	return nil
}
