package errx

import (
	"errors"
	"net/http"
)

// 跨服务统一的系统/传输类错误码。
//
// 约束：
// - 这些错误码用于“系统/技术类错误”归一化（便于告警、观测、跨服务排障）
// - 业务域错误码（例如 ACCOUNT_USER_NOT_FOUND）由各业务自行定义，不在 kit 里集中

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（DB/下游服务/网络异常等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeCanceled 表示请求被客户端取消。
	CodeCanceled Code = "CANCELED"
	// CodeRateLimited 表示被限流/过载保护。
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeMaintenance 表示服务维护/停服。
	CodeMaintenance Code = "MAINTENANCE"
	// CodeReqParamError 请求参数错误
	CodeReqParamError Code = "REQ_PARAM_ERROR"
	// CodeNotFound 路由不存在。
	CodeNotFound Code = "NOT_FOUND"
	// CodeMethodNotAllowed 路由存在但方法不匹配。
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	// CodeUnauthorized 缺少或无效的身份凭证。
	CodeUnauthorized Code = "UNAUTHORIZED"
)

// 统一哨兵错误（允许 WithData/WithCause 派生新对象）。
var (
	ErrInternal         = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable      = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout          = NewSys(CodeTimeout, "请求超时")
	ErrCanceled         = NewSys(CodeCanceled, "请求已取消")
	ErrRateLimited      = NewSys(CodeRateLimited, "请求过于频繁")
	ErrMaintenance      = NewSys(CodeMaintenance, "服务维护中")
	ErrReqParamERR      = NewBiz(CodeReqParamError, "请求参数错误")
	ErrNotFound         = NewBiz(CodeNotFound, "资源不存在")
	ErrMethodNotAllowed = NewBiz(CodeMethodNotAllowed, "请求方法不被允许")
	ErrUnauthorized     = NewBiz(CodeUnauthorized, "未登录或登录已过期")
)

var codeStatus = map[Code]int{
	CodeInternal:         http.StatusInternalServerError,
	CodeUnavailable:      http.StatusServiceUnavailable,
	CodeTimeout:          http.StatusGatewayTimeout,
	CodeCanceled:         499,
	CodeRateLimited:      http.StatusTooManyRequests,
	CodeMaintenance:      http.StatusServiceUnavailable,
	CodeReqParamError:    http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeMethodNotAllowed: http.StatusMethodNotAllowed,
	CodeUnauthorized:     http.StatusUnauthorized,
}

// HTTPStatus 把错误映射为 HTTP 状态码：
// - 显式 WithStatus 优先
// - 其次按 kit 统一码映射
// - 未知业务错误 400，未知系统错误/非 errx 错误 500
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		if s := sc.StatusCode(); s > 0 {
			return s
		}
	}
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if s, ok := codeStatus[e.code]; ok {
		return s
	}
	if e.kind == kindBiz {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
