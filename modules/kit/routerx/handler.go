package routerx

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"PromiseRouter/modules/kit/errx"
	"PromiseRouter/modules/kit/promise"

	"github.com/gin-gonic/gin"
)

// Next 是交给处理器的续接函数：
// - next(nil) 在原地继续执行后续处理器（等价于 c.Next()）
// - next(err) 把 err 标记为当前请求的待处理错误，交给后续的错误处理器
//
// 同一个 Next 只生效一次；处理器返回之后再调用是 no-op。
type Next func(err error)

// Handler 普通处理器：返回非 nil error 等价于一次被拒绝的计算。
type Handler func(c *gin.Context) error

// NextHandler 可显式续接的处理器（中间件）。
type NextHandler func(c *gin.Context, next Next) error

// ErrorHandler 错误处理器：只在存在待处理错误时执行。
type ErrorHandler func(err error, c *gin.Context, next Next) error

// ParamHandler 路径参数处理器：value 为参数值，name 为参数名。
type ParamHandler func(c *gin.Context, next Next, value string, name string) error

// AsyncHandler 返回延迟计算的普通处理器。
type AsyncHandler func(c *gin.Context) *promise.Promise

// AsyncNextHandler 返回延迟计算的可续接处理器。
type AsyncNextHandler func(c *gin.Context, next Next) *promise.Promise

// AsyncErrorHandler 返回延迟计算的错误处理器。
type AsyncErrorHandler func(err error, c *gin.Context, next Next) *promise.Promise

type kind uint8

const (
	// kindPlain 原生 gin 处理器，保持 gin 语义（不感知错误、返回后继续）。
	kindPlain kind = iota
	kindNormal
	kindError
	kindParam
)

func (k kind) String() string {
	switch k {
	case kindPlain:
		return "plain"
	case kindNormal:
		return "normal"
	case kindError:
		return "error"
	case kindParam:
		return "param"
	default:
		return "unknown"
	}
}

// invocation 是统一后的调用入口；result 为 nil、error 或 promise.Deferred。
type invocation func(c *gin.Context, err error, next Next, value, name string) (result any)

type wrapped struct {
	kind  kind
	plain gin.HandlerFunc
	call  invocation
}

func deferred(p *promise.Promise) any {
	if p == nil {
		return nil
	}
	return p
}

// classify 按函数签名（对应“参数个数”）识别处理器种类。
func classify(h any) (wrapped, error) {
	switch fn := h.(type) {
	case nil:
		return wrapped{}, fmt.Errorf("routerx: handler is nil")
	case gin.HandlerFunc:
		return wrapped{kind: kindPlain, plain: fn}, nil
	case func(*gin.Context):
		return wrapped{kind: kindPlain, plain: fn}, nil

	case Handler:
		return classify((func(*gin.Context) error)(fn))
	case func(*gin.Context) error:
		return wrapped{kind: kindNormal, call: func(c *gin.Context, _ error, _ Next, _, _ string) any {
			return fn(c)
		}}, nil
	case AsyncHandler:
		return classify((func(*gin.Context) *promise.Promise)(fn))
	case func(*gin.Context) *promise.Promise:
		return wrapped{kind: kindNormal, call: func(c *gin.Context, _ error, _ Next, _, _ string) any {
			return deferred(fn(c))
		}}, nil

	case NextHandler:
		return classify((func(*gin.Context, Next) error)(fn))
	case func(*gin.Context, Next) error:
		return wrapped{kind: kindNormal, call: func(c *gin.Context, _ error, next Next, _, _ string) any {
			return fn(c, next)
		}}, nil
	case AsyncNextHandler:
		return classify((func(*gin.Context, Next) *promise.Promise)(fn))
	case func(*gin.Context, Next) *promise.Promise:
		return wrapped{kind: kindNormal, call: func(c *gin.Context, _ error, next Next, _, _ string) any {
			return deferred(fn(c, next))
		}}, nil

	case ErrorHandler:
		return classify((func(error, *gin.Context, Next) error)(fn))
	case func(error, *gin.Context, Next) error:
		return wrapped{kind: kindError, call: func(c *gin.Context, err error, next Next, _, _ string) any {
			return fn(err, c, next)
		}}, nil
	case AsyncErrorHandler:
		return classify((func(error, *gin.Context, Next) *promise.Promise)(fn))
	case func(error, *gin.Context, Next) *promise.Promise:
		return wrapped{kind: kindError, call: func(c *gin.Context, err error, next Next, _, _ string) any {
			return deferred(fn(err, c, next))
		}}, nil

	case ParamHandler:
		return classify((func(*gin.Context, Next, string, string) error)(fn))
	case func(*gin.Context, Next, string, string) error:
		return wrapped{kind: kindParam, call: func(c *gin.Context, _ error, next Next, value, name string) any {
			return fn(c, next, value, name)
		}}, nil
	}
	return wrapped{}, fmt.Errorf("routerx: unsupported handler type %T", h)
}

// mustWrap 把一个处理器包装为 gin.HandlerFunc；param 处理器只能通过 Param 注册。
func mustWrap(h any) gin.HandlerFunc {
	w, err := classify(h)
	if err != nil {
		panic(err)
	}
	switch w.kind {
	case kindPlain:
		return wrapPlain(w.plain)
	case kindNormal:
		return wrapNormal(w.call)
	case kindError:
		return wrapError(w.call)
	default:
		panic(fmt.Sprintf("routerx: %s handler %T must be registered with Param", w.kind, h))
	}
}

func mustWrapParam(name string, h any) gin.HandlerFunc {
	w, err := classify(h)
	if err != nil {
		panic(err)
	}
	if w.kind != kindParam {
		panic(fmt.Sprintf("routerx: Param(%q) expects a ParamHandler, got %T", name, h))
	}
	// 每个参数处理器各自一个标记，同名的多个处理器都会执行
	key := paramDoneKeyPrefix + name + "." + strconv.FormatUint(paramSeq.Add(1), 10)
	return wrapParam(name, key, w.call)
}

func wrapPlain(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if PendingError(c) != nil {
			return
		}
		if err := safePlain(h, c); err != nil {
			forward(c, err)
		}
	}
}

func wrapNormal(call invocation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if PendingError(c) != nil {
			return
		}
		run(c, func(next Next) any {
			return call(c, nil, next, "", "")
		})
	}
}

func wrapError(call invocation) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := PendingError(c)
		if err == nil {
			return
		}
		clearPending(c)
		run(c, func(next Next) any {
			return call(c, err, next, "", "")
		})
	}
}

// paramSeq 为每个参数处理器分配唯一的执行标记。
var paramSeq atomic.Uint64

// wrapParam 同一个处理器对同一请求、同一参数值只执行一次。
func wrapParam(name, key string, call invocation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if PendingError(c) != nil {
			return
		}
		value := c.Param(name)
		if done, ok := c.Get(key); ok && done == value {
			return
		}
		c.Set(key, value)
		run(c, func(next Next) any {
			return call(c, nil, next, value, name)
		})
	}
}

func safePlain(h gin.HandlerFunc, c *gin.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	h(c)
	return nil
}

func safeCall(fn func(next Next) any, next Next) (res any) {
	defer func() {
		if r := recover(); r != nil {
			res = recovered(r)
		}
	}()
	return fn(next)
}

// recovered 把 panic 转为错误；http.ErrAbortHandler 继续向上 panic，交给 net/http 中断连接。
func recovered(r any) error {
	//nolint:errorlint // 必须直接比较
	if r == http.ErrAbortHandler {
		panic(r)
	}
	return errx.ErrInternal.
		WithData("panic", fmt.Sprint(r)).
		WithCause(&promise.PanicError{Value: r})
}
