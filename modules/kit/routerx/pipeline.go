package routerx

import (
	"context"
	"errors"
	"sync"

	"PromiseRouter/modules/kit/errx"
	"PromiseRouter/modules/kit/promise"

	"github.com/gin-gonic/gin"
)

const (
	pendingErrorKey    = "routerx.pending_error"
	runtimeKey         = "routerx.runtime"
	paramDoneKeyPrefix = "routerx.param."
)

// PendingError 返回当前请求尚未被错误处理器消费的错误。
func PendingError(c *gin.Context) error {
	v, ok := c.Get(pendingErrorKey)
	if !ok {
		return nil
	}
	err, _ := v.(error)
	return err
}

func setPending(c *gin.Context, err error) {
	c.Set(pendingErrorKey, err)
	_ = c.Error(err)
}

func clearPending(c *gin.Context) {
	if _, ok := c.Get(pendingErrorKey); ok {
		c.Set(pendingErrorKey, nil)
	}
}

// step 记录一次处理器调用的续接状态。
type step struct {
	c         *gin.Context
	mu        sync.Mutex
	called    bool
	continued bool
	closed    bool
}

// next 持锁执行续接：处理器返回（close）之前，后续链路一定已经跑完。
func (s *step) next(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.called {
		return
	}
	s.called = true
	if err != nil {
		setPending(s.c, err)
		return
	}
	s.continued = true
	s.c.Next()
}

func (s *step) close() (called, continued bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.called, s.continued
}

// run 调用处理器并处理其结果：
// - 返回/拒绝的错误成为待处理错误，链路继续，交给后续错误处理器
// - 未调用 next 且成功返回，视为请求已处理完毕，终止链路
// - next(nil) 之后才拒绝时后续链路已跑完，直接交给兜底响应
func run(c *gin.Context, fn func(next Next) any) {
	s := &step{c: c}
	res := safeCall(fn, s.next)
	rejection := await(c, res)
	called, continued := s.close()

	switch {
	case rejection == nil:
		if !called {
			c.Abort()
		}
	case continued:
		setPending(c, rejection)
		runtimeOf(c).finish(c)
	default:
		setPending(c, rejection)
	}
}

// await 识别“类 Promise”结果并等待其结束，返回拒绝原因。
// 始终等到 promise 结束：处理器返回后 gin 会回收 *gin.Context，promise 里不能再访问它。
// 由请求取消导致的拒绝统一转为 CANCELED/TIMEOUT。
func await(c *gin.Context, res any) error {
	switch v := res.(type) {
	case nil:
		return nil
	case error:
		return contextual(c, v)
	case promise.Deferred:
		var rejected error
		v.Catch(func(err error) { rejected = err })
		<-v.Done()
		return contextual(c, rejected)
	default:
		return nil
	}
}

func contextual(c *gin.Context, err error) error {
	if err == nil {
		return nil
	}
	ctx := requestContext(c)
	if ctx.Err() == nil {
		return err
	}
	var e *errx.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return canceled(ctx).WithCause(err)
	}
	return err
}

func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

func canceled(ctx context.Context) *errx.Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errx.ErrTimeout
	}
	return errx.ErrCanceled
}

// forward 把错误交给后续错误处理器（链路继续）。
func forward(c *gin.Context, err error) {
	if err == nil {
		return
	}
	setPending(c, err)
}
