// Package promise 提供“延迟计算”的最小实现：计算在独立 goroutine 中执行，
// 调用方通过 Catch/Then 注册回调，通过 Done/Await 等待结束。
package promise

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Deferred 是“类 Promise”值的最小接口：
// - Catch 注册失败回调（已失败则立即回调）
// - Done 在计算结束且回调执行完毕后关闭
type Deferred interface {
	Catch(onRejected func(error))
	Done() <-chan struct{}
}

// PanicError 表示计算过程中发生 panic，被转换为失败结果。
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("promise: panic: %v", e.Value)
}

type Promise struct {
	mu          sync.Mutex
	settled     bool
	err         error
	onRejected  []func(error)
	onFulfilled []func()
	done        chan struct{}
}

func newPending() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Go 在新 goroutine 中执行 fn，返回其结果的 Promise。
func Go(fn func() error) *Promise {
	p := newPending()
	go p.run(fn)
	return p
}

// GoContext 与 Go 相同，但把 ctx 交给 fn；ctx 的取消由 fn 自行处理。
func GoContext(ctx context.Context, fn func(ctx context.Context) error) *Promise {
	return Go(func() error {
		return fn(ctx)
	})
}

// Resolve 返回一个已成功的 Promise。
func Resolve() *Promise {
	p := newPending()
	p.settle(nil)
	return p
}

// Reject 返回一个已失败的 Promise；err 为 nil 时等价于 Resolve。
func Reject(err error) *Promise {
	p := newPending()
	p.settle(err)
	return p
}

// All 等待全部 Promise 结束，以第一个失败（按参数顺序）作为结果。
func All(ps ...*Promise) *Promise {
	return Go(func() error {
		var first error
		for _, p := range ps {
			if p == nil {
				continue
			}
			<-p.Done()
			if err := p.Err(); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}

func (p *Promise) run(fn func() error) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			//nolint:errorlint // 必须直接比较
			if r == http.ErrAbortHandler {
				err = fmt.Errorf("promise: aborted: %w", http.ErrAbortHandler)
			} else {
				err = &PanicError{Value: r}
			}
		}
		p.settle(err)
	}()
	err = fn()
}

// settle 只生效一次：先执行回调，再关闭 done，保证 <-Done() 之后能观察到回调的副作用。
func (p *Promise) settle(err error) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled = true
	p.err = err
	rejected := p.onRejected
	fulfilled := p.onFulfilled
	p.onRejected, p.onFulfilled = nil, nil
	p.mu.Unlock()

	defer close(p.done)
	if err != nil {
		for _, fn := range rejected {
			guard(func() { fn(err) })
		}
	} else {
		for _, fn := range fulfilled {
			guard(fn)
		}
	}
}

// guard 回调里的 panic 被吞掉：不能让它带崩 settle 所在的 goroutine，也不能影响其它回调。
func guard(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// Catch 注册失败回调；Promise 已失败时在调用方 goroutine 中立即回调。
func (p *Promise) Catch(onRejected func(error)) {
	if onRejected == nil {
		return
	}
	p.mu.Lock()
	if !p.settled {
		p.onRejected = append(p.onRejected, onRejected)
		p.mu.Unlock()
		return
	}
	err := p.err
	p.mu.Unlock()
	if err != nil {
		onRejected(err)
	}
}

// Then 注册成功回调；Promise 已成功时在调用方 goroutine 中立即回调。
func (p *Promise) Then(onFulfilled func()) *Promise {
	if onFulfilled == nil {
		return p
	}
	p.mu.Lock()
	if !p.settled {
		p.onFulfilled = append(p.onFulfilled, onFulfilled)
		p.mu.Unlock()
		return p
	}
	err := p.err
	p.mu.Unlock()
	if err == nil {
		onFulfilled()
	}
	return p
}

func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Err 返回失败原因；未结束或成功时为 nil。
func (p *Promise) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Await 阻塞到 Promise 结束或 ctx 取消。
func (p *Promise) Await(ctx context.Context) error {
	select {
	case <-p.done:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Deferred = (*Promise)(nil)
