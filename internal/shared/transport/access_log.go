package transport

import (
	"context"
	"time"

	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文：中间件创建，错误响应处回填原因，请求结束时输出一次。
type AccessLog struct {
	Status      int
	ErrorReason string
	TraceID     string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（保留父 context 的取消/超时信号）。
// upstreamTraceID 为上游透传的 trace_id，缺失时生成新的。
func NewContext(parent context.Context, action, upstreamTraceID string) (context.Context, *AccessLog) {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx, traceID := tracex.Ensure(ctx, upstreamTraceID)
	ctx = tracex.WithSpanID(ctx, "http")

	al := &AccessLog{
		TraceID:   traceID,
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al), al
}

// FromContext 从 context 读取 AccessLog。
func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志（在中间件 defer 调用）。
func WriteAccessLog(ctx context.Context, log logx.Logger, status int) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	al.Status = status

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	logx.ReportAccess(ctx, log, al.action, status, fields...)
}
