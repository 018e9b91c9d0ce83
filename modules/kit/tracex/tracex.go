package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// HeaderTraceID 是上下游透传 trace_id 的请求头。
const HeaderTraceID = "X-Trace-Id"

const maxTraceIDLen = 64

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(traceIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(spanIDKey{})
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

// Normalize 清洗外部传入的 trace_id：去空白、拒绝换行、截断超长值。
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxTraceIDLen {
		v = v[:maxTraceIDLen]
	}
	return v
}

// Ensure 优先沿用上游 trace_id，缺失时生成新的。
func Ensure(ctx context.Context, upstream string) (context.Context, string) {
	traceID := Normalize(upstream)
	if traceID == "" {
		traceID = NewTraceID()
	}
	if traceID == "" {
		return ctx, ""
	}
	return WithTraceID(ctx, traceID), traceID
}
