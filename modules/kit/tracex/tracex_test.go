package tracex

import (
	"context"
	"strings"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  abc  "); got != "abc" {
		t.Fatalf("期望去掉首尾空白，got=%q", got)
	}
	if got := Normalize("a\nb"); got != "" {
		t.Fatalf("期望拒绝换行，got=%q", got)
	}
	if got := Normalize(strings.Repeat("a", 200)); len(got) != maxTraceIDLen {
		t.Fatalf("期望截断到 %d，got=%d", maxTraceIDLen, len(got))
	}
}

func TestEnsure_沿用上游或生成(t *testing.T) {
	ctx, id := Ensure(context.Background(), "upstream-1")
	if id != "upstream-1" {
		t.Fatalf("期望沿用上游 trace_id，got=%q", id)
	}
	if got, _ := TraceIDFrom(ctx); got != "upstream-1" {
		t.Fatalf("期望 ctx 中的 trace_id=upstream-1，got=%q", got)
	}

	_, generated := Ensure(context.Background(), "")
	if len(generated) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id，got=%q", generated)
	}
}
