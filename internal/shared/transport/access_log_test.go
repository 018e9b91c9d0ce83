package transport

import (
	"context"
	"testing"

	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLog_沿用上游trace并记录原因(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	log := logx.NewZapLogger(zap.New(core))

	ctx, al := NewContext(context.Background(), "GET /x", "upstream-1")
	if al.TraceID != "upstream-1" {
		t.Fatalf("trace=%q", al.TraceID)
	}
	if tid, _ := tracex.TraceIDFrom(ctx); tid != "upstream-1" {
		t.Fatalf("ctx trace=%q", tid)
	}
	SetErrorReason(ctx, "NOT_FOUND")
	WriteAccessLog(ctx, log, 404)

	entries := recorded.All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("entries=%v", entries)
	}
	fields := entries[0].ContextMap()
	if fields["error_reason"] != "NOT_FOUND" || fields["trace_id"] != "upstream-1" {
		t.Fatalf("fields=%v", fields)
	}
}

func TestAccessLog_无上下文时忽略(t *testing.T) {
	SetErrorReason(context.Background(), "x")
	WriteAccessLog(context.Background(), logx.Nop(), 200)
}
