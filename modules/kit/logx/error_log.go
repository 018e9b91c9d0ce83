package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// 以下接口按方法集识别错误语义，logx 不直接依赖 errx。
type (
	codeTextProvider interface{ CodeText() string }
	msgProvider      interface{ Msg() string }
	dataProvider     interface{ Data() map[string]any }
	stackProvider    interface{ Stack() []uintptr }
	reasonProvider   interface{ Reason() string }
	statusProvider   interface{ StatusCode() int }
)

type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Status     int
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// BuildErrorLog 提取错误码/语义/上下文/cause 链/发生处栈，便于链路末尾统一打印一次。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var cp codeTextProvider
	if errors.As(err, &cp) {
		out.Code = cp.CodeText()
	}
	var mp msgProvider
	if errors.As(err, &mp) {
		out.Msg = mp.Msg()
	}
	var dp dataProvider
	if errors.As(err, &dp) {
		out.Data = dp.Data()
	}
	var rp reasonProvider
	if errors.As(err, &rp) {
		out.Reason = rp.Reason()
	}
	var st statusProvider
	if errors.As(err, &st) {
		out.Status = st.StatusCode()
	}
	var sp stackProvider
	if errors.As(err, &sp) {
		out.Origin, out.Stack = formatStack(sp.Stack(), 32)
	}
	out.CauseChain = causeChain(err, 20)
	return out
}

func causeChain(err error, maxDepth int) []string {
	out := make([]string, 0, 4)
	for cur := errors.Unwrap(err); cur != nil && len(out) < maxDepth; cur = errors.Unwrap(cur) {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
	}
	return out
}

func formatStack(pcs []uintptr, maxFrames int) (origin string, stack string) {
	if len(pcs) == 0 || maxFrames <= 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxFrames)
	for len(lines) < maxFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" && f.Line == 0 {
			break
		}
		line := f.Function + " " + f.File + ":" + strconv.Itoa(f.Line)
		if origin == "" {
			origin = line
		}
		lines = append(lines, line)
		if !more {
			break
		}
	}
	return origin, strings.Join(lines, "\n")
}
