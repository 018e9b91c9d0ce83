package routerx

import (
	"fmt"
	"net/http"
	"strings"
)

// Methods 是可注册的方法表。
// M-SEARCH 不在表内：gin 只接受纯大写字母的方法名。
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodOptions,
	http.MethodHead,
	http.MethodConnect,
	http.MethodTrace,
	"CHECKOUT",
	"COPY",
	"LOCK",
	"MERGE",
	"MKACTIVITY",
	"MKCOL",
	"MOVE",
	"NOTIFY",
	"PROPFIND",
	"PROPPATCH",
	"PURGE",
	"REPORT",
	"SEARCH",
	"SUBSCRIBE",
	"UNLOCK",
	"UNSUBSCRIBE",
}

var methodSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Methods))
	for _, method := range Methods {
		m[method] = struct{}{}
	}
	return m
}()

func mustMethod(method string) string {
	upper := strings.ToUpper(strings.TrimSpace(method))
	if _, ok := methodSet[upper]; !ok {
		panic(fmt.Sprintf("routerx: unsupported http method %q", method))
	}
	return upper
}

// prependable 只有这四个方法会带上 Config.Prepend。
func prependable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
