package routerx

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

type routeEntry struct {
	// method 为空表示所有方法
	method   string
	handlers gin.HandlersChain
}

// Route 是绑定到单一路径的路由对象，对应注册顺序中的一层。
type Route struct {
	router  *Router
	path    string
	pattern *regexp.Regexp
	entries []routeEntry
}

func (rt *Route) add(method string, handlers []any) *Route {
	items := flattenArgs(handlers)
	if len(items) == 0 {
		panic("routerx: route requires at least one handler")
	}
	chain := make(gin.HandlersChain, 0, len(items))
	for _, h := range items {
		chain = append(chain, mustWrap(h))
	}

	r := rt.router
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("routerx: router already serving, registration is not allowed")
	}
	rt.entries = append(rt.entries, routeEntry{method: method, handlers: chain})
	return rt
}

func (rt *Route) Handle(method string, handlers ...any) *Route {
	return rt.add(mustMethod(method), handlers)
}

func (rt *Route) All(handlers ...any) *Route {
	return rt.add("", handlers)
}

func (rt *Route) GET(handlers ...any) *Route {
	return rt.add(http.MethodGet, handlers)
}

func (rt *Route) POST(handlers ...any) *Route {
	return rt.add(http.MethodPost, handlers)
}

func (rt *Route) PUT(handlers ...any) *Route {
	return rt.add(http.MethodPut, handlers)
}

func (rt *Route) DELETE(handlers ...any) *Route {
	return rt.add(http.MethodDelete, handlers)
}

func (rt *Route) PATCH(handlers ...any) *Route {
	return rt.add(http.MethodPatch, handlers)
}

func (rt *Route) OPTIONS(handlers ...any) *Route {
	return rt.add(http.MethodOptions, handlers)
}

func (rt *Route) HEAD(handlers ...any) *Route {
	return rt.add(http.MethodHead, handlers)
}

// Path 返回注册时的字符串路径；正则路由返回空串。
func (rt *Route) Path() string {
	return rt.path
}
