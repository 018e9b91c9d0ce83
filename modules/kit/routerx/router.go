// Package routerx 在 gin 之上提供一个“错误感知”的路由器：
// 处理器返回的错误（或被拒绝的 promise）会自动转交给错误处理器链，
// 而不是被吞掉或者需要每个处理器手写 c.Error/c.Abort。
//
// 路由匹配、参数解析、HTTP 传输仍然完全由 gin 负责；routerx 只记录注册顺序，
// 在第一次服务请求时按顺序把每一层展开成 gin 的处理器链。
package routerx

import (
	"fmt"
	"net/http"
	"regexp"
	"sync"

	"PromiseRouter/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Config 是路由器配置：前半部分透传给构建出的 gin.Engine，可直接从配置文件加载。
type Config struct {
	// Strict 为 true 时 "/foo" 与 "/foo/" 视为不同路由（关闭尾斜杠重定向）。
	Strict bool `mapstructure:"strict" yaml:"strict"`
	// CaseSensitive 为 false 时对大小写/多余字符不一致的路径做重定向修正。
	CaseSensitive          bool `mapstructure:"case_sensitive" yaml:"case_sensitive"`
	HandleMethodNotAllowed bool `mapstructure:"handle_method_not_allowed" yaml:"handle_method_not_allowed"`
	RemoveExtraSlash       bool `mapstructure:"remove_extra_slash" yaml:"remove_extra_slash"`
	UseRawPath             bool `mapstructure:"use_raw_path" yaml:"use_raw_path"`
	ContextWithFallback    bool `mapstructure:"context_with_fallback" yaml:"context_with_fallback"`

	// Prepend 会被插到 GET/POST/PUT/DELETE 路由（带路径）的处理器之前。
	Prepend any `mapstructure:"-" yaml:"-"`
	// Logger 记录链路末尾未被处理的错误；为空时不输出。
	Logger logx.Logger `mapstructure:"-" yaml:"-"`
	// ErrorResponder 为空时使用 DefaultErrorResponder。
	ErrorResponder ErrorResponder `mapstructure:"-" yaml:"-"`
}

type layerKind uint8

const (
	layerUse layerKind = iota
	layerRoute
	layerMount
)

type layer struct {
	kind     layerKind
	path     string
	pattern  *regexp.Regexp
	handlers gin.HandlersChain
	route    *Route
	child    *Router
}

type paramEntry struct {
	name     string
	handlers gin.HandlersChain
}

// Router 记录注册顺序的路由器，本身实现 http.Handler，也可以通过 Use 挂载到另一个 Router。
type Router struct {
	cfg     Config
	prepend any

	mu     sync.Mutex
	stack  []layer
	params []paramEntry
	frozen bool

	once   sync.Once
	engine *gin.Engine
}

// New 创建路由器；cfg 为 nil 时使用默认配置。
func New(cfg *Config) *Router {
	r := &Router{}
	if cfg != nil {
		r.cfg = *cfg
	}
	if r.cfg.Prepend != nil {
		// 提前校验签名，注册时再逐条包装
		_ = mustWrap(r.cfg.Prepend)
		r.prepend = r.cfg.Prepend
	}
	return r
}

func (r *Router) push(l layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("routerx: router already serving, registration is not allowed")
	}
	r.stack = append(r.stack, l)
}

// Use 注册中间件/错误处理器或挂载子路由。
// 第一个参数可以是路径前缀（string）或 *regexp.Regexp；参数中的切片会被展开。
func (r *Router) Use(args ...any) *Router {
	items := flattenArgs(args)
	path, pattern, rest := splitPath(items)
	if len(rest) == 0 {
		panic("routerx: Use requires at least one handler or router")
	}

	var pending gin.HandlersChain
	flush := func() {
		if len(pending) == 0 {
			return
		}
		r.push(layer{kind: layerUse, path: path, pattern: pattern, handlers: pending})
		pending = nil
	}
	for _, item := range rest {
		child, ok := item.(*Router)
		if !ok {
			pending = append(pending, mustWrap(item))
			continue
		}
		if pattern != nil {
			panic("routerx: mounting a router under a regexp path is not supported")
		}
		if child == nil || child == r {
			panic("routerx: invalid router to mount")
		}
		flush()
		r.push(layer{kind: layerMount, path: path, child: child})
	}
	flush()
	return r
}

// Route 创建一个路由对象，后续在其上注册的处理器都位于当前注册顺序的位置。
func (r *Router) Route(path any) *Route {
	p, pattern := mustPath(path)
	rt := &Route{router: r, path: p, pattern: pattern}
	r.push(layer{kind: layerRoute, route: rt})
	return rt
}

// Param 注册路径参数处理器：在声明了 :name 或 *name 的路由处理器之前执行，同一请求同一取值只执行一次。
func (r *Router) Param(name string, handlers ...any) *Router {
	if name == "" {
		panic("routerx: Param requires a name")
	}
	items := flattenArgs(handlers)
	if len(items) == 0 {
		panic(fmt.Sprintf("routerx: Param(%q) requires at least one handler", name))
	}
	chain := make(gin.HandlersChain, 0, len(items))
	for _, h := range items {
		chain = append(chain, mustWrapParam(name, h))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("routerx: router already serving, registration is not allowed")
	}
	r.params = append(r.params, paramEntry{name: name, handlers: chain})
	return r
}

// Handle 按方法注册路由；方法必须在 Methods 中。GET/POST/PUT/DELETE 会带上 Prepend。
func (r *Router) Handle(method string, path any, handlers ...any) *Router {
	method = mustMethod(method)
	items := flattenArgs(handlers)
	if r.prepend != nil && prependable(method) {
		items = append([]any{r.prepend}, items...)
	}
	r.Route(path).Handle(method, items...)
	return r
}

func (r *Router) GET(path any, handlers ...any) *Router {
	return r.Handle(http.MethodGet, path, handlers...)
}

func (r *Router) POST(path any, handlers ...any) *Router {
	return r.Handle(http.MethodPost, path, handlers...)
}

func (r *Router) PUT(path any, handlers ...any) *Router {
	return r.Handle(http.MethodPut, path, handlers...)
}

func (r *Router) DELETE(path any, handlers ...any) *Router {
	return r.Handle(http.MethodDelete, path, handlers...)
}

func (r *Router) PATCH(path any, handlers ...any) *Router {
	return r.Handle(http.MethodPatch, path, handlers...)
}

func (r *Router) OPTIONS(path any, handlers ...any) *Router {
	return r.Handle(http.MethodOptions, path, handlers...)
}

func (r *Router) HEAD(path any, handlers ...any) *Router {
	return r.Handle(http.MethodHead, path, handlers...)
}

// All 对所有方法生效。
func (r *Router) All(path any, handlers ...any) *Router {
	r.Route(path).All(handlers...)
	return r
}

// Engine 返回构建好的 gin.Engine；第一次调用时构建，之后禁止再注册。
func (r *Router) Engine() *gin.Engine {
	r.once.Do(func() {
		r.engine = r.build()
	})
	return r.engine
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Engine().ServeHTTP(w, req)
}

var _ http.Handler = (*Router)(nil)
