package routerx

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// skipKey 标记当前被跳过的段（路由层或运行时才能判断是否匹配的中间件层）。
const skipKey = "routerx.skip"

// flatLayer 是展开挂载关系之后的一层，path 已拼上挂载前缀。
type flatLayer struct {
	kind     layerKind
	base     string
	path     string
	pattern  *regexp.Regexp
	handlers gin.HandlersChain
	route    *Route
	params   []paramEntry
}

type target struct {
	method string
	path   string
}

type matchKind uint8

const (
	matchNever matchKind = iota
	matchMaybe
	matchAlways
)

type builder struct {
	cfg    Config
	rt     *runtime
	layers []flatLayer
	seq    int
}

// build 把注册顺序展开为 gin 路由：每个 (方法, 路径) 一条完整链路，
// 中间件层按注册位置插入；正则路径与带参数的前缀在运行时判断。
func (r *Router) build() *gin.Engine {
	b := &builder{cfg: r.cfg, rt: newRuntime(&r.cfg)}
	b.flatten(r, "", map[*Router]bool{})

	e := gin.New()
	e.RedirectTrailingSlash = !b.cfg.Strict
	e.RedirectFixedPath = !b.cfg.CaseSensitive
	e.HandleMethodNotAllowed = b.cfg.HandleMethodNotAllowed
	e.RemoveExtraSlash = b.cfg.RemoveExtraSlash
	e.UseRawPath = b.cfg.UseRawPath
	e.ContextWithFallback = b.cfg.ContextWithFallback

	for _, t := range b.targets() {
		e.Handle(t.method, t.path, b.staticChain(t.method, t.path)...)
	}
	e.NoRoute(b.dynamicChain(b.rt.notFound)...)
	e.NoMethod(b.dynamicChain(b.rt.methodNotAllowed)...)
	return e
}

func (b *builder) flatten(r *Router, base string, visiting map[*Router]bool) {
	if visiting[r] {
		panic("routerx: router is mounted inside itself")
	}
	visiting[r] = true
	defer delete(visiting, r)

	r.mu.Lock()
	r.frozen = true
	stack := append([]layer(nil), r.stack...)
	params := append([]paramEntry(nil), r.params...)
	r.mu.Unlock()

	for _, l := range stack {
		switch l.kind {
		case layerUse:
			b.layers = append(b.layers, flatLayer{
				kind:     layerUse,
				base:     base,
				path:     joinPath(base, l.path),
				pattern:  l.pattern,
				handlers: l.handlers,
			})
		case layerRoute:
			fl := flatLayer{kind: layerRoute, base: base, pattern: l.route.pattern, route: l.route, params: params}
			if fl.pattern == nil {
				fl.path = joinPath(base, l.route.path)
			}
			b.layers = append(b.layers, fl)
		case layerMount:
			b.flatten(l.child, joinPath(base, l.path), visiting)
		}
	}
}

// targets 收集需要注册到 gin 的 (方法, 路径)，去重并保持注册顺序。
func (b *builder) targets() []target {
	var out []target
	seen := make(map[target]struct{})
	add := func(t target) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, l := range b.layers {
		if l.kind != layerRoute || l.pattern != nil {
			continue
		}
		for _, m := range l.route.methods() {
			add(target{method: m, path: l.path})
		}
	}
	return out
}

func (b *builder) staticChain(method, path string) gin.HandlersChain {
	chain := gin.HandlersChain{b.rt.enter}
	for _, l := range b.layers {
		switch {
		case l.kind == layerUse && l.pattern == nil:
			switch b.prefixMatch(l.path, path) {
			case matchAlways:
				chain = append(chain, l.handlers...)
			case matchMaybe:
				chain = b.segment(chain, b.prefixGuard(l.path), l.handlers)
			}
		case l.kind == layerUse:
			chain = b.segment(chain, b.patternGuard(l.base, l.pattern), l.handlers)
		case l.pattern == nil:
			if l.path != path {
				continue
			}
			if hs := b.routeHandlers(l, method); len(hs) > 0 {
				chain = b.segment(chain, noPending, hs)
			}
		default:
			if hs := b.routeHandlers(l, method); len(hs) > 0 {
				chain = b.segment(chain, b.routeGuard(l), hs)
			}
		}
	}
	return append(chain, b.rt.finish)
}

// dynamicChain 用于 gin 没有匹配到路由（404/405）的请求：所有中间件层与正则路由都在运行时判断。
func (b *builder) dynamicChain(final gin.HandlerFunc) gin.HandlersChain {
	chain := gin.HandlersChain{b.rt.enter}
	for _, l := range b.layers {
		switch {
		case l.kind == layerUse && l.pattern == nil:
			if l.path == "" {
				chain = append(chain, l.handlers...)
				continue
			}
			chain = b.segment(chain, b.prefixGuard(l.path), l.handlers)
		case l.kind == layerUse:
			chain = b.segment(chain, b.patternGuard(l.base, l.pattern), l.handlers)
		case l.pattern != nil:
			chain = b.segment(chain, b.routeGuard(l), b.routeHandlers(l, ""))
		}
	}
	return append(chain, final)
}

// segment 在链路中插入一个守卫：守卫不通过时，本段的处理器全部跳过。
func (b *builder) segment(chain gin.HandlersChain, guard func(*gin.Context) bool, handlers gin.HandlersChain) gin.HandlersChain {
	b.seq++
	id := b.seq
	chain = append(chain, func(c *gin.Context) {
		if guard(c) {
			c.Set(skipKey, 0)
			return
		}
		c.Set(skipKey, id)
	})
	for _, h := range handlers {
		chain = append(chain, func(c *gin.Context) {
			if c.GetInt(skipKey) == id {
				return
			}
			h(c)
		})
	}
	return chain
}

// routeHandlers 返回路由层在该方法下的处理器（参数处理器在前）；method 为空时按请求方法在运行时过滤。
func (b *builder) routeHandlers(l flatLayer, method string) gin.HandlersChain {
	var chain gin.HandlersChain
	for _, e := range l.route.entries {
		if method != "" {
			if l.route.applies(e, method) {
				chain = append(chain, e.handlers...)
			}
			continue
		}
		for _, h := range e.handlers {
			chain = append(chain, func(c *gin.Context) {
				if l.route.applies(e, c.Request.Method) {
					h(c)
				}
			})
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return append(paramHandlers(l), chain...)
}

func paramHandlers(l flatLayer) gin.HandlersChain {
	var names []string
	if l.pattern != nil {
		for _, n := range l.pattern.SubexpNames() {
			if n != "" {
				names = append(names, n)
			}
		}
	} else {
		names = paramNames(l.path)
	}

	var chain gin.HandlersChain
	for _, name := range names {
		for _, p := range l.params {
			if p.name == name {
				chain = append(chain, p.handlers...)
			}
		}
	}
	return chain
}

func noPending(c *gin.Context) bool {
	return PendingError(c) == nil
}

func (b *builder) prefixGuard(prefix string) func(*gin.Context) bool {
	fold := !b.cfg.CaseSensitive
	return func(c *gin.Context) bool {
		return covers(prefix, c.Request.URL.Path, fold)
	}
}

func (b *builder) patternGuard(base string, pattern *regexp.Regexp) func(*gin.Context) bool {
	fold := !b.cfg.CaseSensitive
	return func(c *gin.Context) bool {
		rel, ok := relative(base, c.Request.URL.Path, fold)
		return ok && pattern.MatchString(rel)
	}
}

// routeGuard 正则路由：没有待处理错误、方法匹配且路径匹配；命名分组写入 c.Params。
func (b *builder) routeGuard(l flatLayer) func(*gin.Context) bool {
	fold := !b.cfg.CaseSensitive
	return func(c *gin.Context) bool {
		if PendingError(c) != nil || !l.route.handles(c.Request.Method) {
			return false
		}
		rel, ok := relative(l.base, c.Request.URL.Path, fold)
		if !ok {
			return false
		}
		m := l.pattern.FindStringSubmatch(rel)
		if m == nil {
			return false
		}
		for i, name := range l.pattern.SubexpNames() {
			if i > 0 && name != "" {
				setParam(c, name, m[i])
			}
		}
		return true
	}
}

// setParam 覆盖同名参数：gin 树匹配失败时可能已经写入了同名的部分参数。
func setParam(c *gin.Context, key, value string) {
	for i := range c.Params {
		if c.Params[i].Key == key {
			c.Params[i].Value = value
			return
		}
	}
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// prefixMatch 在构建时比较 Use 前缀与路由模式：
// 模式中对应位置是参数段时，只能在运行时判断。
func (b *builder) prefixMatch(prefix, pattern string) matchKind {
	if prefix == "" {
		return matchAlways
	}
	ps := strings.Split(prefix[1:], "/")
	ts := strings.Split(pattern[1:], "/")
	maybe := false
	for i, seg := range ps {
		if i >= len(ts) {
			return matchNever
		}
		t := ts[i]
		switch {
		case strings.HasPrefix(t, "*"):
			return matchMaybe
		case strings.HasPrefix(t, ":"):
			maybe = true
		case !b.sameSegment(seg, t):
			return matchNever
		}
	}
	if maybe {
		return matchMaybe
	}
	return matchAlways
}

func (b *builder) sameSegment(a, c string) bool {
	if b.cfg.CaseSensitive {
		return a == c
	}
	return strings.EqualFold(a, c)
}

// methods 返回路由需要注册的方法；只注册了 GET 的路由同样响应 HEAD。
func (rt *Route) methods() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(m string) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	for _, e := range rt.entries {
		if e.method == "" {
			for _, m := range Methods {
				add(m)
			}
			continue
		}
		add(e.method)
		if e.method == http.MethodGet && !rt.has(http.MethodHead) {
			add(http.MethodHead)
		}
	}
	return out
}

func (rt *Route) has(method string) bool {
	for _, e := range rt.entries {
		if e.method == method {
			return true
		}
	}
	return false
}

func (rt *Route) handles(method string) bool {
	for _, e := range rt.entries {
		if rt.applies(e, method) {
			return true
		}
	}
	return false
}

func (rt *Route) applies(e routeEntry, method string) bool {
	switch {
	case e.method == "" || e.method == method:
		return true
	case method == http.MethodHead && e.method == http.MethodGet:
		return !rt.has(http.MethodHead)
	default:
		return false
	}
}
