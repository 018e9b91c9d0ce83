package routerx

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// flattenArgs 递归展开参数中的切片（[]any、gin.HandlersChain、[]Handler 等）。
func flattenArgs(args []any) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		v := reflect.ValueOf(arg)
		if arg == nil || v.Kind() != reflect.Slice {
			out = append(out, arg)
			continue
		}
		nested := make([]any, v.Len())
		for i := range nested {
			nested[i] = v.Index(i).Interface()
		}
		out = append(out, flattenArgs(nested)...)
	}
	return out
}

// splitPath 第一个参数是 string 或 *regexp.Regexp 时视为路径，原样取出。
func splitPath(items []any) (string, *regexp.Regexp, []any) {
	if len(items) == 0 {
		return "", nil, items
	}
	switch p := items[0].(type) {
	case string:
		return normalizePrefix(mustStringPath(p)), nil, items[1:]
	case *regexp.Regexp:
		if p == nil {
			panic("routerx: nil regexp path")
		}
		return "", p, items[1:]
	}
	return "", nil, items
}

func mustPath(path any) (string, *regexp.Regexp) {
	switch p := path.(type) {
	case string:
		return mustStringPath(p), nil
	case *regexp.Regexp:
		if p == nil {
			panic("routerx: nil regexp path")
		}
		return "", p
	}
	panic(fmt.Sprintf("routerx: path must be a string or *regexp.Regexp, got %T", path))
}

func mustStringPath(p string) string {
	if p == "" || p[0] != '/' {
		panic(fmt.Sprintf("routerx: path must begin with '/', got %q", p))
	}
	return p
}

// normalizePrefix Use 的前缀 "/" 等价于不带前缀。
func normalizePrefix(p string) string {
	return strings.TrimRight(p, "/")
}

// joinPath 拼接挂载前缀与相对路径；子路由的 "/" 对应挂载点本身。
func joinPath(prefix, p string) string {
	if prefix == "" {
		return p
	}
	if p == "" || p == "/" {
		return prefix
	}
	return prefix + p
}

// covers 判断前缀是否按路径段覆盖 p；fold 为 true 时忽略大小写。
func covers(prefix, p string, fold bool) bool {
	if prefix == "" {
		return true
	}
	if len(p) < len(prefix) {
		return false
	}
	head := p[:len(prefix)]
	if fold {
		if !strings.EqualFold(head, prefix) {
			return false
		}
	} else if head != prefix {
		return false
	}
	return len(p) == len(prefix) || p[len(prefix)] == '/'
}

// relative 返回 p 相对挂载点 base 的路径，不在挂载点下时 ok 为 false。
func relative(base, p string, fold bool) (string, bool) {
	if !covers(base, p, fold) {
		return "", false
	}
	rel := p[len(base):]
	if rel == "" {
		rel = "/"
	}
	return rel, true
}

// paramNames 提取 gin 路径模式中声明的参数名（:name / *name）。
func paramNames(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if len(seg) > 1 && (seg[0] == ':' || seg[0] == '*') {
			names = append(names, seg[1:])
		}
	}
	return names
}
