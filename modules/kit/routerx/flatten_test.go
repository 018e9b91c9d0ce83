package routerx

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestFlattenArgs(t *testing.T) {
	h := func(c *gin.Context) {}
	out := flattenArgs([]any{"/p", []any{h, []any{h}}, gin.HandlersChain{h, h}, []Handler{nil}})
	require.Len(t, out, 6)
	require.Equal(t, "/p", out[0])
}

func TestJoinPath(t *testing.T) {
	require.Equal(t, "/", joinPath("", "/"))
	require.Equal(t, "/api", joinPath("/api", "/"))
	require.Equal(t, "/api", joinPath("/api", ""))
	require.Equal(t, "/api/users", joinPath("/api", "/users"))
	require.Equal(t, "", joinPath("", normalizePrefix("/")))
}

func TestCovers(t *testing.T) {
	require.True(t, covers("", "/anything", false))
	require.True(t, covers("/api", "/api", false))
	require.True(t, covers("/api", "/api/x", false))
	require.False(t, covers("/api", "/apix", false))
	require.False(t, covers("/api", "/API/x", false))
	require.True(t, covers("/api", "/API/x", true))

	rel, ok := relative("/shop", "/shop", false)
	require.True(t, ok)
	require.Equal(t, "/", rel)
}

func TestPrefixMatch(t *testing.T) {
	b := &builder{}
	require.Equal(t, matchAlways, b.prefixMatch("", "/x"))
	require.Equal(t, matchAlways, b.prefixMatch("/api", "/API/users"))
	require.Equal(t, matchMaybe, b.prefixMatch("/users/me", "/users/:id"))
	require.Equal(t, matchMaybe, b.prefixMatch("/static/a/b", "/static/*filepath"))
	require.Equal(t, matchNever, b.prefixMatch("/api/v1", "/api"))
	require.Equal(t, matchNever, b.prefixMatch("/api", "/"))

	b.cfg.CaseSensitive = true
	require.Equal(t, matchNever, b.prefixMatch("/api", "/API/users"))
}

func TestParamNames(t *testing.T) {
	require.Equal(t, []string{"uid", "path"}, paramNames("/users/:uid/files/*path"))
	require.Empty(t, paramNames("/plain"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		h    any
		want kind
	}{
		{gin.HandlerFunc(func(c *gin.Context) {}), kindPlain},
		{func(c *gin.Context) {}, kindPlain},
		{Handler(func(c *gin.Context) error { return nil }), kindNormal},
		{func(c *gin.Context, next Next) error { return nil }, kindNormal},
		{ErrorHandler(func(err error, c *gin.Context, next Next) error { return nil }), kindError},
		{func(c *gin.Context, next Next, v, n string) error { return nil }, kindParam},
	}
	for _, tc := range cases {
		w, err := classify(tc.h)
		require.NoError(t, err)
		require.Equal(t, tc.want, w.kind, "%T", tc.h)
	}

	_, err := classify(nil)
	require.Error(t, err)
	_, err = classify(42)
	require.Error(t, err)
}
