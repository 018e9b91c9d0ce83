package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PromiseRouter/internal/account/app"
	"PromiseRouter/internal/account/domain"
	"PromiseRouter/internal/account/dto"
	"PromiseRouter/internal/account/infra/crypto"
	"PromiseRouter/internal/account/infra/repo/memory"
	"PromiseRouter/internal/account/interfaces"
	"PromiseRouter/internal/account/interfaces/handler"
	"PromiseRouter/internal/shared/security"
	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/routerx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	root  *routerx.Router
	users *memory.UserRepo
	logs  *observer.ObservedLogs
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	log := logx.NewZapLogger(zap.New(core))

	users := memory.NewUserRepo()
	tokens := security.NewTokens("test-secret", time.Hour)
	svc := app.NewUserService(users, memory.NewLoginHistoryRepo(), crypto.NewBcrypt(bcrypt.MinCost), tokens, uuid.NewString)

	root := routerx.New(&routerx.Config{Logger: log})
	interfaces.New(handler.NewAccount(svc, tokens, log)).Register(root)
	return &env{root: root, users: users, logs: logs}
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.root.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAccount_注册登录查询(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/account/register", dto.RegisterReq{Username: "alice", Password: "secret1", Hardware: "pc"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[dto.RegisterResp](t, w)
	require.Equal(t, "alice", reg.Username)

	w = e.do(t, http.MethodPost, "/account/login", dto.LoginReq{Username: "alice", Password: "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[dto.LoginResp](t, w)
	require.Equal(t, reg.UId, login.UId)
	require.NotEmpty(t, login.Session)

	w = e.do(t, http.MethodGet, "/account/me", nil, login.Session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decode[dto.ProfileResp](t, w)
	require.Equal(t, "alice", me.Username)
	require.Len(t, me.RecentLogins, 1)

	w = e.do(t, http.MethodGet, "/account/users/"+reg.UId, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "pc", decode[dto.ProfileResp](t, w).Hardware)
}

func TestAccount_业务错误由模块就地响应(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/account/register", dto.RegisterReq{Username: "alice", Password: "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(t, http.MethodPost, "/account/register", dto.RegisterReq{Username: "alice", Password: "secret1"}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, string(app.CodeUserExist), decode[routerx.ErrorBody](t, w).Code)

	w = e.do(t, http.MethodPost, "/account/login", dto.LoginReq{Username: "alice", Password: "wrong!"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, string(app.CodeInvalidCredentials), decode[routerx.ErrorBody](t, w).Code)

	w = e.do(t, http.MethodPost, "/account/login", map[string]string{"username": "alice"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/account/users/missing", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, string(app.CodeUserNotFound), decode[routerx.ErrorBody](t, w).Code)

	biz := e.logs.FilterField(zap.String("err_type", "biz")).All()
	require.NotEmpty(t, biz)
}

func TestAccount_令牌校验(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/account/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/account/me", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", decode[routerx.ErrorBody](t, w).Code)

	// token 有效但用户已禁用
	w = e.do(t, http.MethodPost, "/account/register", dto.RegisterReq{Username: "bob_1", Password: "secret1"}, "")
	reg := decode[dto.RegisterResp](t, w)
	w = e.do(t, http.MethodPost, "/account/login", dto.LoginReq{Username: "bob_1", Password: "secret1"}, "")
	login := decode[dto.LoginResp](t, w)
	require.NoError(t, e.users.SetStatus(t.Context(), reg.UId, domain.UserDisabled))

	w = e.do(t, http.MethodPost, "/account/login", dto.LoginReq{Username: "bob_1", Password: "secret1"}, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodGet, "/account/me", nil, login.Session)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAccount_未知路由交给根路由(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/account/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "NOT_FOUND", decode[routerx.ErrorBody](t, w).Code)
}
