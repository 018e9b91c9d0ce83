package handler

import (
	"context"
	"net/http"
	"strings"

	"PromiseRouter/internal/account/app"
	"PromiseRouter/internal/account/app/model"
	"PromiseRouter/internal/account/dto"
	"PromiseRouter/internal/shared/security"
	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/promise"
	"PromiseRouter/modules/kit/routerx"

	"github.com/gin-gonic/gin"
)

const (
	uidKey     = "account.uid"
	profileKey = "account.profile"
)

// TokenParser 解析 Authorization: Bearer <token>。
type TokenParser interface {
	Parse(token string) (*security.Claims, error)
}

type Account struct {
	userService *app.UserService
	tokens      TokenParser
	log         logx.Logger
}

func NewAccount(userService *app.UserService, tokens TokenParser, log logx.Logger) *Account {
	if log == nil {
		log = logx.Nop()
	}
	return &Account{
		userService: userService,
		tokens:      tokens,
		log:         log,
	}
}

// Router 账号模块的子路由：
//
//	POST /register        注册
//	POST /login           登录，返回 session token
//	GET  /users/:uid      查询资料（:uid 由 Param 预加载）
//	GET  /me              当前登录用户资料，需要 token
//
// 所有 GET/POST 路由前都会先解析 token（没有 token 时放行，由 requireAuth 决定是否必须登录）。
func (a *Account) Router() *routerx.Router {
	r := routerx.New(&routerx.Config{Prepend: routerx.NextHandler(a.authenticate)})
	r.Param("uid", a.loadProfile)
	r.POST("/register", a.register)
	r.POST("/login", a.login)
	r.GET("/users/:uid", a.profile)
	r.GET("/me", a.requireAuth, a.me)
	r.Use(routerx.ErrorHandler(a.mapError))
	return r
}

func (a *Account) authenticate(c *gin.Context, next routerx.Next) error {
	header := c.GetHeader("Authorization")
	if header == "" {
		next(nil)
		return nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return app.ErrUnauthorized.WithReason(app.ReasonTokenInvalid)
	}
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return app.ErrUnauthorized.WithReason(app.ReasonTokenInvalid).WithCause(err)
	}
	c.Set(uidKey, claims.Uid)
	next(nil)
	return nil
}

func (a *Account) requireAuth(c *gin.Context, next routerx.Next) error {
	if c.GetString(uidKey) == "" {
		return app.ErrUnauthorized
	}
	next(nil)
	return nil
}

func (a *Account) register(c *gin.Context) *promise.Promise {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return promise.Reject(app.ErrReqParamERR.WithCause(err))
	}
	return promise.GoContext(c.Request.Context(), func(ctx context.Context) error {
		resp, err := a.userService.Register(ctx, model.RegisterReq{
			Username: req.Username,
			Password: req.Password,
			Hardware: req.Hardware,
		})
		if err != nil {
			return err
		}
		c.JSON(http.StatusCreated, dto.RegisterResp{UId: resp.UId, Username: resp.Username})
		return nil
	})
}

func (a *Account) login(c *gin.Context) *promise.Promise {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return promise.Reject(app.ErrReqParamERR.WithCause(err))
	}
	ip := c.ClientIP()
	return promise.GoContext(c.Request.Context(), func(ctx context.Context) error {
		resp, err := a.userService.Login(ctx, model.LoginReq{
			Username: req.Username,
			Password: req.Password,
			Ip:       ip,
			Hardware: req.Hardware,
		})
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, dto.LoginResp{UId: resp.UId, Username: resp.Username, Session: resp.Session})
		return nil
	})
}

// loadProfile 同一请求内同一个 uid 只查询一次。
func (a *Account) loadProfile(c *gin.Context, next routerx.Next, uid string, _ string) error {
	p, err := a.userService.Profile(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	c.Set(profileKey, p)
	next(nil)
	return nil
}

func (a *Account) profile(c *gin.Context) error {
	p, ok := c.Get(profileKey)
	if !ok {
		return app.ErrUserNotFound
	}
	c.JSON(http.StatusOK, toProfileResp(p.(*model.Profile)))
	return nil
}

func (a *Account) me(c *gin.Context) *promise.Promise {
	uid := c.GetString(uidKey)
	return promise.GoContext(c.Request.Context(), func(ctx context.Context) error {
		p, err := a.userService.Profile(ctx, uid)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, toProfileResp(p))
		return nil
	})
}

func toProfileResp(p *model.Profile) dto.ProfileResp {
	out := dto.ProfileResp{
		UId:      p.UId,
		Username: p.Username,
		Hardware: p.Hardware,
		Ctime:    p.Ctime,
	}
	for _, r := range p.RecentLogins {
		out.RecentLogins = append(out.RecentLogins, dto.LoginRecord{Ip: r.Ip, Hardware: r.Hardware, Time: r.Time})
	}
	return out
}
