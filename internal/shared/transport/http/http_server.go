package http

import (
	"context"
	nethttp "net/http"
	"time"

	"PromiseRouter/internal/shared/transport/http/middleware"
	"PromiseRouter/modules/kit/logx"
	"PromiseRouter/modules/kit/routerx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Registrar 由业务模块实现，把自己的路由挂到根路由上。
type Registrar interface {
	Register(root *routerx.Router)
}

type Options struct {
	Router       routerx.Config
	CorsOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	router *routerx.Router
	srv    *nethttp.Server
	log    logx.Logger
}

// NewHttpServer 创建根路由：CORS → access 日志 → /healthz，其余由各模块通过 Register 挂载。
func NewHttpServer(addr string, opts Options, logger logx.Logger) *Server {
	if logger == nil {
		logger = logx.Nop()
	}
	cfg := opts.Router
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	cfg.ErrorResponder = middleware.ReportError(cfg.ErrorResponder)

	router := routerx.New(&cfg)
	router.Use(middleware.Cors(opts.CorsOrigins...), middleware.AccessLog(logger))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		router: router,
		log:    logger,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       orDefault(opts.ReadTimeout, 15*time.Second),
			WriteTimeout:      orDefault(opts.WriteTimeout, 15*time.Second),
			IdleTimeout:       60 * time.Second,
		},
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

// Register 依次挂载业务模块，必须在 Start 之前调用。
func (s *Server) Register(modules ...Registrar) {
	for _, m := range modules {
		m.Register(s.router)
	}
}

// Start 启动 HTTP 服务（阻塞）。关闭时会返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	// 提前构建，路由冲突在启动时暴露
	_ = s.router.Engine()
	s.log.Info("http server start", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Router() *routerx.Router {
	return s.router
}

func (s *Server) Handler() nethttp.Handler {
	return s.router
}
