package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"PromiseRouter/internal/shared/config"
	"PromiseRouter/internal/shared/logs"
	"PromiseRouter/internal/shared/serverconfig"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgName := flag.String("config", "", "配置文件路径，默认向上查找 configs/conf.yml")
	flag.Parse()

	conf, loader, err := serverconfig.Load(*cfgName)
	if err != nil {
		panic(err)
	}
	if err = logs.Init("server", conf.Log); err != nil {
		panic(err)
	}
	if err = run(conf, loader); err != nil {
		logs.Error("server exit", zap.Error(err))
		logs.Sync()
		os.Exit(1)
	}
	logs.Sync()
}

// run 返回前会执行所有 defer（停止信号监听、关闭存储）。
func run(conf *serverconfig.Config, loader *config.Loader) error {
	logs.Info("load config", zap.String("path", loader.Path()))

	if conf.HTTPServer.Mode != "" {
		gin.SetMode(conf.HTTPServer.Mode)
	}

	// 只热更新日志级别，其它配置需要重启生效
	var reloaded serverconfig.Config
	loader.Watch(&reloaded, func(e fsnotify.Event, err error) {
		if err != nil {
			logs.Warn("reload config failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		level := logs.SetLevel(reloaded.Log.Level)
		logs.Info("log level reloaded", zap.Stringer("level", level))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, conf)
	if err != nil {
		return fmt.Errorf("open account store %q: %w", conf.Account.Store, err)
	}
	defer store.close()

	server := newServer(conf, store)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTPServer.ShutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logs.Error("http server shutdown failed", zap.Error(shutdownErr))
	}
	return err
}
