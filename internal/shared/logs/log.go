package logs

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"PromiseRouter/internal/shared/serverconfig"
	"PromiseRouter/modules/kit/logx"
)

var (
	logger      = zap.NewNop()
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 初始化全局 logger：控制台彩色输出，配置了 file_dir 时再以 JSON 写入滚动文件。
func Init(appName string, cfg serverconfig.LogConfig) error {
	// 热更新时通过 SetLevel 调整
	atomicLevel.SetLevel(parseLevel(cfg.Level))

	// 2026-01-28T10:00:00 INFO  account  access  middleware/access_log.go:12
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)
	consoleSyncer := zapcore.Lock(os.Stderr)

	// 文件与控制台分成两路 core，避免把 ANSI 颜色写进日志文件
	core := zapcore.NewCore(consoleEncoder, consoleSyncer, atomicLevel)
	if cfg.FileDir != "" {
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize), // MB，至少 1
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), atomicLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		// 开发模式下 warn 及以上自动带堆栈
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	l := zap.New(core, opts...).Named(appName)

	// 替换全局 logger：之前初始化过的先刷盘
	_ = logger.Sync()
	logger = l
	return nil
}

func parseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		// 解析失败则回退到 info
		return zapcore.InfoLevel
	}
	return lvl
}

// SetLevel 动态调整日志级别，返回调整后的级别。
func SetLevel(level string) zapcore.Level {
	lvl := parseLevel(level)
	atomicLevel.SetLevel(lvl)
	return lvl
}

// Logger 返回全局 zap.Logger（未初始化时为 Nop）。
func Logger() *zap.Logger {
	return logger
}

// Kit 返回 logx 适配器，交给 routerx/transport 等 kit 组件使用。
func Kit() logx.Logger {
	return logx.NewZapLogger(logger)
}

// Sync 刷盘，进程退出前调用。
func Sync() {
	_ = logger.Sync()
}

// 常用级别的便捷封装，fields 用 zap.String / zap.Int 等构造。

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { logger.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { logger.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }

// Fatal 输出后退出进程（os.Exit(1)）。
func Fatal(msg string, fields ...zap.Field) { logger.Fatal(msg, fields...) }
