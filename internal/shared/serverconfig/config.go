package serverconfig

import (
	"fmt"
	"os"
	"time"

	"PromiseRouter/internal/shared/config"
)

const (
	StoreMemory  = "memory"
	StoreMySQL   = "mysql"
	StoreMongoDB = "mongodb"
)

// Load 加载服务配置并补齐默认值；cfgName 为空时向上查找 configs/conf.yml。
func Load(cfgName string) (*Config, *config.Loader, error) {
	var conf Config
	loader, err := config.Load(cfgName, &conf)
	if err != nil {
		return nil, nil, err
	}
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if env := os.Getenv("JWT_SECRET"); env != "" {
		conf.Account.JWTSecret = env
	}
	conf.applyDefaults()
	if err = conf.Validate(); err != nil {
		return nil, nil, err
	}
	return &conf, loader, nil
}

func (c *Config) applyDefaults() {
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
	if c.HTTPServer.ShutdownTimeout <= 0 {
		c.HTTPServer.ShutdownTimeout = 10 * time.Second
	}
	if c.Account.Store == "" {
		c.Account.Store = StoreMemory
	}
	if c.Account.TokenTTL <= 0 {
		c.Account.TokenTTL = 7 * 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	switch c.Account.Store {
	case StoreMemory, StoreMySQL, StoreMongoDB:
	default:
		return fmt.Errorf("account.store must be one of memory/mysql/mongodb, got %q", c.Account.Store)
	}
	if c.Account.Store == StoreMongoDB && c.MongoDB.URI == "" {
		return fmt.Errorf("mongodb.uri is required when account.store=mongodb")
	}
	return nil
}

// Addr 返回 http 监听地址。
func (c HTTPServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
