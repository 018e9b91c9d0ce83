// Package config 负责定位并加载 yaml 配置文件，支持环境变量覆盖与热更新。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const DefaultConfigRelPath = "configs/conf.yml"

// EnvPrefix 环境变量前缀：PR_HTTPSERVER_PORT 覆盖 httpserver.port。
const EnvPrefix = "PR"

// Loader 持有一次加载的 viper 实例，Watch 时用同一个实例反序列化。
type Loader struct {
	v    *viper.Viper
	path string
	mu   sync.Mutex
}

// Load 读取配置并反序列化到 out。
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any) (*Loader, error) {
	path, err := Resolve(cfgName)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err = v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	l := &Loader{v: v, path: path}
	if err = l.decode(out); err != nil {
		return nil, err
	}
	return l, nil
}

// Path 返回实际加载的文件路径。
func (l *Loader) Path() string {
	return l.path
}

// Watch 监听文件变更，变更后重新反序列化到 out 再回调 onChange。
// out 由调用方保证并发安全（通常回调里只读取需要热更新的字段）。
func (l *Loader) Watch(out any, onChange func(fsnotify.Event, error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		err := l.decode(out)
		l.mu.Unlock()
		if onChange != nil {
			onChange(e, err)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) decode(out any) error {
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.v.Unmarshal(out, hook); err != nil {
		return fmt.Errorf("decode config %s: %w", l.path, err)
	}
	return nil
}

// Resolve 把 cfgName 解析为存在的文件路径。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		p := cfgName
		if !filepath.IsAbs(p) {
			p = filepath.Join(curDir, p)
		}
		if !fileExist(p) {
			return "", fmt.Errorf("config file not exist, configPath=%v", p)
		}
		return p, nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", DefaultConfigRelPath, startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
