package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
	Tags    []string      `mapstructure:"tags"`
	Nested  struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"nested"`
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, DefaultConfigRelPath)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_解析duration与切片(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "name: demo\ntimeout: 3s\ntags: a,b\nnested:\n  port: 8080\n")

	var out sample
	l, err := Load(p, &out)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if l.Path() != p {
		t.Fatalf("path=%q want=%q", l.Path(), p)
	}
	if out.Name != "demo" || out.Timeout != 3*time.Second || out.Nested.Port != 8080 {
		t.Fatalf("解析结果不符合预期: %+v", out)
	}
	if len(out.Tags) != 2 || out.Tags[1] != "b" {
		t.Fatalf("tags=%v", out.Tags)
	}
}

func TestLoad_环境变量覆盖(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "name: demo\nnested:\n  port: 8080\n")
	t.Setenv("PR_NESTED_PORT", "9090")

	var out sample
	if _, err := Load(p, &out); err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if out.Nested.Port != 9090 {
		t.Fatalf("期望环境变量覆盖 nested.port, got=%d", out.Nested.Port)
	}
}

func TestResolve_向上查找(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, "name: x\n")
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(sub)

	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestResolve_文件不存在(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("期望返回错误")
	}
}
