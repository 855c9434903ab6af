package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RecoveryAshes/docsnap/internal/models"
)

func TestHeaderConfigLoader_Load(t *testing.T) {
	t.Run("加载已存在的配置文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		content := "headers:\n  User-Agent: \"Test Bot/1.0\"\n  X-Custom: \"test value\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("写入测试配置失败: %v", err)
		}

		cfg, err := NewHeaderConfigLoader(path).Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(cfg.Headers) != 2 {
			t.Fatalf("期望2个头部, 得到 %d: %v", len(cfg.Headers), cfg.Headers)
		}
		if cfg.Headers["user-agent"] != "Test Bot/1.0" {
			t.Errorf("User-Agent = %q", cfg.Headers["user-agent"])
		}
	})

	t.Run("模板文件没有启用的头部", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		if err := os.WriteFile(path, []byte(HeaderTemplate()), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := NewHeaderConfigLoader(path).Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Headers == nil || len(cfg.Headers) != 0 {
			t.Errorf("期望空map, 得到 %v", cfg.Headers)
		}
	})

	t.Run("显式指定的文件不存在", func(t *testing.T) {
		_, err := NewHeaderConfigLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
		var ce *models.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("期望ConfigError, 得到 %v", err)
		}
	})

	t.Run("YAML格式错误", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		os.WriteFile(path, []byte("headers: [unclosed"), 0644)
		if _, err := NewHeaderConfigLoader(path).Load(); err == nil {
			t.Error("格式错误时应返回错误")
		}
	})

	t.Run("文件过大", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "headers.yaml")
		big := "headers:\n  X-Big: \"" + strings.Repeat("a", MaxConfigFileSize) + "\"\n"
		os.WriteFile(path, []byte(big), 0644)
		_, err := NewHeaderConfigLoader(path).Load()
		if err == nil || !strings.Contains(err.Error(), "配置文件过大") {
			t.Errorf("期望文件过大错误, 得到 %v", err)
		}
	})
}

func TestHeaderConfigLoader_DefaultPathMissing(t *testing.T) {
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewHeaderConfigLoader("").Load()
	if err != nil {
		t.Fatalf("默认路径不存在时不应报错: %v", err)
	}
	if len(cfg.Headers) != 0 {
		t.Errorf("期望空配置, 得到 %v", cfg.Headers)
	}
}

func TestHeaderConfigLoader_WriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "headers.yaml")
	loader := NewHeaderConfigLoader(path)

	created, err := loader.WriteTemplate()
	if err != nil || !created {
		t.Fatalf("WriteTemplate() = %v, %v", created, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != HeaderTemplate() {
		t.Error("写入内容应与内置模板一致")
	}

	os.WriteFile(path, []byte("headers:\n  X-Mine: \"1\"\n"), 0644)
	created, err = loader.WriteTemplate()
	if err != nil || created {
		t.Fatalf("已存在时不应覆盖: created=%v err=%v", created, err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "X-Mine") {
		t.Error("已有配置被覆盖")
	}
}
