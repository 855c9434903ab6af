package core

import (
	"os"
	"path/filepath"
	"testing"
)

func writeHeaderFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headers.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHeaderManager_Precedence(t *testing.T) {
	path := writeHeaderFile(t, "headers:\n  user-agent: \"FileBot/1.0\"\n  x-source: \"file\"\n  accept-language: \"en\"\n")

	hm, err := NewHeaderManager(path, []string{"X-Source: cli", "Authorization: Bearer abc"})
	if err != nil {
		t.Fatalf("NewHeaderManager() error = %v", err)
	}
	headers, err := hm.GetHeaders()
	if err != nil {
		t.Fatalf("GetHeaders() error = %v", err)
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"配置文件覆盖默认值", "User-Agent", "FileBot/1.0"},
		{"命令行覆盖配置文件", "X-Source", "cli"},
		{"命令行新增头部", "Authorization", "Bearer abc"},
		{"保留默认值", "Accept-Encoding", "gzip, deflate, br"},
		{"配置文件覆盖默认语言", "Accept-Language", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headers.Get(tt.key); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	// 返回副本,调用方修改不影响后续请求
	headers.Set("X-Source", "mutated")
	again, _ := hm.GetHeaders()
	if again.Get("X-Source") != "cli" {
		t.Error("GetHeaders应返回副本")
	}
}

func TestHeaderManager_Errors(t *testing.T) {
	t.Run("命令行格式错误", func(t *testing.T) {
		if _, err := NewHeaderManager("", []string{"NoColon"}); err == nil {
			t.Error("期望返回错误")
		}
	})

	t.Run("禁止的头部", func(t *testing.T) {
		hm, err := NewHeaderManager(writeHeaderFile(t, "headers:\n  host: \"evil.example.com\"\n"), nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := hm.GetHeaders(); err == nil {
			t.Error("配置Host头部应返回错误")
		}
	})

	t.Run("指定的配置文件不存在", func(t *testing.T) {
		hm, _ := NewHeaderManager(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		if _, err := hm.GetHeaders(); err == nil {
			t.Error("期望返回错误")
		}
	})
}
