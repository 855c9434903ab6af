package utils

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/RecoveryAshes/docsnap/internal/models"
)

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		value   string
		wantErr bool
	}{
		{"合法头部", "X-Archive-Run", "docsnap", false},
		{"UA包含空格和括号", "User-Agent", "Mozilla/5.0 (X11; Linux x86_64)", false},
		{"空名称", "", "x", true},
		{"禁止的Host", "host", "example.com", true},
		{"名称含空格", "Bad Name", "x", true},
		{"值含换行", "X-Test", "a\r\nInjected: 1", true},
		{"值过长", "X-Long", strings.Repeat("a", MaxHeaderValueLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.header, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHeader(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			var ve *models.ValidationError
			if err != nil && !errors.As(err, &ve) {
				t.Errorf("错误类型应为ValidationError, got %T", err)
			}
		})
	}
}

func TestValidateHeaders(t *testing.T) {
	ok := http.Header{"Accept": {"text/html"}, "X-Token": {"abc"}}
	if err := ValidateHeaders(ok); err != nil {
		t.Errorf("ValidateHeaders() error = %v", err)
	}

	bad := http.Header{"Accept": {"text/html"}, "Content-Length": {"10"}}
	if err := ValidateHeaders(bad); err == nil {
		t.Error("包含Content-Length时应返回错误")
	}
}

func TestRedactHeaders(t *testing.T) {
	headers := http.Header{
		"Authorization": {"Bearer secret-token"},
		"Cookie":        {"a"},
		"Accept":        {"text/html"},
	}

	got := RedactHeaders(headers)
	want := "Accept: text/html; Authorization: Bear***; Cookie: ***"
	if got != want {
		t.Errorf("RedactHeaders() = %q, want %q", got, want)
	}
	if strings.Contains(got, "secret") {
		t.Error("脱敏后不应包含原始令牌")
	}
}
