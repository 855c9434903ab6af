package utils

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/RecoveryAshes/docsnap/internal/models"
	"golang.org/x/net/http/httpguts"
)

// MaxHeaderValueLength HTTP头部值最大长度 (8KB)
const MaxHeaderValueLength = 8192

// forbiddenHeaders 由HTTP客户端管理,不允许自定义
var forbiddenHeaders = map[string]bool{
	"Host":              true,
	"Content-Length":    true,
	"Transfer-Encoding": true,
	"Connection":        true,
}

// sensitiveHeaders 日志中需要脱敏的头部
var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Cookie":              true,
	"Proxy-Authorization": true,
	"X-Api-Key":           true,
	"X-Auth-Token":        true,
}

// ValidateHeader 检查单个头部名称和值 (RFC 7230)
func ValidateHeader(name, value string) error {
	canonical := http.CanonicalHeaderKey(name)
	switch {
	case name == "":
		return &models.ValidationError{Field: "name", Reason: "头部名称不能为空"}
	case forbiddenHeaders[canonical]:
		return &models.ValidationError{
			Field:      "name",
			HeaderName: name,
			Reason:     "此头部由HTTP客户端自动管理,不允许自定义",
			Suggestion: fmt.Sprintf("移除 '%s' 头部配置", name),
		}
	case !httpguts.ValidHeaderFieldName(name):
		return &models.ValidationError{
			Field:      "name",
			HeaderName: name,
			Reason:     "头部名称包含非法字符",
			Suggestion: "使用字母、数字和连字符 (如 'User-Agent', 'X-Custom-Header')",
		}
	case len(value) > MaxHeaderValueLength:
		return &models.ValidationError{
			Field:      "value",
			HeaderName: name,
			Reason:     fmt.Sprintf("头部值过长: %d 字节 (最大 %d)", len(value), MaxHeaderValueLength),
		}
	case !httpguts.ValidHeaderFieldValue(value):
		return &models.ValidationError{
			Field:      "value",
			HeaderName: name,
			Reason:     "头部值包含控制字符",
			Suggestion: "移除换行符等控制字符",
		}
	}
	return nil
}

// ValidateHeaders 验证全部头部,返回第一个错误
func ValidateHeaders(headers http.Header) error {
	for _, name := range sortedNames(headers) {
		for _, value := range headers[name] {
			if err := ValidateHeader(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// RedactHeaderValue 敏感头部只保留前4个字符
func RedactHeaderValue(name, value string) string {
	if !sensitiveHeaders[http.CanonicalHeaderKey(name)] {
		return value
	}
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}

// RedactHeaders 生成用于日志输出的 "Name: Value" 列表,按名称排序
func RedactHeaders(headers http.Header) string {
	lines := make([]string, 0, len(headers))
	for _, name := range sortedNames(headers) {
		value := strings.Join(headers[name], ", ")
		lines = append(lines, fmt.Sprintf("%s: %s", name, RedactHeaderValue(name, value)))
	}
	return strings.Join(lines, "; ")
}

func sortedNames(headers http.Header) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
