package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/RecoveryAshes/docsnap/internal/models"
)

// NormalizeURL 规范化种子URL,没有协议时默认使用https
func NormalizeURL(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", fmt.Errorf("URL不能为空")
	}
	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("URL格式无效: %w", err)
	}
	if err := models.ValidateURL(parsed.String()); err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// ValidateArgs 检查种子URL和 --url-file 的组合
// 二者必须且只能提供一个
func ValidateArgs(args []string, urlFile string) (string, error) {
	switch {
	case len(args) > 1:
		return "", fmt.Errorf("只能指定一个种子URL,当前: %d 个", len(args))
	case len(args) == 1 && urlFile != "":
		return "", fmt.Errorf("种子URL和 --url-file 不能同时使用")
	case len(args) == 0 && urlFile == "":
		return "", fmt.Errorf("缺少种子URL (或使用 --url-file 指定URL列表)")
	case len(args) == 0:
		return "", nil
	}

	seed, err := NormalizeURL(args[0])
	if err != nil {
		return "", fmt.Errorf("无效的种子URL: %w", err)
	}
	return seed, nil
}
