package core

import (
	"net/http"
	"sync"

	"github.com/RecoveryAshes/docsnap/internal/config"
	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
)

const (
	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// HeaderManager 合并三层HTTP头部: 默认 < 配置文件 < 命令行
// 实现 models.HeaderProvider
type HeaderManager struct {
	loader   *config.HeaderConfigLoader
	defaults http.Header
	cli      http.Header

	once   sync.Once
	merged http.Header
	err    error
}

// NewHeaderManager 创建头部管理器
// headerFile为空时使用 configs/headers.yaml (不存在则忽略)
// cliHeaders格式为 "Name: Value",解析失败时立即返回错误
func NewHeaderManager(headerFile string, cliHeaders []string) (*HeaderManager, error) {
	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}
	return &HeaderManager{
		loader:   config.NewHeaderConfigLoader(headerFile),
		defaults: defaultHeaders(),
		cli:      cli,
	}, nil
}

func defaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      {DefaultUserAgent},
		"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language": {"zh-CN,zh;q=0.9,en;q=0.8"},
		"Accept-Encoding": {"gzip, deflate, br"},
	}
}

// GetHeaders 实现 models.HeaderProvider
// 第一次调用时加载配置文件并验证,之后返回缓存结果的副本
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	hm.once.Do(func() {
		hm.merged, hm.err = hm.load()
	})
	if hm.err != nil {
		return nil, hm.err
	}
	return hm.merged.Clone(), nil
}

func (hm *HeaderManager) load() (http.Header, error) {
	fileConfig, err := hm.loader.Load()
	if err != nil {
		utils.Errorf("加载HTTP头部配置失败: %v", err)
		return nil, err
	}

	fromFile := make(http.Header)
	for name, value := range fileConfig.Headers {
		fromFile.Set(name, value)
	}

	merged := make(http.Header)
	for _, layer := range []http.Header{hm.defaults, fromFile, hm.cli} {
		for name, values := range layer {
			merged[http.CanonicalHeaderKey(name)] = values
		}
	}

	if err := utils.ValidateHeaders(merged); err != nil {
		utils.Errorf("HTTP头部验证失败: %v", err)
		return nil, err
	}

	utils.Debugf("HTTP请求头部: %s", utils.RedactHeaders(merged))
	return merged, nil
}
