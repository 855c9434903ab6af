// Package config 负责HTTP头部配置文件的加载和模板生成
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/spf13/viper"
)

const (
	// DefaultHeaderFile 默认头部配置文件路径
	DefaultHeaderFile = "configs/headers.yaml"

	// MaxConfigFileSize 配置文件最大大小 (1MB)
	MaxConfigFileSize = 1 * 1024 * 1024
)

//go:embed headers_template.yaml
var headerTemplate string

// HeaderTemplate 返回内置的头部配置模板
func HeaderTemplate() string {
	return headerTemplate
}

// HeaderConfigLoader 头部配置文件加载器
type HeaderConfigLoader struct {
	path     string
	explicit bool // 由用户指定路径时,文件必须存在
}

// NewHeaderConfigLoader 创建加载器,path为空时使用 configs/headers.yaml
func NewHeaderConfigLoader(path string) *HeaderConfigLoader {
	if path == "" {
		return &HeaderConfigLoader{path: DefaultHeaderFile}
	}
	return &HeaderConfigLoader{path: path, explicit: true}
}

// Path 配置文件路径
func (l *HeaderConfigLoader) Path() string {
	return l.path
}

// WriteTemplate 在配置文件不存在时写入模板,已存在则不做任何事
// 返回是否新建了文件
func (l *HeaderConfigLoader) WriteTemplate() (bool, error) {
	if _, err := os.Stat(l.path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, &models.ConfigError{FilePath: l.path, Cause: err}
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("无法创建配置目录 [%s]: %w", dir, err)
	}
	if err := os.WriteFile(l.path, []byte(headerTemplate), 0644); err != nil {
		return false, fmt.Errorf("无法生成配置文件 [%s]: %w", l.path, err)
	}
	return true, nil
}

// Load 读取并解析头部配置
// 默认路径下文件不存在时返回空配置;显式指定的文件不存在时返回ConfigError
func (l *HeaderConfigLoader) Load() (*models.HeaderConfig, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !l.explicit {
			return &models.HeaderConfig{Headers: map[string]string{}}, nil
		}
		return nil, &models.ConfigError{FilePath: l.path, Cause: err}
	}
	if info.Size() > MaxConfigFileSize {
		return nil, &models.ConfigError{
			FilePath: l.path,
			Cause:    fmt.Errorf("配置文件过大: %d 字节 (最大 %d 字节)", info.Size(), MaxConfigFileSize),
		}
	}

	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, &models.ConfigError{FilePath: l.path, Cause: err}
	}

	// viper会把键转为小写,头部名称在合并时由http.Header规范化
	var config models.HeaderConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, &models.ConfigError{FilePath: l.path, Cause: fmt.Errorf("配置绑定失败: %w", err)}
	}
	if config.Headers == nil {
		config.Headers = make(map[string]string)
	}
	return &config, nil
}
