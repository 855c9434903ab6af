package models

import (
	"fmt"
	"strings"
)

// Layout 输出目录布局
type Layout string

const (
	LayoutFlat         Layout = "flat"         // output/{pdf,html}/<标题>
	LayoutHierarchical Layout = "hierarchical" // output/{pdf,html}/<URL子目录>/<标题>
)

// Discovery 链接发现模式
type Discovery string

const (
	DiscoveryMenuOnly  Discovery = "menu-only" // 仅处理菜单中的链接
	DiscoveryRecursive Discovery = "recursive" // 继续跟随正文列表中的子链接
)

const (
	// DefaultMenuSelector 菜单容器选择器
	DefaultMenuSelector = "#common-menu-container"
	// DefaultContentSelector 正文容器选择器
	DefaultContentSelector = "#pc-markdown-container"
	// DefaultSubLinkSelector 正文内子链接选择器(相对正文容器)
	DefaultSubLinkSelector = "ul a"
)

// ArchiveConfig 归档配置
type ArchiveConfig struct {
	Layout          Layout    `json:"layout" mapstructure:"layout"`                     // 目录布局 (默认:hierarchical)
	Discovery       Discovery `json:"discovery" mapstructure:"discovery"`               // 发现模式 (默认:recursive)
	MenuSelector    string    `json:"menu_selector" mapstructure:"menu_selector"`       // 菜单容器
	ContentSelector string    `json:"content_selector" mapstructure:"content_selector"` // 正文容器
	SubLinkSelector string    `json:"sublink_selector" mapstructure:"sublink_selector"` // 子链接
	FetchTimeout    int       `json:"fetch_timeout" mapstructure:"fetch_timeout"`       // 请求超时(秒),0表示使用客户端默认值
	SaveRoot        bool      `json:"save_root" mapstructure:"save_root"`               // 是否保存种子页 root.html
}

// DefaultArchiveConfig 默认归档配置
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		Layout:          LayoutHierarchical,
		Discovery:       DiscoveryRecursive,
		MenuSelector:    DefaultMenuSelector,
		ContentSelector: DefaultContentSelector,
		SubLinkSelector: DefaultSubLinkSelector,
		SaveRoot:        true,
	}
}

// ParseLayout 解析布局名称,大小写不敏感
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutFlat:
		return LayoutFlat, nil
	case LayoutHierarchical:
		return LayoutHierarchical, nil
	}
	return "", fmt.Errorf("无效的目录布局: %q (有效值: flat, hierarchical)", s)
}

// ParseDiscovery 解析发现模式名称,大小写不敏感
func ParseDiscovery(s string) (Discovery, error) {
	switch Discovery(strings.ToLower(strings.TrimSpace(s))) {
	case DiscoveryMenuOnly:
		return DiscoveryMenuOnly, nil
	case DiscoveryRecursive:
		return DiscoveryRecursive, nil
	}
	return "", fmt.Errorf("无效的发现模式: %q (有效值: menu-only, recursive)", s)
}

// Validate 验证配置
func (c *ArchiveConfig) Validate() error {
	if _, err := ParseLayout(string(c.Layout)); err != nil {
		return err
	}
	if _, err := ParseDiscovery(string(c.Discovery)); err != nil {
		return err
	}
	if strings.TrimSpace(c.MenuSelector) == "" {
		return fmt.Errorf("菜单选择器不能为空")
	}
	if strings.TrimSpace(c.ContentSelector) == "" {
		return fmt.Errorf("正文选择器不能为空")
	}
	if c.Discovery == DiscoveryRecursive && strings.TrimSpace(c.SubLinkSelector) == "" {
		return fmt.Errorf("递归发现模式下子链接选择器不能为空")
	}
	if c.FetchTimeout < 0 || c.FetchTimeout > 600 {
		return fmt.Errorf("请求超时必须在0-600秒之间")
	}
	return nil
}
