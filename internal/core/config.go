package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/docsnap/internal/crawlers"
	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Crawl   models.ArchiveConfig `mapstructure:"crawl"`
	Output  OutputConfig         `mapstructure:"output"`
	Render  RenderConfig         `mapstructure:"render"`
	Logging LoggingConfig        `mapstructure:"logging"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	BaseDir  string `mapstructure:"base_dir"`
	SaveRoot bool   `mapstructure:"save_root"`
}

// RenderConfig PDF渲染配置
type RenderConfig struct {
	Headless        bool    `mapstructure:"headless"`
	Bin             string  `mapstructure:"bin"`
	Timeout         int     `mapstructure:"timeout"` // 秒
	PaperWidth      float64 `mapstructure:"paper_width"`
	PaperHeight     float64 `mapstructure:"paper_height"`
	PrintBackground bool    `mapstructure:"print_background"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
// configPath为空时依次搜索 ./configs/config.yaml, ./config.yaml, ~/.docsnap/config.yaml,
// 都不存在时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".docsnap"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		utils.Debugf("使用配置文件: %s", used)
	}
	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	d := models.DefaultArchiveConfig()
	v.SetDefault("crawl.layout", string(d.Layout))
	v.SetDefault("crawl.discovery", string(d.Discovery))
	v.SetDefault("crawl.menu_selector", d.MenuSelector)
	v.SetDefault("crawl.content_selector", d.ContentSelector)
	v.SetDefault("crawl.sublink_selector", d.SubLinkSelector)
	v.SetDefault("crawl.fetch_timeout", 30)

	v.SetDefault("output.base_dir", "output")
	v.SetDefault("output.save_root", true)

	v.SetDefault("render.headless", true)
	v.SetDefault("render.bin", "")
	v.SetDefault("render.timeout", 60)
	v.SetDefault("render.paper_width", 0)
	v.SetDefault("render.paper_height", 0)
	v.SetDefault("render.print_background", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// ArchiveConfig 返回归档配置, output.save_root 合并到其中
func (c *Config) ArchiveConfig() models.ArchiveConfig {
	ac := c.Crawl
	ac.SaveRoot = c.Output.SaveRoot
	return ac
}

// RendererConfig 转换为渲染器配置
func (c *Config) RendererConfig() crawlers.RenderConfig {
	return crawlers.RenderConfig{
		Headless:        c.Render.Headless,
		Bin:             c.Render.Bin,
		Timeout:         time.Duration(c.Render.Timeout) * time.Second,
		PaperWidth:      c.Render.PaperWidth,
		PaperHeight:     c.Render.PaperHeight,
		PrintBackground: c.Render.PrintBackground,
	}
}

// LogConfig 转换为日志配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}

// CLIOverrides 命令行覆盖项,空值表示不覆盖
type CLIOverrides struct {
	Layout          string
	Discovery       string
	OutputDir       string
	MenuSelector    string
	ContentSelector string
	LogLevel        string
	Headless        *bool
	NoRoot          bool
}

// MergeCLIFlags 合并命令行参数到配置,命令行优先
func (c *Config) MergeCLIFlags(o CLIOverrides) error {
	if o.Layout != "" {
		layout, err := models.ParseLayout(o.Layout)
		if err != nil {
			return err
		}
		c.Crawl.Layout = layout
	}
	if o.Discovery != "" {
		discovery, err := models.ParseDiscovery(o.Discovery)
		if err != nil {
			return err
		}
		c.Crawl.Discovery = discovery
	}
	if o.OutputDir != "" {
		c.Output.BaseDir = o.OutputDir
	}
	if o.MenuSelector != "" {
		c.Crawl.MenuSelector = o.MenuSelector
	}
	if o.ContentSelector != "" {
		c.Crawl.ContentSelector = o.ContentSelector
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.Headless != nil {
		c.Render.Headless = *o.Headless
	}
	if o.NoRoot {
		c.Output.SaveRoot = false
	}
	return nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	ac := c.ArchiveConfig()
	if err := ac.Validate(); err != nil {
		return err
	}
	if c.Output.BaseDir == "" {
		return fmt.Errorf("输出目录不能为空")
	}
	if c.Render.Timeout < 0 {
		return fmt.Errorf("渲染超时不能为负数")
	}
	return nil
}
