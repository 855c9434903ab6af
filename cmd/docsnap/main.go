package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RecoveryAshes/docsnap/internal/config"
	"github.com/RecoveryAshes/docsnap/internal/core"
	"github.com/RecoveryAshes/docsnap/internal/crawlers"
	"github.com/RecoveryAshes/docsnap/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// errPageFailures --fail-on-error 时有页面失败
var errPageFailures = errors.New("存在处理失败的页面")

// 命令行参数
var (
	// 全局参数
	configFile  string
	logLevel    string
	headerFile  string
	headers     []string
	initHeaders bool

	// 归档参数
	urlFile         string
	layout          string
	discovery       string
	outputDir       string
	menuSelector    string
	contentSelector string
	headless        bool
	noRoot          bool
	noProgress      bool
	failOnError     bool
	continueOnError bool

	appConfig *core.Config
)

var rootCmd = &cobra.Command{
	Use:   "docsnap <seed-url>",
	Short: "文档站点归档工具",
	Long: `docsnap - 文档站点归档工具

从种子页的导航菜单开始抓取文档站点,跟随正文列表中的子链接,
把每个页面保存为原始HTML,并把正文区域渲染为PDF:
  • 菜单容器: #common-menu-container
  • 正文容器: #pc-markdown-container
  • 输出: output/html/..., output/pdf/..., output/reports/run_<id>.json

示例:
  docsnap https://help.example.com/zh/cs/
  docsnap https://help.example.com/zh/cs/ --layout flat --discovery menu-only
  docsnap --url-file urls.txt -H "Cookie: session=..."

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		overrides := core.CLIOverrides{
			Layout:          layout,
			Discovery:       discovery,
			OutputDir:       outputDir,
			MenuSelector:    menuSelector,
			ContentSelector: contentSelector,
			LogLevel:        logLevel,
			NoRoot:          noRoot,
		}
		if cmd.Flags().Changed("headless") {
			overrides.Headless = &headless
		}
		if err := cfg.MergeCLIFlags(overrides); err != nil {
			return err
		}

		if err := utils.InitLogger(cfg.LogConfig()); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		appConfig = cfg
		return nil
	},
	RunE: runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	seed, err := ValidateArgs(args, urlFile)
	if err != nil {
		return err
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}

	// Ctrl+C 取消context,当前页面处理完后停止并写出报告
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	headerManager, err := core.NewHeaderManager(headerFile, headers)
	if err != nil {
		return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}
	if _, err := headerManager.GetHeaders(); err != nil {
		return err
	}

	archiveConfig := appConfig.ArchiveConfig()
	fetcher := crawlers.NewCollyFetcher(time.Duration(archiveConfig.FetchTimeout)*time.Second, headerManager)
	renderer := crawlers.NewRodRenderer(appConfig.RendererConfig())
	defer func() {
		if err := renderer.Close(); err != nil {
			utils.Warnf("关闭浏览器失败: %v", err)
		}
	}()

	if urlFile != "" {
		seeds, err := utils.ReadURLsFromFile(urlFile)
		if err != nil {
			return err
		}
		batch := core.NewBatchCrawler(archiveConfig, appConfig.Output.BaseDir, fetcher, renderer, continueOnError)
		summary, err := batch.CrawlBatch(ctx, seeds)
		if err != nil {
			return err
		}
		if failOnError && (summary.FailCount > 0 || summary.PageFailures > 0) {
			return errPageFailures
		}
		return nil
	}

	crawler, err := core.NewCrawler(archiveConfig, appConfig.Output.BaseDir, fetcher, renderer)
	if err != nil {
		return err
	}
	if !noProgress {
		crawler.SetProgressOutput(os.Stderr)
	}

	summary, err := crawler.Run(ctx, seed)
	if err != nil {
		return err
	}
	if failOnError && summary.HasFailures() {
		return errPageFailures
	}
	utils.Info("✨ 归档完成!")
	return nil
}

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "验证并显示HTTP请求头部配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		if initHeaders {
			loader := config.NewHeaderConfigLoader(headerFile)
			created, err := loader.WriteTemplate()
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("已生成头部配置模板: %s\n", loader.Path())
			} else {
				fmt.Printf("配置文件已存在: %s\n", loader.Path())
			}
			return nil
		}

		hm, err := core.NewHeaderManager(headerFile, headers)
		if err != nil {
			return err
		}
		merged, err := hm.GetHeaders()
		if err != nil {
			return fmt.Errorf("配置验证失败: %w", err)
		}
		fmt.Printf("✅ 配置验证通过, 当前有效的HTTP头部 (%d个):\n", len(merged))
		for _, line := range strings.Split(utils.RedactHeaders(merged), "; ") {
			fmt.Printf("  %s\n", line)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docsnap %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (默认搜索 ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&headerFile, "headers-file", "", "HTTP头部配置文件 (默认 "+config.DefaultHeaderFile+")")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", nil, "自定义HTTP头部,格式: 'Name: Value',可多次指定")

	// 归档参数
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "包含种子URL列表的文件,每个种子输出到 <output>/<host>/")
	rootCmd.Flags().StringVar(&layout, "layout", "", "目录布局 (flat|hierarchical)")
	rootCmd.Flags().StringVar(&discovery, "discovery", "", "链接发现模式 (menu-only|recursive)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "输出目录 (默认 output)")
	rootCmd.Flags().StringVar(&menuSelector, "menu-selector", "", "菜单容器CSS选择器")
	rootCmd.Flags().StringVar(&contentSelector, "content-selector", "", "正文容器CSS选择器")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.Flags().BoolVar(&noRoot, "no-root", false, "不保存种子页 html/root.html")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "不显示进度条")
	rootCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "有页面失败时以非0状态退出")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "批量模式下种子失败后继续处理")

	headersCmd.Flags().BoolVar(&initHeaders, "init", false, "生成头部配置模板")

	rootCmd.AddCommand(headersCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		if errors.Is(err, errPageFailures) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
