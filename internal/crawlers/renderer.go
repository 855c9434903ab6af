package crawlers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RecoveryAshes/docsnap/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// RenderConfig PDF渲染配置
type RenderConfig struct {
	Headless        bool          // 无头模式
	Bin             string        // 浏览器可执行文件路径,为空时由launcher自动查找或下载
	Timeout         time.Duration // 单页渲染超时,0表示不限制
	PaperWidth      float64       // 纸张宽度(英寸),0表示使用浏览器默认值
	PaperHeight     float64       // 纸张高度(英寸)
	PrintBackground bool          // 打印背景色和背景图
}

var _ Renderer = (*RodRenderer)(nil)

// RodRenderer 使用headless Chrome(go-rod)把本地HTML文件打印为PDF
// 浏览器在第一次渲染时启动,之后复用,直到Close
type RodRenderer struct {
	config   RenderConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	mu       sync.Mutex
}

// NewRodRenderer 创建渲染器
func NewRodRenderer(config RenderConfig) *RodRenderer {
	return &RodRenderer{config: config}
}

// ensureBrowser 按需启动浏览器
func (r *RodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New().Headless(r.config.Headless)
	if r.config.Bin != "" {
		l = l.Bin(r.config.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	r.launcher = l
	r.browser = browser
	utils.Debugf("浏览器已启动: %s", controlURL)
	return nil
}

// RenderPDF 打开htmlPath并打印为pdfPath
func (r *RodRenderer) RenderPDF(ctx context.Context, htmlPath, pdfPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return err
	}

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("解析HTML路径失败: %w", err)
	}
	fileURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String()

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("创建标签页失败: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			utils.Debugf("关闭标签页失败: %v", err)
		}
	}()

	p := page.Context(ctx)
	if r.config.Timeout > 0 {
		p = p.Timeout(r.config.Timeout)
	}

	if err := p.Navigate(fileURL); err != nil {
		return fmt.Errorf("打开页面失败 [%s]: %w", fileURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("等待页面加载失败: %w", err)
	}

	req := &proto.PagePrintToPDF{PrintBackground: r.config.PrintBackground}
	if r.config.PaperWidth > 0 && r.config.PaperHeight > 0 {
		req.PaperWidth = gson.Num(r.config.PaperWidth)
		req.PaperHeight = gson.Num(r.config.PaperHeight)
	}

	stream, err := p.PDF(req)
	if err != nil {
		return fmt.Errorf("打印PDF失败: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return fmt.Errorf("读取PDF数据失败: %w", err)
	}

	if err := os.WriteFile(pdfPath, data, 0644); err != nil {
		return fmt.Errorf("写入PDF失败: %w", err)
	}
	return nil
}

// Close 关闭浏览器
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.launcher.Cleanup()
	r.browser = nil
	r.launcher = nil
	utils.Debugf("浏览器已关闭")
	return err
}
