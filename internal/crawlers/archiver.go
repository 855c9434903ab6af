package crawlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
	"golang.org/x/net/html"
)

// ErrRenderFailed 渲染器返回错误时包装在归档错误中
var ErrRenderFailed = errors.New("渲染PDF失败")

// RootHTMLName 种子页原始HTML的文件名
const RootHTMLName = "root.html"

// Renderer 把本地HTML文件渲染为PDF
type Renderer interface {
	RenderPDF(ctx context.Context, htmlPath, pdfPath string) error
}

// Archiver 页面归档器
// 目录结构:
//
//	output/
//	├── html/[<子目录>/]<标题>.html   原始页面
//	└── pdf/[<子目录>/]<标题>.pdf     正文渲染结果
type Archiver struct {
	outputDir string
	layout    models.Layout
	renderer  Renderer
}

// NewArchiver 创建归档器
func NewArchiver(outputDir string, layout models.Layout, renderer Renderer) *Archiver {
	return &Archiver{
		outputDir: outputDir,
		layout:    layout,
		renderer:  renderer,
	}
}

var titleReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "*", "_", "?", "_", ":", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeTitle 把标题中的 \ / * ? : " < > | 替换为 _
func SanitizeTitle(title string) string {
	return titleReplacer.Replace(title)
}

// fileBase 由标题得到文件名(不含扩展名)
func fileBase(title string) string {
	name := SanitizeTitle(strings.TrimSpace(title))
	if name == "" || name == "." || name == ".." {
		return "untitled"
	}
	return name
}

// SubDir 由URL路径段得到层级子目录: 去掉第一段和最后一段
// 例如 https://help.example.com/zh/cs/product-overview/billing -> cs/product-overview
func SubDir(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	segments := make([]string, 0)
	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segments = append(segments, SanitizeTitle(seg))
	}
	if len(segments) < 3 {
		return ""
	}
	return filepath.Join(segments[1 : len(segments)-1]...)
}

// Paths 计算页面的归档路径
func (a *Archiver) Paths(pageURL, title string) models.OutputPaths {
	sub := ""
	if a.layout == models.LayoutHierarchical {
		sub = SubDir(pageURL)
	}
	name := fileBase(title)
	return models.OutputPaths{
		HTMLPath: filepath.Join(a.outputDir, "html", sub, name+".html"),
		PDFPath:  filepath.Join(a.outputDir, "pdf", sub, name+".pdf"),
	}
}

// SaveHTML 原样写出抓取到的页面
func (a *Archiver) SaveHTML(pageURL, title string, raw []byte) (string, error) {
	path := a.Paths(pageURL, title).HTMLPath
	if err := writeFile(path, raw); err != nil {
		return "", err
	}
	utils.Infof("已保存: %s", path)
	return path, nil
}

// SaveRoot 写出种子页 output/html/root.html
func (a *Archiver) SaveRoot(raw []byte) (string, error) {
	path := filepath.Join(a.outputDir, "html", RootHTMLName)
	if err := writeFile(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// Archive 写出原始HTML,并把正文片段渲染为PDF
// 返回的路径中只填写实际生成的文件;渲染失败时错误包装ErrRenderFailed
func (a *Archiver) Archive(ctx context.Context, record *models.PageRecord) (models.OutputPaths, error) {
	var written models.OutputPaths

	htmlPath, err := a.SaveHTML(record.URL, record.Title, record.RawHTML)
	if err != nil {
		return written, err
	}
	written.HTMLPath = htmlPath

	pdfPath := a.Paths(record.URL, record.Title).PDFPath
	if err := os.MkdirAll(filepath.Dir(pdfPath), 0755); err != nil {
		return written, fmt.Errorf("创建目录失败 [%s]: %w", filepath.Dir(pdfPath), err)
	}
	if err := a.renderContent(ctx, record.Title, record.Content, pdfPath); err != nil {
		return written, err
	}
	written.PDFPath = pdfPath

	utils.Infof("已保存: %s", pdfPath)
	return written, nil
}

// renderContent 把正文包装为独立HTML写入临时文件,调用渲染器,然后删除临时文件
// 无论渲染是否成功,临时文件都会被删除
func (a *Archiver) renderContent(ctx context.Context, title, content, pdfPath string) error {
	if err := os.MkdirAll(a.outputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	scratch, err := os.CreateTemp(a.outputDir, "scratch-*.html")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	scratchPath := scratch.Name()
	defer func() {
		if err := os.Remove(scratchPath); err != nil && !os.IsNotExist(err) {
			utils.Warnf("删除临时文件失败 [%s]: %v", scratchPath, err)
		}
	}()

	_, writeErr := scratch.WriteString(BuildEnvelope(title, content))
	closeErr := scratch.Close()
	if writeErr != nil {
		return fmt.Errorf("写入临时文件失败: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("写入临时文件失败: %w", closeErr)
	}

	if err := a.renderer.RenderPDF(ctx, scratchPath, pdfPath); err != nil {
		return fmt.Errorf("%w [%s]: %w", ErrRenderFailed, pdfPath, err)
	}
	return nil
}

// BuildEnvelope 生成只包含正文片段的最小HTML文档
func BuildEnvelope(title, fragment string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="zh"><head><meta charset="UTF-8"/><title>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</title></head><body>`)
	b.WriteString(fragment)
	b.WriteString(`</body></html>`)
	return b.String()
}

// writeFile 创建父目录并写入文件
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败 [%s]: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入文件失败 [%s]: %w", path, err)
	}
	return nil
}
