package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 运行报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器,报告写入 <outputDir>/reports
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// ReportPath 运行报告路径 reports/run_<id>.json
func (r *Reporter) ReportPath(runID string) string {
	return filepath.Join(r.outputDir, "reports", fmt.Sprintf("run_%s.json", runID))
}

// WriteRunReport 写出运行汇总JSON,返回文件路径
func (r *Reporter) WriteRunReport(summary *models.RunSummary) (string, error) {
	path := r.ReportPath(summary.RunID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	data, err := summary.ToJSON()
	if err != nil {
		return "", fmt.Errorf("序列化JSON失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return path, nil
}

// PrintSummary 把运行汇总输出到日志
func (r *Reporter) PrintSummary(summary *models.RunSummary) {
	s := summary.Stats
	Info("==================================================")
	Infof("📊 归档完成: %s", summary.SeedURL)
	Infof("菜单链接: %d (菜单容器存在: %v)", s.MenuLinks, summary.MenuFound)
	Infof("已处理: %d, 重复跳过: %d, 子链接入队: %d", s.Processed, s.Revisits, s.Discovered)
	Infof("✅ 成功: %d  ⚠️ 跳过: %d  ❌ 失败: %d", s.Succeeded, s.Skipped, s.Failed)
	Infof("HTML文件: %d, PDF文件: %d", s.HTMLFiles, s.PDFFiles)
	Infof("⏱️  总耗时: %.2f秒", s.Duration)
	Info("==================================================")

	if s.Failed > 0 {
		Warn("失败的页面:")
		for _, p := range summary.Pages {
			if p.Outcome == models.OutcomeFailed {
				Warnf("  - %s [%s]: %s", p.URL, p.Reason, p.ErrorMsg)
			}
		}
	}
}

// NewProgressBar 创建进度条,max为-1时显示为不确定进度
func NewProgressBar(w io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
