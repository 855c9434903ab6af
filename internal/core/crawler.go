package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/RecoveryAshes/docsnap/internal/crawlers"
	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// Crawler 遍历驱动器
// 持有待处理队列和已处理集合,从种子页菜单开始按FIFO顺序处理页面
type Crawler struct {
	config    models.ArchiveConfig
	outputDir string

	fetcher   Fetcher
	archiver  *crawlers.Archiver
	processor *PageProcessor
	queue     *crawlers.URLQueue
	reporter  *utils.Reporter

	// 进度条输出,nil表示不显示
	progressOut io.Writer
}

// NewCrawler 创建遍历驱动器
func NewCrawler(config models.ArchiveConfig, outputDir string, fetcher Fetcher, renderer crawlers.Renderer) (*Crawler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("归档配置无效: %w", err)
	}
	if outputDir == "" {
		return nil, fmt.Errorf("输出目录不能为空")
	}

	archiver := crawlers.NewArchiver(outputDir, config.Layout, renderer)
	return &Crawler{
		config:    config,
		outputDir: outputDir,
		fetcher:   fetcher,
		archiver:  archiver,
		processor: NewPageProcessor(fetcher, archiver, config),
		queue:     crawlers.NewURLQueue(),
		reporter:  utils.NewReporter(outputDir),
	}, nil
}

// SetProgressOutput 设置进度条输出
func (c *Crawler) SetProgressOutput(w io.Writer) {
	c.progressOut = w
}

// Run 执行一次完整的归档
// 执行流程:
//  1. 抓取种子页,保存 html/root.html
//  2. 提取菜单链接作为初始队列
//  3. 依次出队: 已处理的URL直接丢弃,否则处理后标记为已处理(无论成功与否)
//  4. recursive模式下,页面发现的子链接追加到队尾
//  5. 队列为空时结束,写出运行报告
//
// 种子页抓取失败或context取消时返回错误,单个页面的失败只记录在汇总中
func (c *Crawler) Run(ctx context.Context, seedURL string) (*models.RunSummary, error) {
	if err := models.ValidateURL(seedURL); err != nil {
		return nil, err
	}

	c.queue.Reset()
	summary := models.NewRunSummary(seedURL, c.config, c.outputDir)

	utils.Infof("🚀 开始归档: %s", seedURL)
	utils.Infof("目录布局: %s, 发现模式: %s, 输出目录: %s", c.config.Layout, c.config.Discovery, c.outputDir)

	menu, err := c.seed(ctx, seedURL, summary)
	if err != nil {
		c.finish(summary)
		return summary, err
	}
	summary.Stats.MenuLinks = len(menu)
	c.queue.PushAll(menu)

	runErr := c.drain(ctx, summary)
	c.finish(summary)
	return summary, runErr
}

// seed 抓取种子页并返回菜单链接
func (c *Crawler) seed(ctx context.Context, seedURL string, summary *models.RunSummary) ([]string, error) {
	raw, err := c.fetcher.Fetch(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("抓取种子页失败: %w", err)
	}

	if c.config.SaveRoot {
		if path, err := c.archiver.SaveRoot(raw); err != nil {
			utils.Warnf("保存种子页失败: %v", err)
		} else {
			utils.Debugf("种子页已保存: %s", path)
		}
	}

	menu, err := crawlers.ExtractMenu(raw, seedURL, c.config.MenuSelector)
	switch {
	case errors.Is(err, crawlers.ErrMenuNotFound):
		utils.Warnf("未找到菜单容器 %s, 没有可处理的链接", c.config.MenuSelector)
	case err != nil:
		return nil, fmt.Errorf("解析种子页失败: %w", err)
	default:
		summary.MenuFound = true
		utils.Infof("菜单中发现 %d 个链接", len(menu))
	}
	return menu, nil
}

// drain 处理队列直到为空
func (c *Crawler) drain(ctx context.Context, summary *models.RunSummary) error {
	var bar *progressbar.ProgressBar
	if c.progressOut != nil && c.queue.PendingCount() > 0 {
		bar = utils.NewProgressBar(c.progressOut, c.queue.PendingCount(), "归档中")
		defer bar.Finish()
	}

	for {
		if err := ctx.Err(); err != nil {
			utils.Warnf("归档被取消, 剩余 %d 个待处理URL", c.queue.PendingCount())
			return err
		}

		pageURL, ok := c.queue.Pop()
		if !ok {
			return nil
		}
		if c.queue.IsProcessed(pageURL) {
			summary.Stats.Revisits++
			utils.Debugf("已处理过, 跳过: %s", pageURL)
			if bar != nil {
				bar.ChangeMax(bar.GetMax() - 1)
			}
			continue
		}

		utils.Infof("[%d] 处理: %s", summary.Stats.Processed+1, pageURL)
		result, links := c.processor.Process(ctx, pageURL)
		summary.Record(result)
		c.queue.MarkProcessed(pageURL)

		if c.config.Discovery == models.DiscoveryRecursive && len(links) > 0 {
			added := c.queue.PushAll(links)
			if bar != nil {
				bar.ChangeMax(bar.GetMax() + added)
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}
}

func (c *Crawler) finish(summary *models.RunSummary) {
	summary.Finish()
	if path, err := c.reporter.WriteRunReport(summary); err != nil {
		utils.Warnf("生成报告失败: %v", err)
	} else {
		utils.Infof("报告已生成: %s", path)
	}
	c.reporter.PrintSummary(summary)
}

// Processed 返回本次运行已处理的URL(按处理顺序)
func (c *Crawler) Processed() []string {
	return c.queue.Processed()
}

// OutputDir 输出目录
func (c *Crawler) OutputDir() string {
	return c.outputDir
}
