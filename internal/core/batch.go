package core

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/docsnap/internal/crawlers"
	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
)

// BatchCrawler 批量归档器
// 每个种子URL使用独立的Crawler(独立队列和已处理集合),输出写入 <baseDir>/<host>/
type BatchCrawler struct {
	config        models.ArchiveConfig
	baseDir       string
	fetcher       Fetcher
	renderer      crawlers.Renderer
	continueOnErr bool
}

// BatchResult 单个种子的归档结果
type BatchResult struct {
	URL     string
	Summary *models.RunSummary
	Error   error
}

// BatchSummary 批量归档摘要
type BatchSummary struct {
	TotalURLs     int
	SuccessCount  int
	FailCount     int
	PageFailures  int
	TotalDuration float64
	Results       []BatchResult
}

// NewBatchCrawler 创建批量归档器
func NewBatchCrawler(config models.ArchiveConfig, baseDir string, fetcher Fetcher, renderer crawlers.Renderer, continueOnErr bool) *BatchCrawler {
	return &BatchCrawler{
		config:        config,
		baseDir:       baseDir,
		fetcher:       fetcher,
		renderer:      renderer,
		continueOnErr: continueOnErr,
	}
}

// SeedOutputDir 种子URL对应的输出目录
func SeedOutputDir(baseDir, seedURL string) string {
	parsed, err := url.Parse(seedURL)
	if err != nil || parsed.Host == "" {
		return baseDir
	}
	host := strings.NewReplacer(":", "_").Replace(parsed.Host)
	return filepath.Join(baseDir, host)
}

// CrawlBatch 依次归档所有种子URL
// 种子级错误(如种子页抓取失败)在continueOnErr为false时中止批量任务
func (bc *BatchCrawler) CrawlBatch(ctx context.Context, seeds []string) (*BatchSummary, error) {
	utils.Infof("🚀 开始批量归档: %d个URL", len(seeds))

	summary := &BatchSummary{
		TotalURLs: len(seeds),
		Results:   make([]BatchResult, 0, len(seeds)),
	}
	startTime := time.Now()

	for i, seed := range seeds {
		if err := ctx.Err(); err != nil {
			summary.TotalDuration = time.Since(startTime).Seconds()
			return summary, err
		}
		utils.Infof("==================== [%d/%d] ====================", i+1, len(seeds))

		result := bc.crawlSeed(ctx, seed)
		summary.Results = append(summary.Results, result)
		if result.Summary != nil {
			summary.PageFailures += result.Summary.Stats.Failed
		}

		if result.Error == nil {
			summary.SuccessCount++
			continue
		}
		summary.FailCount++
		utils.Errorf("❌ 归档失败 [%s]: %v", seed, result.Error)
		if !bc.continueOnErr {
			utils.Warn("批量归档中止 (--continue-on-error=false)")
			break
		}
	}

	summary.TotalDuration = time.Since(startTime).Seconds()
	bc.printSummary(summary)
	return summary, nil
}

func (bc *BatchCrawler) crawlSeed(ctx context.Context, seed string) BatchResult {
	result := BatchResult{URL: seed}

	crawler, err := NewCrawler(bc.config, SeedOutputDir(bc.baseDir, seed), bc.fetcher, bc.renderer)
	if err != nil {
		result.Error = fmt.Errorf("创建归档器失败: %w", err)
		return result
	}

	result.Summary, result.Error = crawler.Run(ctx, seed)
	return result
}

// printSummary 打印批量归档摘要
func (bc *BatchCrawler) printSummary(summary *BatchSummary) {
	utils.Info("==================================================")
	utils.Info("📊 批量归档摘要")
	utils.Infof("总URL数: %d", summary.TotalURLs)
	utils.Infof("✅ 成功: %d", summary.SuccessCount)
	utils.Infof("❌ 失败: %d", summary.FailCount)
	utils.Infof("页面失败总数: %d", summary.PageFailures)
	utils.Infof("⏱️  总耗时: %.2f秒", summary.TotalDuration)
	utils.Info("==================================================")

	if summary.FailCount > 0 {
		utils.Warn("失败的URL:")
		for _, r := range summary.Results {
			if r.Error != nil {
				utils.Warnf("  - %s: %v", r.URL, r.Error)
			}
		}
	}
}
