package core

import (
	"context"
	"errors"
	"time"

	"github.com/RecoveryAshes/docsnap/internal/crawlers"
	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
)

// Fetcher 下载页面原始内容
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PageProcessor 处理单个页面: 抓取 → 解析 → 发现子链接 → 归档
type PageProcessor struct {
	fetcher   Fetcher
	parser    *crawlers.PageParser
	archiver  *crawlers.Archiver
	discovery models.Discovery
}

// NewPageProcessor 创建页面处理器
func NewPageProcessor(fetcher Fetcher, archiver *crawlers.Archiver, config models.ArchiveConfig) *PageProcessor {
	subLinkSelector := config.SubLinkSelector
	if config.Discovery == models.DiscoveryMenuOnly {
		subLinkSelector = ""
	}
	return &PageProcessor{
		fetcher:   fetcher,
		parser:    crawlers.NewPageParser(config.ContentSelector, subLinkSelector),
		archiver:  archiver,
		discovery: config.Discovery,
	}
}

// Process 处理pageURL,返回处理结果和需要入队的子链接
// 子链接在归档之前确定,归档失败不影响已发现的链接
func (p *PageProcessor) Process(ctx context.Context, pageURL string) (models.PageResult, []string) {
	start := time.Now()
	result, links := p.process(ctx, pageURL)
	result.Duration = time.Since(start)
	return result, links
}

func (p *PageProcessor) process(ctx context.Context, pageURL string) (models.PageResult, []string) {
	raw, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		utils.Errorf("抓取失败 [%s]: %v", pageURL, err)
		return models.Failed(pageURL, models.ReasonFetchFailed, err), nil
	}

	record, err := p.parser.Parse(raw, pageURL)
	switch {
	case errors.Is(err, crawlers.ErrTitleNotFound):
		utils.Warnf("页面缺少title,跳过 [%s]", pageURL)
		return models.Skipped(pageURL, models.ReasonTitleNotFound, err), nil

	case errors.Is(err, crawlers.ErrContentNotFound):
		utils.Warnf("未找到正文容器,仅保存HTML [%s]", pageURL)
		result := models.Skipped(pageURL, models.ReasonContentNotFound, err)
		result.Title = record.Title
		htmlPath, saveErr := p.archiver.SaveHTML(pageURL, record.Title, record.RawHTML)
		if saveErr != nil {
			utils.Errorf("保存HTML失败 [%s]: %v", pageURL, saveErr)
			failed := models.Failed(pageURL, models.ReasonArchiveFailed, saveErr)
			failed.Title = record.Title
			return failed, nil
		}
		result.Paths.HTMLPath = htmlPath
		return result, nil

	case err != nil:
		utils.Errorf("解析失败 [%s]: %v", pageURL, err)
		return models.Failed(pageURL, models.ReasonParseFailed, err), nil
	}

	var links []string
	if p.discovery == models.DiscoveryRecursive {
		links = record.SubLinks
		if len(links) > 0 {
			utils.Debugf("发现 %d 个子链接 [%s]", len(links), pageURL)
		}
	}

	paths, err := p.archiver.Archive(ctx, record)
	if err != nil {
		reason := models.ReasonArchiveFailed
		if errors.Is(err, crawlers.ErrRenderFailed) {
			reason = models.ReasonRenderFailed
		}
		utils.Errorf("归档失败 [%s]: %v", pageURL, err)
		result := models.Failed(pageURL, reason, err)
		result.Title = record.Title
		result.Paths = paths
		result.Discovered = len(links)
		return result, links
	}

	return models.Succeeded(pageURL, record.Title, paths, len(links)), links
}
