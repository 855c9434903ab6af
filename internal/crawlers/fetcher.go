package crawlers

import (
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/RecoveryAshes/docsnap/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

// CollyFetcher 基于Colly的页面抓取器
// 每次Fetch都是一次同步GET,不重试,重定向沿用HTTP客户端默认策略
type CollyFetcher struct {
	collector      *colly.Collector
	headerProvider models.HeaderProvider
}

// NewCollyFetcher 创建抓取器
// timeout 为0时不覆盖Colly的默认请求超时
func NewCollyFetcher(timeout time.Duration, headerProvider models.HeaderProvider) *CollyFetcher {
	c := colly.NewCollector(
		// 同一URL可能作为种子页和菜单项各被抓取一次,去重由遍历器负责
		colly.AllowURLRevisit(),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
		utils.Debugf("抓取器: 请求超时设置为 %s", timeout)
	}

	return &CollyFetcher{
		collector:      c,
		headerProvider: headerProvider,
	}
}

// Fetch 抓取URL并返回原始页面内容
// 网络错误或非2xx状态码返回 *models.FetchError
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.FetchError{URL: pageURL, Cause: err}
	}

	// Clone共享HTTP后端但不共享回调,每次抓取使用独立的回调闭包
	c := f.collector.Clone()

	var (
		body       []byte
		statusCode int
		encoding   string
	)

	c.OnRequest(func(r *colly.Request) {
		if f.headerProvider == nil {
			return
		}
		headers, err := f.headerProvider.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
			return
		}
		for name, values := range headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
	})

	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
		if r.Headers != nil {
			encoding = r.Headers.Get("Content-Encoding")
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	utils.Debugf("抓取: %s", pageURL)
	if err := c.Visit(pageURL); err != nil {
		return nil, &models.FetchError{URL: pageURL, StatusCode: statusCode, Cause: err}
	}

	if statusCode < 200 || statusCode > 299 {
		return nil, &models.FetchError{
			URL:        pageURL,
			StatusCode: statusCode,
			Cause:      errors.New(http.StatusText(statusCode)),
		}
	}

	decoded, err := decompressBody(encoding, body)
	if err != nil {
		return nil, &models.FetchError{URL: pageURL, StatusCode: statusCode, Cause: err}
	}
	return decoded, nil
}

// decompressBody 根据Content-Encoding解压响应体
// gzip 已由Colly的HTTP后端解压,这里只处理 br 和 deflate
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "", "identity", "gzip":
		return body, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
