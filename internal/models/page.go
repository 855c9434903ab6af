package models

import (
	"errors"
	"fmt"
	"time"
)

// PageRecord 单个页面在处理期间的数据,不落盘
type PageRecord struct {
	URL      string   // 页面URL
	Title    string   // <title> 文本(已去除首尾空白)
	RawHTML  []byte   // 抓取到的原始页面
	Content  string   // 正文容器的外层HTML片段
	SubLinks []string // 正文中发现的子链接(已转为绝对URL,按文档顺序)
}

// OutputPaths 页面的归档路径
type OutputPaths struct {
	HTMLPath string `json:"html_path"`
	PDFPath  string `json:"pdf_path"`
}

// Outcome 页面处理结果类别
type Outcome string

const (
	OutcomeSuccess Outcome = "success" // HTML与PDF均已生成
	OutcomeSkipped Outcome = "skipped" // 结构标记缺失,按降级策略处理
	OutcomeFailed  Outcome = "failed"  // 抓取或归档失败
)

// 结果原因
const (
	ReasonFetchFailed     = "fetch_failed"
	ReasonParseFailed     = "parse_failed"
	ReasonTitleNotFound   = "title_not_found"
	ReasonContentNotFound = "content_not_found"
	ReasonArchiveFailed   = "archive_failed"
	ReasonRenderFailed    = "render_failed"
)

// PageResult 单个页面的处理结果
type PageResult struct {
	URL        string        `json:"url"`
	Title      string        `json:"title,omitempty"`
	Outcome    Outcome       `json:"outcome"`
	Reason     string        `json:"reason,omitempty"`
	Err        error         `json:"-"`
	ErrorMsg   string        `json:"error,omitempty"`
	Paths      OutputPaths   `json:"paths"`
	Discovered int           `json:"discovered"` // 本页入队的子链接数
	Duration   time.Duration `json:"duration"`
}

// Succeeded 构造成功结果
func Succeeded(url, title string, paths OutputPaths, discovered int) PageResult {
	return PageResult{URL: url, Title: title, Outcome: OutcomeSuccess, Paths: paths, Discovered: discovered}
}

// Skipped 构造跳过结果
func Skipped(url, reason string, err error) PageResult {
	return withErr(PageResult{URL: url, Outcome: OutcomeSkipped, Reason: reason}, err)
}

// Failed 构造失败结果
func Failed(url, reason string, err error) PageResult {
	return withErr(PageResult{URL: url, Outcome: OutcomeFailed, Reason: reason}, err)
}

func withErr(r PageResult, err error) PageResult {
	if err != nil {
		r.Err = err
		r.ErrorMsg = err.Error()
	}
	return r
}

// FetchError 抓取失败(网络错误或非2xx状态码)
type FetchError struct {
	URL        string
	StatusCode int // 0 表示未收到响应
	Cause      error
}

// Error 实现error接口
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("抓取失败 [%s]: HTTP %d: %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("抓取失败 [%s]: %v", e.URL, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsFetchError 判断错误链中是否包含FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
