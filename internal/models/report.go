package models

import (
	"encoding/json"
	"time"
)

// RunStats 运行统计
type RunStats struct {
	MenuLinks   int     `json:"menu_links"`   // 菜单链接数
	Processed   int     `json:"processed"`    // 已处理URL数
	Revisits    int     `json:"revisits"`     // 出队时因已处理而丢弃的次数
	Succeeded   int     `json:"succeeded"`    // 成功(HTML+PDF)
	Skipped     int     `json:"skipped"`      // 降级跳过
	Failed      int     `json:"failed"`       // 失败
	HTMLFiles   int     `json:"html_files"`   // 写出的HTML文件数
	PDFFiles    int     `json:"pdf_files"`    // 写出的PDF文件数
	Discovered  int     `json:"discovered"`   // 入队的子链接总数(含重复)
	Duration    float64 `json:"duration"`     // 总耗时(秒)
}

// RunSummary 单次爬取的汇总结果
type RunSummary struct {
	RunID     string        `json:"run_id"`
	SeedURL   string        `json:"seed_url"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Config    ArchiveConfig `json:"config"`
	OutputDir string        `json:"output_dir"`
	MenuFound bool          `json:"menu_found"`
	Stats     RunStats      `json:"stats"`
	Pages     []PageResult  `json:"pages"` // 按处理顺序
}

// NewRunSummary 创建运行汇总
func NewRunSummary(seedURL string, config ArchiveConfig, outputDir string) *RunSummary {
	return &RunSummary{
		RunID:     generateID(),
		SeedURL:   seedURL,
		StartTime: time.Now(),
		Config:    config,
		OutputDir: outputDir,
		Pages:     make([]PageResult, 0),
	}
}

// Record 记录一个页面结果并更新统计
func (s *RunSummary) Record(r PageResult) {
	s.Pages = append(s.Pages, r)
	s.Stats.Processed++
	s.Stats.Discovered += r.Discovered
	switch r.Outcome {
	case OutcomeSuccess:
		s.Stats.Succeeded++
	case OutcomeSkipped:
		s.Stats.Skipped++
	case OutcomeFailed:
		s.Stats.Failed++
	}
	if r.Paths.HTMLPath != "" {
		s.Stats.HTMLFiles++
	}
	if r.Paths.PDFPath != "" {
		s.Stats.PDFFiles++
	}
}

// Finish 记录结束时间
func (s *RunSummary) Finish() {
	s.EndTime = time.Now()
	s.Stats.Duration = s.EndTime.Sub(s.StartTime).Seconds()
}

// HasFailures 是否存在失败页面
func (s *RunSummary) HasFailures() bool {
	return s.Stats.Failed > 0
}

// ProcessedURLs 按处理顺序返回URL
func (s *RunSummary) ProcessedURLs() []string {
	urls := make([]string, 0, len(s.Pages))
	for _, p := range s.Pages {
		urls = append(urls, p.URL)
	}
	return urls
}

// ToJSON 序列化为JSON
func (s *RunSummary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON 从JSON反序列化
func (s *RunSummary) FromJSON(data []byte) error {
	return json.Unmarshal(data, s)
}
