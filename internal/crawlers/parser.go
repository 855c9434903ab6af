package crawlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/docsnap/internal/models"
)

var (
	ErrMenuNotFound    = errors.New("未找到菜单容器")
	ErrTitleNotFound   = errors.New("未找到页面标题")
	ErrContentNotFound = errors.New("未找到主要内容区域")
)

// ExtractMenu 从种子页中提取菜单链接
// 菜单容器内每个带href的<a>按文档顺序解析为绝对URL(相对baseURL)。
// 容器不存在时返回空切片和ErrMenuNotFound,调用方应视为非致命。
func ExtractMenu(markup []byte, baseURL string, menuSelector string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("解析baseURL失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	container := doc.Find(menuSelector).First()
	if container.Length() == 0 {
		return []string{}, ErrMenuNotFound
	}

	return resolveLinks(container.Find("a"), base), nil
}

// PageParser 页面解析器,持有正文和子链接选择器
type PageParser struct {
	contentSelector string
	subLinkSelector string
}

// NewPageParser 创建页面解析器
// subLinkSelector 为空时不提取子链接
func NewPageParser(contentSelector, subLinkSelector string) *PageParser {
	return &PageParser{
		contentSelector: contentSelector,
		subLinkSelector: subLinkSelector,
	}
}

// Parse 解析页面
// 返回的错误:
//   - ErrTitleNotFound: 没有<title>元素,record为nil
//   - ErrContentNotFound: 有标题但没有正文容器,record中Title和RawHTML有效
func (p *PageParser) Parse(markup []byte, pageURL string) (*models.PageRecord, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("解析页面URL失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	titleSel := doc.Find("title").First()
	if titleSel.Length() == 0 {
		return nil, ErrTitleNotFound
	}

	record := &models.PageRecord{
		URL:     pageURL,
		Title:   strings.TrimSpace(titleSel.Text()),
		RawHTML: markup,
	}

	content := doc.Find(p.contentSelector).First()
	if content.Length() == 0 {
		return record, ErrContentNotFound
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("序列化正文失败: %w", err)
	}
	record.Content = fragment

	if p.subLinkSelector != "" {
		record.SubLinks = resolveLinks(content.Find(p.subLinkSelector), base)
	}

	return record, nil
}

// resolveLinks 将选中元素的href按文档顺序解析为绝对URL
// 没有href、href为空或无法解析的链接被跳过;不去重,不过滤协议
func resolveLinks(sel *goquery.Selection, base *url.URL) []string {
	links := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		links = append(links, resolved.String())
	})
	return links
}
