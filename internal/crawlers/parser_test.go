package crawlers

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/RecoveryAshes/docsnap/internal/models"
)

const menuPage = `<!DOCTYPE html><html><head><title>首页</title></head><body>
<nav><a href="/outside">菜单外链接</a></nav>
<ul id="common-menu-container">
  <li><a href="product-overview/billing">计费</a></li>
  <li><a>无链接</a></li>
  <li><a href="">空链接</a></li>
  <li><ul><li><a href="/zh/cs/user-guide/create#step">创建</a></li></ul></li>
  <li><a href="https://other.example.com/page?x=1">外部</a></li>
</ul>
</body></html>`

func TestExtractMenu(t *testing.T) {
	links, err := ExtractMenu([]byte(menuPage), "https://help.example.com/zh/cs/", models.DefaultMenuSelector)
	if err != nil {
		t.Fatalf("ExtractMenu() error = %v", err)
	}

	want := []string{
		"https://help.example.com/zh/cs/product-overview/billing",
		"https://help.example.com/zh/cs/user-guide/create#step",
		"https://other.example.com/page?x=1",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("ExtractMenu() = %v, want %v", links, want)
	}
}

func TestExtractMenu_ResolvesAgainstPageURL(t *testing.T) {
	markup := `<html><body><ul id="common-menu-container"><li><a href="a">A</a></li><li><a href="../b">B</a></li></ul></body></html>`

	links, err := ExtractMenu([]byte(markup), "https://site.example.com/docs/v2/index.html", models.DefaultMenuSelector)
	if err != nil {
		t.Fatalf("ExtractMenu() error = %v", err)
	}
	want := []string{"https://site.example.com/docs/v2/a", "https://site.example.com/docs/b"}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("应相对页面URL解析而不是站点根, got %v, want %v", links, want)
	}
}

func TestExtractMenu_NotFound(t *testing.T) {
	links, err := ExtractMenu([]byte(`<html><body><ul><li><a href="/a">A</a></li></ul></body></html>`), "https://example.com/", models.DefaultMenuSelector)
	if !errors.Is(err, ErrMenuNotFound) {
		t.Fatalf("期望ErrMenuNotFound, 得到 %v", err)
	}
	if links == nil || len(links) != 0 {
		t.Errorf("未找到菜单时应返回空切片, got %v", links)
	}
}

func TestPageParser_Parse(t *testing.T) {
	markup := `<html><head><title>  产品计费 | 文档  </title></head><body>
<div id="sidebar"><ul><li><a href="/zh/ignored">侧栏</a></li></ul></div>
<div id="pc-markdown-container">
  <p>正文 <a href="/zh/not-in-list">段落链接</a></p>
  <ul><li><a href="sub/page-c">C</a></li><li><a href="#anchor">锚点</a></li></ul>
  <ol><li><a href="/zh/ordered">有序列表</a></li></ol>
</div></body></html>`

	p := NewPageParser(models.DefaultContentSelector, models.DefaultSubLinkSelector)
	record, err := p.Parse([]byte(markup), "https://help.example.com/zh/cs/page-a")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if record.Title != "产品计费 | 文档" {
		t.Errorf("Title = %q", record.Title)
	}
	if !strings.HasPrefix(record.Content, `<div id="pc-markdown-container">`) {
		t.Errorf("Content应为正文容器外层HTML, got %q", record.Content)
	}
	if strings.Contains(record.Content, "侧栏") {
		t.Error("Content不应包含正文容器以外的内容")
	}

	wantLinks := []string{
		"https://help.example.com/zh/cs/sub/page-c",
		"https://help.example.com/zh/cs/page-a#anchor",
	}
	if !reflect.DeepEqual(record.SubLinks, wantLinks) {
		t.Errorf("SubLinks = %v, want %v", record.SubLinks, wantLinks)
	}
	if string(record.RawHTML) != markup {
		t.Error("RawHTML应为原始页面")
	}
}

func TestPageParser_Parse_MissingMarkers(t *testing.T) {
	p := NewPageParser(models.DefaultContentSelector, models.DefaultSubLinkSelector)

	t.Run("缺少title", func(t *testing.T) {
		record, err := p.Parse([]byte(`<html><body><div id="pc-markdown-container">x</div></body></html>`), "https://example.com/a")
		if !errors.Is(err, ErrTitleNotFound) {
			t.Fatalf("期望ErrTitleNotFound, 得到 %v", err)
		}
		if record != nil {
			t.Error("缺少title时record应为nil")
		}
	})

	t.Run("缺少正文容器", func(t *testing.T) {
		record, err := p.Parse([]byte(`<html><head><title>T</title></head><body><ul><li><a href="/x">x</a></li></ul></body></html>`), "https://example.com/a")
		if !errors.Is(err, ErrContentNotFound) {
			t.Fatalf("期望ErrContentNotFound, 得到 %v", err)
		}
		if record == nil || record.Title != "T" {
			t.Fatalf("缺少正文时仍应返回标题, got %+v", record)
		}
		if len(record.SubLinks) != 0 || record.Content != "" {
			t.Error("缺少正文时不应发现子链接")
		}
	})

	t.Run("未配置子链接选择器", func(t *testing.T) {
		menuOnly := NewPageParser(models.DefaultContentSelector, "")
		record, err := menuOnly.Parse([]byte(`<html><head><title>T</title></head><body><div id="pc-markdown-container"><ul><li><a href="/x">x</a></li></ul></div></body></html>`), "https://example.com/a")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(record.SubLinks) != 0 {
			t.Errorf("SubLinks = %v, want none", record.SubLinks)
		}
	})
}
