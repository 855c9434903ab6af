package crawlers

import "testing"

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	r := NewRodRenderer(RenderConfig{Headless: true})
	if err := r.Close(); err != nil {
		t.Errorf("未启动浏览器时Close() error = %v", err)
	}
	// 重复关闭
	if err := r.Close(); err != nil {
		t.Errorf("重复Close() error = %v", err)
	}
}
