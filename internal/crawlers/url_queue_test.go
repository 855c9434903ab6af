package crawlers

import (
	"reflect"
	"testing"
)

func TestURLQueue_FIFO(t *testing.T) {
	q := NewURLQueue()
	for _, u := range []string{"https://a.com/1", "https://a.com/2", "https://a.com/1"} {
		if err := q.Push(u); err != nil {
			t.Fatalf("Push(%s) error = %v", u, err)
		}
	}

	if q.PendingCount() != 3 {
		t.Fatalf("入队时不去重, PendingCount = %d, want 3", q.PendingCount())
	}

	var got []string
	for {
		u, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, u)
	}
	want := []string{"https://a.com/1", "https://a.com/2", "https://a.com/1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("出队顺序 = %v, want %v", got, want)
	}
}

func TestURLQueue_Push_Invalid(t *testing.T) {
	q := NewURLQueue()
	tests := []struct {
		name string
		url  string
	}{
		{"mailto协议", "mailto:someone@example.com"},
		{"javascript伪协议", "javascript:void(0)"},
		{"相对路径", "/docs/page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := q.Push(tt.url); err == nil {
				t.Errorf("Push(%q) 应返回错误", tt.url)
			}
		})
	}
	if q.PendingCount() != 0 {
		t.Errorf("无效URL不应入队, PendingCount = %d", q.PendingCount())
	}
}

func TestURLQueue_ProcessedSet(t *testing.T) {
	q := NewURLQueue()
	q.MarkProcessed("https://a.com/1")
	q.MarkProcessed("https://a.com/2")
	q.MarkProcessed("https://a.com/1")

	if !q.IsProcessed("https://a.com/1") {
		t.Error("https://a.com/1 应已处理")
	}
	if q.IsProcessed("https://a.com/1#frag") {
		t.Error("仅片段不同的URL视为不同URL")
	}
	if q.ProcessedCount() != 2 {
		t.Errorf("已处理集合不应有重复, ProcessedCount = %d", q.ProcessedCount())
	}
	if got := q.Processed(); !reflect.DeepEqual(got, []string{"https://a.com/1", "https://a.com/2"}) {
		t.Errorf("Processed() = %v", got)
	}

	q.Reset()
	if q.ProcessedCount() != 0 || q.PendingCount() != 0 {
		t.Error("Reset后队列和集合应为空")
	}
}

func TestURLQueue_PushAll(t *testing.T) {
	q := NewURLQueue()
	n := q.PushAll([]string{"https://a.com/1", "ftp://a.com/x", "http://a.com/2"})
	if n != 2 {
		t.Errorf("PushAll() = %d, want 2", n)
	}
}
