package crawlers

import (
	"fmt"
	"net/url"
	"sync"
)

// URLQueue URL队列管理器
// 职责: 维护待处理队列(FIFO)和已处理集合
//
// 入队时不去重,重复URL在出队时由调用方通过IsProcessed过滤。
type URLQueue struct {
	// 待处理URL队列,队头在索引0
	pending []string

	// 已处理URL集合
	processed map[string]bool

	// 已处理URL,按处理顺序
	order []string

	mu sync.RWMutex
}

// NewURLQueue 创建URL队列实例
func NewURLQueue() *URLQueue {
	return &URLQueue{
		pending:   make([]string, 0),
		processed: make(map[string]bool),
		order:     make([]string, 0),
	}
}

// Push 添加URL到队尾
// 只检查URL是绝对的http(s)地址,不检查是否已处理
func (q *URLQueue) Push(urlStr string) error {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("URL格式无效: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("不支持的协议: %s", parsedURL.Scheme)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, urlStr)
	return nil
}

// PushAll 批量入队,返回成功入队的数量
func (q *URLQueue) PushAll(urls []string) int {
	n := 0
	for _, u := range urls {
		if err := q.Push(u); err == nil {
			n++
		}
	}
	return n
}

// Pop 取出队头URL,队列为空时返回 ok=false
func (q *URLQueue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return "", false
	}
	head := q.pending[0]
	q.pending[0] = ""
	q.pending = q.pending[1:]
	return head, true
}

// MarkProcessed 标记URL为已处理
func (q *URLQueue) MarkProcessed(urlStr string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.processed[urlStr] {
		return
	}
	q.processed[urlStr] = true
	q.order = append(q.order, urlStr)
}

// IsProcessed 检查URL是否已处理
func (q *URLQueue) IsProcessed(urlStr string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.processed[urlStr]
}

// PendingCount 返回当前待处理URL数量(含重复)
func (q *URLQueue) PendingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}

// ProcessedCount 返回已处理URL数量
func (q *URLQueue) ProcessedCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.order)
}

// Processed 按处理顺序返回已处理URL的副本
func (q *URLQueue) Processed() []string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]string, len(q.order))
	copy(out, q.order)
	return out
}

// Reset 清空队列和已处理集合
func (q *URLQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = make([]string, 0)
	q.processed = make(map[string]bool)
	q.order = make([]string, 0)
}
