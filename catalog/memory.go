package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/rushteam/feedrank/core"
)

// 操作名，用于错误注入与调用计数
const (
	OpSearch   = "search"
	OpRelated  = "related"
	OpLatest   = "latest"
	OpTrending = "trending"
)

// Memory 是内存实现的 Catalog，用于测试/开发/原型。
// Search 对 " | " 分隔的每个词在标题/简介中做子串匹配（OR 语义）。
type Memory struct {
	mu sync.RWMutex

	items    []core.ContentItem
	related  map[string][]core.ContentItem
	trending []core.ContentItem
	errs     map[string]error
	calls    map[string]int

	// PageSize 是 Search 每页条数，默认 20
	PageSize int
}

func NewMemory(items ...core.ContentItem) *Memory {
	return &Memory{
		items:   items,
		related: make(map[string][]core.ContentItem),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// Add 追加可检索条目。
func (m *Memory) Add(items ...core.ContentItem) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, items...)
	return m
}

// SetRelated 设置某条目的相关列表。
func (m *Memory) SetRelated(itemID string, items ...core.ContentItem) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.related[itemID] = items
	return m
}

// SetTrending 设置热门列表。
func (m *Memory) SetTrending(items ...core.ContentItem) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trending = items
	return m
}

// FailOn 让指定操作返回 err；err 为 nil 时恢复。
func (m *Memory) FailOn(op string, err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, op)
	} else {
		m.errs[op] = err
	}
	return m
}

// Calls 返回某操作被调用的次数。
func (m *Memory) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

func (m *Memory) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls[op]++
	err := m.errs[op]
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (m *Memory) Search(ctx context.Context, query string, page int) ([]core.ContentItem, error) {
	if err := m.enter(ctx, OpSearch); err != nil {
		return nil, err
	}
	terms := splitQuery(query)
	if len(terms) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var hits []core.ContentItem
	for _, it := range m.items {
		text := strings.ToLower(it.Title + " " + it.Description)
		for _, term := range terms {
			if strings.Contains(text, term) {
				hits = append(hits, it)
				break
			}
		}
	}
	return paginate(hits, page, m.pageSize()), nil
}

func (m *Memory) RelatedTo(ctx context.Context, itemID string) ([]core.ContentItem, error) {
	if err := m.enter(ctx, OpRelated); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.ContentItem(nil), m.related[itemID]...), nil
}

func (m *Memory) LatestFromChannel(ctx context.Context, channelID string) ([]core.ContentItem, error) {
	if err := m.enter(ctx, OpLatest); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.ContentItem
	for _, it := range m.items {
		if it.ChannelID == channelID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *Memory) Trending(ctx context.Context) ([]core.ContentItem, error) {
	if err := m.enter(ctx, OpTrending); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.ContentItem(nil), m.trending...), nil
}

func (m *Memory) pageSize() int {
	if m.PageSize <= 0 {
		return 20
	}
	return m.PageSize
}

func splitQuery(query string) []string {
	var terms []string
	for _, t := range strings.Split(query, "|") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func paginate(items []core.ContentItem, page, size int) []core.ContentItem {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]core.ContentItem(nil), items[start:end]...)
}

var _ core.Catalog = (*Memory)(nil)
