// Package profile 把观看历史、搜索历史、订阅构建成带权关键词画像。
package profile

import (
	"math"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/keyword"
)

// Builder 画像构建器。
//
// 第 i 条（0 为最近）信号的贡献 = base * exp(-i / HalfLife)，只考虑前 Window 条。
// 搜索词代表明确意图，基础权重最高；频道名信号 = 标题权重 * ChannelAffinity；
// 订阅与类目提示是长期兴趣，权重固定不衰减。
type Builder struct {
	Extractor *keyword.Extractor

	Window   int
	HalfLife float64

	SearchWeight       float64
	TitleWeight        float64
	ChannelAffinity    float64
	SubscriptionWeight float64
	GenreHintWeight    float64
}

// NewBuilder 返回默认参数的构建器。
func NewBuilder() *Builder {
	return &Builder{
		Extractor:          keyword.NewExtractor(),
		Window:             50,
		HalfLife:           10,
		SearchWeight:       3.0,
		TitleWeight:        1.0,
		ChannelAffinity:    1.5,
		SubscriptionWeight: 2.0,
		GenreHintWeight:    1.0,
	}
}

// Build 构建画像。三类输入都为空时返回空画像（冷启动），由下游各自兜底。
func (b *Builder) Build(req *core.FeedRequest) *core.UserProfile {
	if req == nil {
		return core.NewUserProfile("")
	}
	p := core.NewUserProfile(req.UserID)

	for i, term := range b.prefixStrings(req.SearchHistory) {
		b.addText(p, term, b.SearchWeight*b.decay(i))
	}
	for i, it := range b.prefixItems(req.WatchHistory) {
		d := b.decay(i)
		b.addText(p, it.Title, b.TitleWeight*d)
		b.addText(p, it.ChannelName, b.TitleWeight*b.ChannelAffinity*d)
	}
	for _, ch := range req.Subscriptions {
		b.addText(p, ch.Name, b.SubscriptionWeight)
	}
	for _, hint := range req.GenreHints {
		b.addText(p, hint, b.GenreHintWeight)
	}

	p.ComputeMagnitude()
	return p
}

// RecentIDs 返回历史窗口内的条目 ID 集合，用于排序阶段的历史惩罚。
func (b *Builder) RecentIDs(req *core.FeedRequest) map[string]struct{} {
	out := make(map[string]struct{})
	if req == nil {
		return out
	}
	for _, it := range b.prefixItems(req.WatchHistory) {
		if it.ID != "" {
			out[it.ID] = struct{}{}
		}
	}
	return out
}

func (b *Builder) addText(p *core.UserProfile, text string, weight float64) {
	if weight <= 0 {
		return
	}
	for kw := range b.extractor().ExtractSet(text) {
		p.Add(kw, weight)
	}
}

func (b *Builder) decay(i int) float64 {
	if b.HalfLife <= 0 {
		return 1
	}
	return math.Exp(-float64(i) / b.HalfLife)
}

func (b *Builder) extractor() *keyword.Extractor {
	if b.Extractor == nil {
		return keyword.NewExtractor()
	}
	return b.Extractor
}

func (b *Builder) window() int {
	if b.Window <= 0 {
		return 50
	}
	return b.Window
}

func (b *Builder) prefixStrings(ss []string) []string {
	if n := b.window(); len(ss) > n {
		return ss[:n]
	}
	return ss
}

func (b *Builder) prefixItems(items []core.ContentItem) []core.ContentItem {
	if n := b.window(); len(items) > n {
		return items[:n]
	}
	return items
}
