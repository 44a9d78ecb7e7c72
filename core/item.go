package core

import "github.com/rushteam/feedrank/pkg/utils"

// ContentItem 是目录（catalog）返回的内容条目的规范结构。
// 目录原始响应在适配层就被翻译成此结构，下游只依赖这一种形态。
type ContentItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ChannelID       string `json:"channel_id"`
	ChannelName     string `json:"channel_name"`
	ViewCountText   string `json:"view_count_text,omitempty"`
	PublishedAtText string `json:"published_at_text,omitempty"`
	// DurationText 可以是时钟格式（"12:34"）也可以是 ISO-8601 时长（"PT12M34S"）
	DurationText string `json:"duration_text,omitempty"`
	Description  string `json:"description,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

// Item 是推荐链路中的统一承载结构：内容、分数、分项特征、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ContentItem

	Score    float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(c ContentItem) *Item {
	return &Item{
		ContentItem: c,
		Features:    make(map[string]float64),
		Labels:      make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// LabelValue 返回 label 值，不存在时返回空串。
func (it *Item) LabelValue(key string) string {
	if it.Labels == nil {
		return ""
	}
	return it.Labels[key].Value
}

// SetFeature 记录打分分项，便于 explain。
func (it *Item) SetFeature(key string, v float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[key] = v
}

// SearchText 是用于关键词屏蔽匹配的拼接文本（标题 + 频道名 + 简介）。
func (c ContentItem) SearchText() string {
	return c.Title + " " + c.ChannelName + " " + c.Description
}

// Contents 把 Item 列表还原为 ContentItem 列表，跳过 nil。
func Contents(items []*Item) []ContentItem {
	out := make([]ContentItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.ContentItem)
	}
	return out
}

// Lane 标识候选所属的混排通道。
type Lane string

const (
	LaneDiscovery Lane = "discovery" // 兴趣搜索 / 多样性注入 / 冷启动
	LaneGeneral   Lane = "general"   // 订阅 / 相关 / 热门
)

// 常用 label key
const (
	LabelRecallSource = "recall_source"
	LabelLane         = "lane"
	LabelFiltered     = "filtered"
	LabelRankModel    = "rank_model"
	LabelColdStart    = "cold_start" // 请求级，画像为空时写入
)
