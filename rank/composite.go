package rank

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/keyword"
	"github.com/rushteam/feedrank/pipeline"
	"github.com/rushteam/feedrank/pkg/textparse"
	"github.com/rushteam/feedrank/pkg/utils"
)

// 特征 key，写入 Item.Features 便于 explain
const (
	FeatureRelevance      = "relevance"
	FeaturePopularity     = "popularity"
	FeatureFreshness      = "freshness"
	FeatureHistoryPenalty = "history_penalty"
)

// Weights 是综合分的各项权重与调节参数。
type Weights struct {
	Relevance  float64 `yaml:"relevance"`
	Popularity float64 `yaml:"popularity"`
	Freshness  float64 `yaml:"freshness"`

	// HistoryPenalty 近期看过的条目分数乘以该系数
	HistoryPenalty float64 `yaml:"history_penalty"`
	// Jitter 最终分数乘以 (1 + U(-Jitter, +Jitter))
	Jitter float64 `yaml:"jitter"`

	// FreshWindow 内的条目拿满 FreshMax 分
	FreshWindow time.Duration `yaml:"fresh_window"`
	FreshMax    float64       `yaml:"fresh_max"`
}

func DefaultWeights() Weights {
	return Weights{
		Relevance:      2.5,
		Popularity:     0.5,
		Freshness:      1.0,
		HistoryPenalty: 0.1,
		Jitter:         0.2,
		FreshWindow:    72 * time.Hour,
		FreshMax:       5,
	}
}

// CompositeNode 是综合打分排序 Node：
//
//	score = (relevance*w1 + popularity*w2 + freshness*w3) * historyPenalty * (1 + U(-j, +j))
//
// - relevance: 条目关键词（标题 + 频道名）在画像中的权重之和
// - popularity: log10(播放量 + 1)
// - freshness: 新鲜窗口内满分，之后按对数衰减，发布时间未知为 0
//
// 写入 labels：rank_model；随机扰动使用 rctx.Rand，为空时不扰动。
type CompositeNode struct {
	Weights   Weights
	Extractor *keyword.Extractor

	// Now 为空时使用 time.Now
	Now func() time.Time
}

func (n *CompositeNode) Name() string        { return "rank.composite" }
func (n *CompositeNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *CompositeNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	w := n.weights()
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	var (
		profile *core.UserProfile
		rnd     core.Rand
	)
	if rctx != nil {
		profile = rctx.Profile
		rnd = rctx.Rand
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		rel := n.Relevance(profile, it)
		pop := Popularity(it.ViewCountText)
		fresh := Freshness(it.PublishedAtText, now, w.FreshWindow, w.FreshMax)
		penalty := 1.0
		if rctx.IsRecent(it.ID) {
			penalty = w.HistoryPenalty
		}

		score := (rel*w.Relevance + pop*w.Popularity + fresh*w.Freshness) * penalty
		if rnd != nil && w.Jitter > 0 {
			score *= 1 + (rnd.Float64()*2-1)*w.Jitter
		}

		it.SetFeature(FeatureRelevance, rel)
		it.SetFeature(FeaturePopularity, pop)
		it.SetFeature(FeatureFreshness, fresh)
		it.SetFeature(FeatureHistoryPenalty, penalty)
		it.Score = score
		it.PutLabel(core.LabelRankModel, utils.Label{Value: "composite", Source: utils.SourceRank})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

// Relevance 条目关键词在画像中的权重之和。
func (n *CompositeNode) Relevance(profile *core.UserProfile, it *core.Item) float64 {
	if profile.IsEmpty() || it == nil {
		return 0
	}
	ext := n.Extractor
	if ext == nil {
		ext = keyword.NewExtractor()
	}
	var sum float64
	for kw := range ext.ExtractSet(it.Title + " " + it.ChannelName) {
		sum += profile.Weight(kw)
	}
	return sum
}

// Popularity log10(播放量 + 1)，播放量无法解析时为 0。
func Popularity(viewCountText string) float64 {
	views := textparse.ViewCount(viewCountText)
	if views <= 0 {
		return 0
	}
	return math.Log10(float64(views) + 1)
}

// Freshness 发布时间在 window 内得 max，之后为 max*(1 - log10(age/window))，下限 0。
// 发布时间未知得 0。
func Freshness(publishedText string, now time.Time, window time.Duration, maxScore float64) float64 {
	age, ok := textparse.Age(publishedText, now)
	if !ok || window <= 0 {
		return 0
	}
	if age <= window {
		return maxScore
	}
	return math.Max(0, maxScore*(1-math.Log10(float64(age)/float64(window))))
}

func (n *CompositeNode) weights() Weights {
	w := n.Weights
	d := DefaultWeights()
	if w == (Weights{}) {
		return d
	}
	if w.HistoryPenalty <= 0 {
		w.HistoryPenalty = d.HistoryPenalty
	}
	if w.FreshWindow <= 0 {
		w.FreshWindow = d.FreshWindow
	}
	if w.FreshMax <= 0 {
		w.FreshMax = d.FreshMax
	}
	return w
}
