package filter

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/keyword"
)

const DefaultNegativeThreshold = 3.0

// NegativeSignalFilter 是"不感兴趣"软过滤：
// 条目关键词（标题 + 频道名）在负反馈表中的累计次数超过阈值时过滤。
type NegativeSignalFilter struct {
	Extractor *keyword.Extractor

	// Threshold 严格大于该值才过滤，默认 3
	Threshold float64
}

func (f *NegativeSignalFilter) Name() string {
	return "filter.negative_signal"
}

func (f *NegativeSignalFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	negative := rctx.Block().Negative
	if item == nil || len(negative) == 0 {
		return false, nil
	}
	return f.Score(negative, item) > f.threshold(), nil
}

// Score 返回条目关键词的负反馈累计值。
func (f *NegativeSignalFilter) Score(negative map[string]float64, item *core.Item) float64 {
	ext := f.Extractor
	if ext == nil {
		ext = keyword.NewExtractor()
	}
	counts := make(map[string]float64, len(negative))
	for k, v := range negative {
		counts[keyword.Normalize(k)] += v
	}
	var sum float64
	for kw := range ext.ExtractSet(item.Title + " " + item.ChannelName) {
		sum += counts[kw]
	}
	return sum
}

func (f *NegativeSignalFilter) threshold() float64 {
	if f.Threshold > 0 {
		return f.Threshold
	}
	return DefaultNegativeThreshold
}
