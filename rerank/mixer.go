package rerank

import (
	"context"
	"math"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

const (
	DefaultMixRatio = 0.65
	maxPatternTotal = 5
)

// Pattern 把目标比例换算成最小的整数配比 (discovery, general)，总数不超过 5，
// 取 |d/t - ratio| 最小者；误差相同时取总数更小的。
// 0.65 → (2, 1)。ratio ≤ 0 → (0, 1)，ratio ≥ 1 → (1, 0)。
func Pattern(ratio float64) (discovery, general int) {
	switch {
	case ratio <= 0 || math.IsNaN(ratio):
		return 0, 1
	case ratio >= 1:
		return 1, 0
	}
	bestD, bestT := 0, 1
	bestErr := math.Inf(1)
	for t := 1; t <= maxPatternTotal; t++ {
		for d := 0; d <= t; d++ {
			e := math.Abs(float64(d)/float64(t) - ratio)
			if e < bestErr-1e-12 {
				bestErr, bestD, bestT = e, d, t
			}
		}
	}
	return bestD, bestT - bestD
}

// Mix 按配比交替从两个有序列表取条目，一方耗尽后追加另一方剩余部分。
func Mix[T any](discovery, general []T, ratio float64) []T {
	d, g := Pattern(ratio)
	out := make([]T, 0, len(discovery)+len(general))
	i, j := 0, 0
	for i < len(discovery) && j < len(general) {
		for k := 0; k < d && i < len(discovery); k++ {
			out = append(out, discovery[i])
			i++
		}
		for k := 0; k < g && j < len(general); k++ {
			out = append(out, general[j])
			j++
		}
	}
	out = append(out, discovery[i:]...)
	out = append(out, general[j:]...)
	return out
}

// Mixer 是混排 ReRank：按 lane label 把排序结果拆成 discovery/general 两路，
// 各自保持原有顺序，再按 Ratio 交错合并。没有 lane label 的条目归入 general。
type Mixer struct {
	Ratio float64 // discovery 占比，0 取默认 0.65
}

func (n *Mixer) Name() string {
	return "rerank.mixer"
}

func (n *Mixer) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Mixer) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	ratio := n.Ratio
	if ratio == 0 {
		ratio = DefaultMixRatio
	}

	var discovery, general []*core.Item
	for _, it := range items {
		if it == nil {
			continue
		}
		if core.Lane(it.LabelValue(core.LabelLane)) == core.LaneDiscovery {
			discovery = append(discovery, it)
		} else {
			general = append(general, it)
		}
	}
	return Mix(discovery, general, ratio), nil
}
