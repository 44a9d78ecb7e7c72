package rerank

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

const DefaultChannelCap = 4

// ChannelCap 是按频道限流的多样性 ReRank：按输入顺序遍历，每个频道最多保留 Max 条。
// 输入应已按分数降序，因此保留下来的是每个频道得分最高的条目。
// 频道 ID 为空的条目不受限制。
type ChannelCap struct {
	Max int // 默认 4
}

func (n *ChannelCap) Name() string {
	return "rerank.channel_cap"
}

func (n *ChannelCap) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *ChannelCap) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	limit := n.Max
	if limit <= 0 {
		limit = DefaultChannelCap
	}

	counts := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.ChannelID == "" {
			out = append(out, it)
			continue
		}
		if counts[it.ChannelID] >= limit {
			continue
		}
		counts[it.ChannelID]++
		out = append(out, it)
	}
	return out, nil
}
