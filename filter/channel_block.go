package filter

import (
	"context"

	"github.com/rushteam/feedrank/core"
)

// ChannelBlockFilter 是频道拉黑过滤器，过滤掉用户 NG 频道发布的条目。
type ChannelBlockFilter struct{}

func (f *ChannelBlockFilter) Name() string {
	return "filter.channel_block"
}

func (f *ChannelBlockFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.ChannelID == "" {
		return false, nil
	}
	_, blocked := rctx.Block().ChannelSet()[item.ChannelID]
	return blocked, nil
}
