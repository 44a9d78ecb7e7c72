package filter

import (
	"context"

	"github.com/rushteam/feedrank/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}

// Defaults 返回标准过滤链：关键词屏蔽、频道屏蔽、时长偏好、不感兴趣。
func Defaults() []Filter {
	return []Filter{
		&KeywordBlockFilter{},
		&ChannelBlockFilter{},
		&DurationFilter{},
		&NegativeSignalFilter{},
	}
}
