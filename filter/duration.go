package filter

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pkg/textparse"
)

// DurationFilter 按时长偏好分桶过滤。
// 未选择任何分桶，或时长未知（解析为 0）时保留条目。
type DurationFilter struct{}

func (f *DurationFilter) Name() string {
	return "filter.duration"
}

func (f *DurationFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.Request == nil || len(rctx.Request.DurationBuckets) == 0 {
		return false, nil
	}
	seconds := textparse.DurationSeconds(item.DurationText)
	if seconds <= 0 {
		return false, nil
	}
	for _, b := range rctx.Request.DurationBuckets {
		if b.Contains(seconds) {
			return false, nil
		}
	}
	return true, nil
}
