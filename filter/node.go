package filter

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/metrics"
	"github.com/rushteam/feedrank/pipeline"
	"github.com/rushteam/feedrank/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 按 Filters 顺序检查，任何一个过滤器返回 true，该条目就会被过滤掉。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	dropped := make(map[string]int)

	for _, item := range items {
		if item == nil {
			continue
		}

		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程，条目保留
				logging.Debug().Err(err).Str("filter", f.Name()).Str("item_id", item.ID).Msg("filter error, keeping item")
				continue
			}
			if ok {
				reason = f.Name()
				break
			}
		}

		if reason != "" {
			dropped[reason]++
			item.PutLabel(core.LabelFiltered, utils.Label{Value: reason, Source: utils.SourceFilter})
			continue
		}
		out = append(out, item)
	}

	for name, count := range dropped {
		metrics.FilteredTotal.WithLabelValues(name).Add(float64(count))
	}
	if len(dropped) > 0 {
		ev := logging.Debug().Int("in", len(items)).Int("out", len(out))
		for name, count := range dropped {
			ev = ev.Int(name, count)
		}
		ev.Msg("filtered candidates")
	}
	return out, nil
}
