package rerank

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在混排后截取一页的条目数。
// N 可由请求参数 page_size 覆盖。
type TopNNode struct {
	// N 要保留的条目数量；N <= 0 不截断
	N int
}

// ParamPageSize 是 rctx.Params 中覆盖 N 的 key。
const ParamPageSize = "page_size"

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil {
		if v, ok := rctx.Params[ParamPageSize].(int); ok && v > 0 {
			limit = v
		}
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
