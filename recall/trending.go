package recall

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

// Trending 是热门召回源。
// 第一页总是参与；后续页由 Aggregator 在其他召回源欠量时作为兜底调用。
type Trending struct {
	Catalog core.Catalog

	// Limit 为 0 表示不截断
	Limit int
}

func (r *Trending) Name() string        { return "recall.trending" }
func (r *Trending) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Trending) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Trending) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	contents, err := r.Catalog.Trending(ctx)
	if err != nil {
		return nil, err
	}
	return wrap(limit(contents, r.Limit), r.Name(), core.LaneGeneral), nil
}
