package recall

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

const DefaultRelatedLimit = 20

// RelatedWalk 是基于最近一次观看的相关召回源。
type RelatedWalk struct {
	Catalog core.Catalog

	// Limit 返回条目上限，默认 20
	Limit int
}

func (r *RelatedWalk) Name() string        { return "recall.related_walk" }
func (r *RelatedWalk) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *RelatedWalk) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *RelatedWalk) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.Request == nil || len(rctx.Request.WatchHistory) == 0 {
		return nil, nil
	}
	seed := rctx.Request.WatchHistory[0].ID
	if seed == "" {
		return nil, nil
	}

	contents, err := r.Catalog.RelatedTo(ctx, seed)
	if err != nil {
		return nil, err
	}
	n := r.Limit
	if n <= 0 {
		n = DefaultRelatedLimit
	}
	return wrap(limit(contents, n), r.Name(), core.LaneGeneral), nil
}
