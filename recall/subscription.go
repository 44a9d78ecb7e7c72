package recall

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

const (
	DefaultSubscriptionPick  = 3
	DefaultSubscriptionLimit = 8
)

// SubscriptionPull 随机抽取若干订阅频道，拉取其最新上传。
type SubscriptionPull struct {
	Catalog core.Catalog

	// Pick 每页抽取的订阅数，默认 3
	Pick int
	// PerChannel 每个频道最多取多少条，默认 8
	PerChannel int
}

func (r *SubscriptionPull) Name() string        { return "recall.subscription_pull" }
func (r *SubscriptionPull) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *SubscriptionPull) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *SubscriptionPull) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.Request == nil {
		return nil, nil
	}
	channels := r.pick(rctx)
	if len(channels) == 0 {
		return nil, nil
	}
	per := r.PerChannel
	if per <= 0 {
		per = DefaultSubscriptionLimit
	}

	contents, err := gather(ctx, r.Name(), len(channels), func(ctx context.Context, i int) ([]core.ContentItem, error) {
		latest, err := r.Catalog.LatestFromChannel(ctx, channels[i].ID)
		return limit(latest, per), err
	})
	if err != nil {
		return nil, err
	}
	return wrap(contents, r.Name(), core.LaneGeneral), nil
}

func (r *SubscriptionPull) pick(rctx *core.RecommendContext) []core.SourceChannel {
	subs := make([]core.SourceChannel, 0, len(rctx.Request.Subscriptions))
	for _, s := range rctx.Request.Subscriptions {
		if s.ID != "" {
			subs = append(subs, s)
		}
	}
	n := r.Pick
	if n <= 0 {
		n = DefaultSubscriptionPick
	}
	if len(subs) <= n || rctx.Rand == nil {
		return limitChannels(subs, n)
	}
	out := make([]core.SourceChannel, 0, n)
	for _, idx := range rctx.Rand.Perm(len(subs))[:n] {
		out = append(out, subs[idx])
	}
	return out
}

func limitChannels(subs []core.SourceChannel, n int) []core.SourceChannel {
	if len(subs) > n {
		return subs[:n]
	}
	return subs
}
