package feed

import (
	"fmt"
	"time"

	"github.com/rushteam/feedrank/config"
	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/filter"
	"github.com/rushteam/feedrank/keyword"
	"github.com/rushteam/feedrank/pipeline"
	"github.com/rushteam/feedrank/profile"
	"github.com/rushteam/feedrank/rank"
	"github.com/rushteam/feedrank/recall"
	"github.com/rushteam/feedrank/rerank"
)

// NewProfileBuilder 按配置创建画像构建器。
func NewProfileBuilder(cfg config.ProfileConfig, ext *keyword.Extractor) *profile.Builder {
	b := profile.NewBuilder()
	b.Extractor = ext
	if cfg.Window > 0 {
		b.Window = cfg.Window
	}
	if cfg.HalfLife > 0 {
		b.HalfLife = cfg.HalfLife
	}
	if cfg.SearchWeight > 0 {
		b.SearchWeight = cfg.SearchWeight
	}
	if cfg.TitleWeight > 0 {
		b.TitleWeight = cfg.TitleWeight
	}
	if cfg.ChannelAffinity > 0 {
		b.ChannelAffinity = cfg.ChannelAffinity
	}
	if cfg.SubscriptionWeight > 0 {
		b.SubscriptionWeight = cfg.SubscriptionWeight
	}
	if cfg.GenreHintWeight > 0 {
		b.GenreHintWeight = cfg.GenreHintWeight
	}
	return b
}

// BuildPipeline 按固定顺序组装 Feed 链路：
//
//	recall.aggregator → filter.node → rank.composite → rerank.channel_cap → rerank.mixer → rerank.topn
func BuildPipeline(cfg config.Config, cat core.Catalog, validID func(string) bool, ext *keyword.Extractor, now func() time.Time) (*pipeline.Pipeline, error) {
	rc := cfg.Recall
	agg := &recall.Aggregator{
		Sources: []recall.Source{
			&recall.InterestSearch{
				Catalog:          cat,
				TopK:             rc.InterestTopK,
				ChunkSize:        rc.InterestChunkSize,
				ColdStartQueries: rc.ColdStartQueries,
			},
			&recall.RelatedWalk{Catalog: cat, Limit: rc.RelatedLimit},
			&recall.SubscriptionPull{Catalog: cat, Pick: rc.SubscriptionPick, PerChannel: rc.SubscriptionLimit},
			&recall.DiversityInjection{
				Catalog:     cat,
				Categories:  rc.DiversityCategories,
				Count:       rc.DiversityCount,
				PerCategory: rc.DiversityPerCategory,
			},
		},
		Fallback:           []recall.Source{&recall.Trending{Catalog: cat}},
		Timeout:            rc.SourceTimeout,
		MaxConcurrent:      rc.MaxConcurrent,
		UnderfillThreshold: rc.UnderfillThreshold,
		ValidID:            validID,
	}

	filters := []filter.Filter{
		&filter.KeywordBlockFilter{},
		&filter.ChannelBlockFilter{},
		&filter.DurationFilter{},
		&filter.NegativeSignalFilter{Extractor: ext, Threshold: cfg.Filter.NegativeThreshold},
	}
	expr, err := filter.NewExprFilter(cfg.Filter.DropExpr)
	if err != nil {
		return nil, fmt.Errorf("filter.drop_expr: %w", err)
	}
	if expr != nil {
		filters = append(filters, expr)
	}

	return &pipeline.Pipeline{Nodes: []pipeline.Node{
		agg,
		&filter.FilterNode{Filters: filters},
		&rank.CompositeNode{Weights: cfg.Rank, Extractor: ext, Now: now},
		&rerank.ChannelCap{Max: cfg.Rerank.ChannelCap},
		&rerank.Mixer{Ratio: cfg.Rerank.MixRatio},
		&rerank.TopNNode{N: cfg.Feed.PageSize},
	}}, nil
}
