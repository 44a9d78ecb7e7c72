package recall

import (
	"context"
	"strings"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

const (
	DefaultInterestTopK      = 12
	DefaultInterestChunkSize = 4
	DefaultQuerySeparator    = " | "
)

// DefaultColdStartQueries 是画像为空时使用的通用查询。
var DefaultColdStartQueries = []string{"music", "news", "gaming", "cooking", "travel", "science"}

// InterestSearch 是兴趣搜索召回源：取画像 TopK 关键词，每 ChunkSize 个拼成一个 OR 查询。
// 画像为空（冷启动）时改用 ColdStartQueries。
type InterestSearch struct {
	Catalog core.Catalog

	TopK      int
	ChunkSize int
	Separator string

	ColdStartQueries []string
}

func (r *InterestSearch) Name() string        { return "recall.interest_search" }
func (r *InterestSearch) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *InterestSearch) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *InterestSearch) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil {
		return nil, nil
	}
	page := max(rctx.Page, 1)

	source := r.Name()
	queries := r.Queries(rctx.Profile)
	if rctx.Profile.IsEmpty() {
		source = "recall.cold_start"
	}
	if len(queries) == 0 {
		return nil, nil
	}

	contents, err := gather(ctx, source, len(queries), func(ctx context.Context, i int) ([]core.ContentItem, error) {
		return r.Catalog.Search(ctx, queries[i], page)
	})
	if err != nil {
		return nil, err
	}
	return wrap(contents, source, core.LaneDiscovery), nil
}

// Queries 返回本次要发出的查询串。
func (r *InterestSearch) Queries(profile *core.UserProfile) []string {
	if profile.IsEmpty() {
		if len(r.ColdStartQueries) > 0 {
			return r.ColdStartQueries
		}
		return DefaultColdStartQueries
	}

	topK := r.TopK
	if topK <= 0 {
		topK = DefaultInterestTopK
	}
	chunk := r.ChunkSize
	if chunk <= 0 {
		chunk = DefaultInterestChunkSize
	}
	sep := r.Separator
	if sep == "" {
		sep = DefaultQuerySeparator
	}

	keywords := profile.TopKeywords(topK)
	queries := make([]string, 0, (len(keywords)+chunk-1)/chunk)
	for start := 0; start < len(keywords); start += chunk {
		end := min(start+chunk, len(keywords))
		queries = append(queries, strings.Join(keywords[start:end], sep))
	}
	return queries
}
