package recall

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pipeline"
)

const (
	DefaultDiversityCount       = 3
	DefaultDiversityPerCategory = 3
)

// DefaultCategories 是多样性注入轮换使用的固定类目表。
var DefaultCategories = []string{
	"documentary", "comedy", "science", "history", "art",
	"nature", "sports", "technology", "language learning", "diy",
	"anime", "podcast",
}

// DiversityInjection 每页从固定类目表中轮换选取若干类目，每类取少量条目，
// 把用户画像之外的内容带进 Feed。
type DiversityInjection struct {
	Catalog core.Catalog

	Categories  []string
	Count       int
	PerCategory int
}

func (r *DiversityInjection) Name() string        { return "recall.diversity_injection" }
func (r *DiversityInjection) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *DiversityInjection) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *DiversityInjection) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil {
		return nil, nil
	}
	categories := r.Pick(rctx.Rand, rctx.Page)
	if len(categories) == 0 {
		return nil, nil
	}
	per := r.PerCategory
	if per <= 0 {
		per = DefaultDiversityPerCategory
	}
	page := max(rctx.Page, 1)

	contents, err := gather(ctx, r.Name(), len(categories), func(ctx context.Context, i int) ([]core.ContentItem, error) {
		found, err := r.Catalog.Search(ctx, categories[i], page)
		return limit(found, per), err
	})
	if err != nil {
		return nil, err
	}
	return wrap(contents, r.Name(), core.LaneDiscovery), nil
}

// Pick 返回本页注入的类目：随机起点加页码偏移，在类目表上循环取 Count 个。
func (r *DiversityInjection) Pick(rnd core.Rand, page int) []string {
	categories := r.Categories
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	n := len(categories)
	count := r.Count
	if count <= 0 {
		count = DefaultDiversityCount
	}
	count = min(count, n)

	offset := 0
	if rnd != nil {
		offset = rnd.IntN(n)
	}
	start := (offset + (max(page, 1)-1)*count) % n

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, categories[(start+i)%n])
	}
	return out
}
