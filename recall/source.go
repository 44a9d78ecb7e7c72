package recall

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/pkg/utils"
)

// Source 表示一个召回策略（兴趣搜索/相关/订阅/热门/多样性注入）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// wrap 把目录结果包装成 Item 并打上召回来源与混排通道标签。
func wrap(contents []core.ContentItem, source string, lane core.Lane) []*core.Item {
	out := make([]*core.Item, 0, len(contents))
	for _, c := range contents {
		it := core.NewItem(c)
		it.PutLabel(core.LabelRecallSource, utils.RecallLabel(source))
		it.PutLabel(core.LabelLane, utils.RecallLabel(string(lane)))
		out = append(out, it)
	}
	return out
}

func limit(contents []core.ContentItem, n int) []core.ContentItem {
	if n > 0 && len(contents) > n {
		return contents[:n]
	}
	return contents
}

// gather 并发执行 n 个目录调用，按下标顺序拼接结果。
// 单个调用失败只记日志；全部失败时返回最后一个错误，交由聚合层计为该召回源失败。
func gather(ctx context.Context, source string, n int, call func(ctx context.Context, i int) ([]core.ContentItem, error)) ([]core.ContentItem, error) {
	if n <= 0 {
		return nil, nil
	}
	var (
		results = make([][]core.ContentItem, n)
		errs    = make([]error, n)
		eg, _   = errgroup.WithContext(ctx)
	)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			results[i], errs[i] = call(ctx, i)
			return nil
		})
	}
	_ = eg.Wait()

	var (
		out     []core.ContentItem
		lastErr error
		failed  int
	)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			failed++
			lastErr = errs[i]
			logging.Debug().Err(errs[i]).Str("source", source).Int("call", i).Msg("recall sub-call failed")
			continue
		}
		out = append(out, results[i]...)
	}
	if failed == n {
		return nil, fmt.Errorf("%s: all %d calls failed: %w", source, n, lastErr)
	}
	return out, nil
}
