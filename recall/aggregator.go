package recall

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/metrics"
	"github.com/rushteam/feedrank/pipeline"
)

const (
	DefaultSourceTimeout      = 4 * time.Second
	DefaultUnderfillThreshold = 30
)

// Aggregator 是一个 Recall Node：并发执行多个召回源，合并并去重。
//
// 执行分两阶段：
//   - 第一阶段并发执行 Sources；第一页时 Fallback 也并入第一阶段
//   - 后续页若第一阶段去重后的条目数少于 UnderfillThreshold，再并发执行 Fallback
//
// 单个召回源失败或超时只贡献空结果；全部失败时返回空列表，不返回错误。
type Aggregator struct {
	Sources  []Source
	Fallback []Source

	Timeout            time.Duration // 每个召回源的超时时间
	MaxConcurrent      int           // 最大并发数（0 表示无限制）
	UnderfillThreshold int

	// ValidID 为空时不校验 ID 形态
	ValidID func(id string) bool
}

func (n *Aggregator) Name() string        { return "recall.aggregator" }
func (n *Aggregator) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Aggregator) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	first := n.Sources
	if rctx.Page <= 1 {
		first = append(append([]Source(nil), n.Sources...), n.Fallback...)
	}

	out := newMerger(rctx, n.ValidID)
	out.add(n.fanout(ctx, rctx, first)...)

	threshold := n.UnderfillThreshold
	if threshold <= 0 {
		threshold = DefaultUnderfillThreshold
	}
	if rctx.Page > 1 && len(n.Fallback) > 0 {
		if out.len() < threshold {
			logging.Debug().Int("page", rctx.Page).Int("candidates", out.len()).Msg("recall underfilled, running fallback sources")
			out.add(n.fanout(ctx, rctx, n.Fallback)...)
		} else {
			for _, s := range n.Fallback {
				metrics.RecordRecall(s.Name(), metrics.OutcomeSkipped, 0)
			}
		}
	}
	return out.items, nil
}

// fanout 并发执行 sources，按 sources 顺序返回每个源的结果。
// 子随机源在派发前按顺序派生，保证固定种子下可复现。
func (n *Aggregator) fanout(ctx context.Context, rctx *core.RecommendContext, sources []Source) [][]*core.Item {
	results := make([][]*core.Item, len(sources))
	if len(sources) == 0 {
		return results
	}
	forks := make([]*core.RecommendContext, len(sources))
	for i := range sources {
		forks[i] = rctx.Fork()
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}

	eg, _ := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}
	for i, src := range sources {
		eg.Go(func() error {
			recallCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			items, err := src.Recall(recallCtx, forks[i])
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				outcome := failureOutcome(err, recallCtx.Err())
				metrics.RecordRecall(src.Name(), outcome, 0)
				logging.Warn().Err(err).Str("source", src.Name()).Str("outcome", outcome).Str("user_id", rctx.UserID).Int("page", rctx.Page).Msg("recall source failed")
				return nil
			}
			metrics.RecordRecall(src.Name(), metrics.OutcomeOK, len(items))
			results[i] = items
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func failureOutcome(err, ctxErr error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case core.IsUnavailable(err):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}

// merger 按出现顺序去重（先到先得，合并 recall_source 标签），
// 丢弃非法 ID、屏蔽隐藏与本会话已出现过的条目。
type merger struct {
	rctx   *core.RecommendContext
	valid  func(string) bool
	hidden map[string]struct{}
	index  map[string]*core.Item
	items  []*core.Item
}

func newMerger(rctx *core.RecommendContext, valid func(string) bool) *merger {
	return &merger{
		rctx:   rctx,
		valid:  valid,
		hidden: rctx.Block().HiddenSet(),
		index:  make(map[string]*core.Item),
	}
}

func (m *merger) len() int { return len(m.items) }

func (m *merger) add(groups ...[]*core.Item) {
	for _, group := range groups {
		for _, it := range group {
			if it == nil || it.ID == "" {
				continue
			}
			if m.valid != nil && !m.valid(it.ID) {
				continue
			}
			if _, ok := m.hidden[it.ID]; ok {
				continue
			}
			if m.rctx.IsSeen(it.ID) {
				continue
			}
			if old, ok := m.index[it.ID]; ok {
				if lbl, ok := it.Labels[core.LabelRecallSource]; ok {
					old.PutLabel(core.LabelRecallSource, lbl)
				}
				continue
			}
			m.index[it.ID] = it
			m.items = append(m.items, it)
		}
	}
}
