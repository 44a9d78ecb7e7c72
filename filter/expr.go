package filter

import (
	"context"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述丢弃规则，表达式为 true 时过滤。
// 求值出错时条目保留。
type ExprFilter struct {
	Program *dsl.Program
}

// NewExprFilter 编译表达式，空表达式返回 nil。
func NewExprFilter(expr string) (*ExprFilter, error) {
	if expr == "" {
		return nil, nil
	}
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{Program: p}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Program == nil || item == nil {
		return false, nil
	}
	return f.Program.Eval(item, rctx)
}
