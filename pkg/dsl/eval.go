package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/feedrank/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，使用 CEL (Common Expression Language) 语法。
// 编译一次，可在多个 goroutine 中反复求值。
//
// 可用变量：
//   - item: id / title / channel_id / channel_name / description / score / features
//   - label: 以 label key 直接取值，例如 label.recall_source
//   - rctx: user_id / page / params / labels（请求级 label，例如 cold_start）
//
// 示例：
//   - `item.channel_name == "Spam TV"`
//   - `label.recall_source.contains("trending") && item.title.contains("live")`
//   - `"lane" in label && label.lane == "discovery"`
//   - `"cold_start" in rctx.labels && label.recall_source == "recall.trending"`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；语法或类型错误立即返回。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

func (p *Program) String() string { return p.expr }

// Eval 对单个条目求值。
// 对不存在的 key 直接取值会报错，请用 `"key" in label` 先判断存在性。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{}
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
		features := make(map[string]any, len(item.Features))
		for k, v := range item.Features {
			features[k] = v
		}
		itemMap = map[string]any{
			"id":           item.ID,
			"title":        item.Title,
			"channel_id":   item.ChannelID,
			"channel_name": item.ChannelName,
			"description":  item.Description,
			"score":        item.Score,
			"features":     features,
		}
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		params := make(map[string]any, len(rctx.Params))
		for k, v := range rctx.Params {
			params[k] = v
		}
		reqLabels := make(map[string]any, len(rctx.Labels))
		for k, v := range rctx.Labels {
			reqLabels[k] = v.Value
		}
		rctxMap = map[string]any{
			"user_id": rctx.UserID,
			"page":    rctx.Page,
			"params":  params,
			"labels":  reqLabels,
		}
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}
