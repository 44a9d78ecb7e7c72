package filter

import (
	"context"
	"strings"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/keyword"
)

// KeywordBlockFilter 过滤标题/频道名/简介中包含任一 NG 关键词的条目。
// 匹配前双方都做 NFKC 宽度折叠与小写化。
type KeywordBlockFilter struct{}

func (f *KeywordBlockFilter) Name() string {
	return "filter.keyword_block"
}

func (f *KeywordBlockFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keywords := rctx.Block().Keywords
	if item == nil || len(keywords) == 0 {
		return false, nil
	}
	text := keyword.Normalize(item.SearchText())
	for _, kw := range keywords {
		kw = keyword.Normalize(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true, nil
		}
	}
	return false, nil
}
