package core

import (
	"math/rand/v2"

	"github.com/rushteam/feedrank/pkg/utils"
)

// Rand 是可注入的伪随机源，*rand.Rand（math/rand/v2）直接满足。
// 测试传入固定种子，生产使用真实熵源。
type Rand interface {
	Float64() float64
	IntN(n int) int
	Perm(n int) []int
	Uint64() uint64
}

// NewRand 用固定种子创建随机源。
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropyRand 使用运行时熵源作为种子。
func NewEntropyRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RecommendContext 承载一次分页请求的用户/会话/随机源信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Page   int

	Request *FeedRequest

	// Profile 是本次请求构建的关键词画像
	Profile *UserProfile

	// Seen 是本会话已输出过的条目 ID（只读）
	Seen map[string]struct{}

	// RecentIDs 是观看历史窗口内的条目 ID，用于历史惩罚
	RecentIDs map[string]struct{}

	Rand Rand

	// Labels 是请求级标签，例如 cold_start
	Labels map[string]utils.Label

	// Params 请求级参数
	Params map[string]any
}

// Block 返回屏蔽快照，Request 为空时返回零值。
func (rctx *RecommendContext) Block() BlockList {
	if rctx == nil || rctx.Request == nil {
		return BlockList{}
	}
	return rctx.Request.Block
}

// IsSeen 是否已在本会话输出过。
func (rctx *RecommendContext) IsSeen(id string) bool {
	if rctx == nil || rctx.Seen == nil {
		return false
	}
	_, ok := rctx.Seen[id]
	return ok
}

// IsRecent 是否在近期观看历史中。
func (rctx *RecommendContext) IsRecent(id string) bool {
	if rctx == nil || rctx.RecentIDs == nil {
		return false
	}
	_, ok := rctx.RecentIDs[id]
	return ok
}

// Fork 返回浅拷贝，并派生一个独立的子随机源。
// 并发召回时每个 Source 持有自己的随机源；子种子在派发前按顺序抽取，固定种子下结果可复现。
func (rctx *RecommendContext) Fork() *RecommendContext {
	cp := *rctx
	if rctx.Rand != nil {
		cp.Rand = NewRand(rctx.Rand.Uint64())
	}
	return &cp
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
