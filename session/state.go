// Package session 维护一次浏览会话的分页状态：已输出的条目、页码与输出上限。
// 状态由调用方持有，不存在进程级全局状态。
package session

import (
	"github.com/google/uuid"

	"github.com/rushteam/feedrank/core"
)

const DefaultCeiling = 800

// State 是单个会话的可变状态，非并发安全，由 feed.Engine 串行驱动。
type State struct {
	ID          string
	UserID      string
	Fingerprint uint64
	Generation  uint64

	// Page 是下一次期望请求的页码，从 1 开始
	Page int

	Seen    map[string]struct{}
	Emitted int

	// Ceiling 是单个会话最多输出的条目数
	Ceiling int
	HasMore bool
}

// New 创建新会话。ceiling <= 0 时使用 DefaultCeiling。
func New(userID string, fingerprint, generation uint64, ceiling int) *State {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &State{
		ID:          uuid.NewString(),
		UserID:      userID,
		Fingerprint: fingerprint,
		Generation:  generation,
		Page:        1,
		Seen:        make(map[string]struct{}),
		Ceiling:     ceiling,
		HasMore:     true,
	}
}

// Exhausted 已达到输出上限或已确认没有更多内容。
func (s *State) Exhausted() bool {
	return s.Emitted >= s.Ceiling || !s.HasMore
}

// Remaining 距离上限还能输出多少条。
func (s *State) Remaining() int {
	return max(s.Ceiling-s.Emitted, 0)
}

// SeenSnapshot 返回已输出 ID 的拷贝，供并发阶段只读使用。
func (s *State) SeenSnapshot() map[string]struct{} {
	cp := make(map[string]struct{}, len(s.Seen))
	for id := range s.Seen {
		cp[id] = struct{}{}
	}
	return cp
}

// Commit 提交一页结果：剔除已输出过的条目（含本页内重复），按上限截断，记录 ID 并推进页码。
// 只有推进到下一页且该页为空（第一页除外）、或达到上限时 HasMore 置为 false；
// 重新请求已输出过的页不会结束会话。返回实际输出的条目。
func (s *State) Commit(page int, items []core.ContentItem) []core.ContentItem {
	out := make([]core.ContentItem, 0, len(items))
	for _, it := range items {
		if s.Emitted+len(out) >= s.Ceiling {
			break
		}
		if _, ok := s.Seen[it.ID]; ok || it.ID == "" {
			continue
		}
		s.Seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	s.Emitted += len(out)
	advancing := page >= s.Page
	if advancing {
		s.Page = page + 1
	}
	if (advancing && len(out) == 0 && page > 1) || s.Emitted >= s.Ceiling {
		s.HasMore = false
	}
	return out
}
