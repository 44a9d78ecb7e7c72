package core

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// BlockList 是用户偏好存储提供的只读屏蔽快照。
type BlockList struct {
	// Keywords 是 NG 关键词（子串匹配，大小写不敏感）
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
	// Channels 是 NG 频道 ID
	Channels []string `json:"channels,omitempty" yaml:"channels"`
	// HiddenIDs 是用户显式隐藏的条目 ID
	HiddenIDs []string `json:"hidden_ids,omitempty" yaml:"hidden_ids"`
	// Negative 是"不感兴趣"累积：关键词 → 次数
	Negative map[string]float64 `json:"negative,omitempty" yaml:"negative"`
}

// ChannelSet NG 频道集合。
func (b BlockList) ChannelSet() map[string]struct{} {
	return toSet(b.Channels)
}

// HiddenSet 隐藏条目集合。
func (b BlockList) HiddenSet() map[string]struct{} {
	return toSet(b.HiddenIDs)
}

func toSet(ss []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// DurationBucket 是时长偏好分桶。
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"  // < 240s
	DurationMedium DurationBucket = "medium" // 240s ~ 1200s
	DurationLong   DurationBucket = "long"   // > 1200s
)

const (
	shortMaxSeconds  = 240
	mediumMaxSeconds = 1200
)

// Contains 判断时长（秒）是否落在分桶内。
func (b DurationBucket) Contains(seconds int) bool {
	switch b {
	case DurationShort:
		return seconds < shortMaxSeconds
	case DurationMedium:
		return seconds >= shortMaxSeconds && seconds <= mediumMaxSeconds
	case DurationLong:
		return seconds > mediumMaxSeconds
	default:
		return false
	}
}

// Valid 是否为已知分桶。
func (b DurationBucket) Valid() bool {
	switch b {
	case DurationShort, DurationMedium, DurationLong:
		return true
	}
	return false
}

// FeedRequest 是一次 Feed 请求的全部画像输入（来自偏好存储的只读快照）。
type FeedRequest struct {
	UserID string `json:"user_id"`

	// WatchHistory 观看历史，最近的在前
	WatchHistory []ContentItem `json:"watch_history,omitempty"`
	// SearchHistory 搜索词历史，最近的在前
	SearchHistory []string        `json:"search_history,omitempty"`
	Subscriptions []SourceChannel `json:"subscriptions,omitempty"`

	Block BlockList `json:"block"`

	// DurationBuckets 为空表示不限时长
	DurationBuckets []DurationBucket `json:"duration_buckets,omitempty"`
	// GenreHints 是可选的偏好类目/关键词提示
	GenreHints []string `json:"genre_hints,omitempty"`
}

// Validate 校验调用方输入，只有这一类错误会返回给调用方。
func (r *FeedRequest) Validate() error {
	if r == nil {
		return NewDomainError(ModuleFeed, ErrorCodeInvalidInput, "feed: nil request")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return NewDomainError(ModuleFeed, ErrorCodeInvalidInput, "feed: user id is required")
	}
	for _, b := range r.DurationBuckets {
		if !b.Valid() {
			return NewDomainError(ModuleFeed, ErrorCodeInvalidInput, "feed: unknown duration bucket "+strconv.Quote(string(b)))
		}
	}
	return nil
}

// Fingerprint 是全部输入的稳定哈希；变化即意味着会话必须重置。
// json.Marshal 对 map 按 key 排序输出，结果稳定。
func (r *FeedRequest) Fingerprint() uint64 {
	if r == nil {
		return 0
	}
	data, err := json.Marshal(r)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
