// Package preference 把用户偏好快照（屏蔽列表、历史、订阅、时长偏好）持久化到 core.KeyValueStore。
// 每个用户一个 Hash，每个字段一份 JSON。
package preference

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
)

const DefaultKeyPrefix = "feed:pref"

// Hash 字段名
const (
	FieldNGKeywords       = "ng_keywords"
	FieldNGChannels       = "ng_channels"
	FieldHiddenIDs        = "hidden_ids"
	FieldNegativeKeywords = "negative_keywords"
	FieldDurationBuckets  = "duration_buckets"
	FieldGenres           = "genres"
	FieldSubscriptions    = "subscriptions"
	FieldWatchHistory     = "watch_history"
	FieldSearchHistory    = "search_history"
)

// StoreSource 是基于 KeyValueStore 的 core.PreferenceSource。
// 实际 key 为 {KeyPrefix}:{UserID}。
type StoreSource struct {
	Store     core.KeyValueStore
	KeyPrefix string
}

func NewStoreSource(store core.KeyValueStore) *StoreSource {
	return &StoreSource{Store: store, KeyPrefix: DefaultKeyPrefix}
}

func (s *StoreSource) key(userID string) string {
	prefix := s.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + userID
}

// Load 读取用户偏好快照。用户不存在时返回只带 UserID 的空请求（冷启动）。
// 单个字段 JSON 损坏时该字段取零值并记录告警，不影响其他字段。
func (s *StoreSource) Load(ctx context.Context, userID string) (*core.FeedRequest, error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModulePreference, core.ErrorCodeInvalidInput, "preference: user id is required")
	}
	fields, err := s.Store.HGetAll(ctx, s.key(userID))
	if err != nil {
		return nil, fmt.Errorf("preference: load %s from %s: %w", userID, s.Store.Name(), err)
	}

	key := s.key(userID)
	req := &core.FeedRequest{UserID: userID}
	decode(key, fields, FieldNGKeywords, &req.Block.Keywords)
	decode(key, fields, FieldNGChannels, &req.Block.Channels)
	decode(key, fields, FieldHiddenIDs, &req.Block.HiddenIDs)
	decode(key, fields, FieldNegativeKeywords, &req.Block.Negative)
	decode(key, fields, FieldDurationBuckets, &req.DurationBuckets)
	decode(key, fields, FieldGenres, &req.GenreHints)
	decode(key, fields, FieldSubscriptions, &req.Subscriptions)
	decode(key, fields, FieldWatchHistory, &req.WatchHistory)
	decode(key, fields, FieldSearchHistory, &req.SearchHistory)
	return req, nil
}

// Save 写入完整的偏好快照，覆盖同名字段。
func (s *StoreSource) Save(ctx context.Context, req *core.FeedRequest) error {
	if req == nil || req.UserID == "" {
		return core.NewDomainError(core.ModulePreference, core.ErrorCodeInvalidInput, "preference: user id is required")
	}
	fields := map[string]any{
		FieldNGKeywords:       req.Block.Keywords,
		FieldNGChannels:       req.Block.Channels,
		FieldHiddenIDs:        req.Block.HiddenIDs,
		FieldNegativeKeywords: req.Block.Negative,
		FieldDurationBuckets:  req.DurationBuckets,
		FieldGenres:           req.GenreHints,
		FieldSubscriptions:    req.Subscriptions,
		FieldWatchHistory:     req.WatchHistory,
		FieldSearchHistory:    req.SearchHistory,
	}
	key := s.key(req.UserID)
	for field, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("preference: encode %s: %w", field, err)
		}
		if err := s.Store.HSet(ctx, key, field, data); err != nil {
			return fmt.Errorf("preference: save %s.%s: %w", key, field, err)
		}
	}
	return nil
}

// AddNegative 记录一次"不感兴趣"，对每个关键词计数加一。
func (s *StoreSource) AddNegative(ctx context.Context, userID string, keywords ...string) error {
	req, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	if req.Block.Negative == nil {
		req.Block.Negative = make(map[string]float64)
	}
	for _, kw := range keywords {
		if kw != "" {
			req.Block.Negative[kw]++
		}
	}
	data, err := json.Marshal(req.Block.Negative)
	if err != nil {
		return err
	}
	return s.Store.HSet(ctx, s.key(userID), FieldNegativeKeywords, data)
}

func decode(key string, fields map[string][]byte, field string, out any) {
	data, ok := fields[field]
	if !ok || len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.Warn().Err(err).Str("key", key).Str("field", field).Msg("corrupt preference field ignored")
	}
}

var _ core.PreferenceSource = (*StoreSource)(nil)
