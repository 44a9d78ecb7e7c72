// Package feed 是个性化 Feed 的入口：按页驱动 召回 → 过滤 → 排序 → 多样性 → 混排，
// 并维护会话状态（已输出 ID、页码、输出上限）。
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rushteam/feedrank/catalog"
	"github.com/rushteam/feedrank/config"
	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/keyword"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/metrics"
	"github.com/rushteam/feedrank/pipeline"
	"github.com/rushteam/feedrank/pkg/utils"
	"github.com/rushteam/feedrank/profile"
	"github.com/rushteam/feedrank/rerank"
	"github.com/rushteam/feedrank/session"
)

// 分页结果，对应 metrics.PagesTotal 的 result label
const (
	resultServed    = "served"
	resultEmpty     = "empty"
	resultExhausted = "exhausted"
	resultStale     = "stale"
)

// Engine 持有一个会话。GetFeed 期间锁只保护会话指针的切换与提交；
// 同一会话的并发 GetFeed 由调用方串行化，过期代次的结果会被丢弃。
type Engine struct {
	catalog core.Catalog
	prefs   core.PreferenceSource

	cfg      config.Config
	builder  *profile.Builder
	pipeline *pipeline.Pipeline
	randFor  func(page int) core.Rand
	now      func() time.Time

	mu         sync.Mutex
	generation uint64
	session    *session.State
	profile    *core.UserProfile
}

type Option func(*Engine)

// WithPreferences 设置 GetFeedForUser 使用的偏好来源。
func WithPreferences(p core.PreferenceSource) Option {
	return func(e *Engine) { e.prefs = p }
}

// WithRand 设置每页使用的随机源。
func WithRand(fn func(page int) core.Rand) Option {
	return func(e *Engine) { e.randFor = fn }
}

// WithClock 设置计算新鲜度使用的时钟。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New 创建 Engine。cfg.Feed.Seed 非 0 时每页使用由种子与页码派生的固定随机源。
func New(cat core.Catalog, cfg config.Config, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, core.NewDomainError(core.ModuleFeed, core.ErrorCodeInvalidInput, "feed: catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		catalog: cat,
		cfg:     cfg,
		now:     time.Now,
	}
	if seed := cfg.Feed.Seed; seed != 0 {
		e.randFor = func(page int) core.Rand { return core.NewRand(seed + uint64(page)) }
	} else {
		e.randFor = func(int) core.Rand { return core.NewEntropyRand() }
	}
	for _, opt := range opts {
		opt(e)
	}

	validID, err := catalog.PatternValidator(cfg.Catalog.HTTP.IDPattern)
	if err != nil {
		return nil, fmt.Errorf("feed: id pattern: %w", err)
	}
	ext := keyword.NewExtractor()
	e.builder = NewProfileBuilder(cfg.Profile, ext)
	e.pipeline, err = BuildPipeline(cfg, cat, validID, ext, func() time.Time { return e.now() })
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetFeedForUser 从偏好来源加载快照后取页。
func (e *Engine) GetFeedForUser(ctx context.Context, userID string, page int) ([]core.ContentItem, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	if e.prefs == nil {
		return nil, core.NewDomainError(core.ModuleFeed, core.ErrorCodeNotSupported, "feed: no preference source configured")
	}
	req, err := e.prefs.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feed: load preferences: %w", err)
	}
	return e.GetFeed(ctx, req, page)
}

// GetFeed 返回第 page 页（从 1 开始）。
//
// 第一页、输入指纹变化或用户变化时重建会话；page 跳过下一页时返回 INVALID_INPUT。
// 所有召回源失败时返回空列表、nil error。
func (e *Engine) GetFeed(ctx context.Context, req *core.FeedRequest, page int) ([]core.ContentItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, invalid(fmt.Sprintf("page must be >= 1, got %d", page))
	}

	fingerprint := req.Fingerprint()
	prof := e.builder.Build(req)
	recent := e.builder.RecentIDs(req)

	e.mu.Lock()
	sess := e.session
	if sess == nil || page == 1 || sess.UserID != req.UserID || sess.Fingerprint != fingerprint {
		e.generation++
		sess = session.New(req.UserID, fingerprint, e.generation, e.cfg.Feed.Ceiling)
		e.session = sess
		e.profile = prof
		logging.Debug().Str("user_id", req.UserID).Str("session_id", sess.ID).Uint64("generation", sess.Generation).Int("page", page).Msg("feed session reset")
	}
	if page > sess.Page {
		next := sess.Page
		e.mu.Unlock()
		return nil, invalid(fmt.Sprintf("page %d skips ahead of the session (next page is %d)", page, next))
	}
	if sess.Exhausted() {
		e.mu.Unlock()
		metrics.PagesTotal.WithLabelValues(resultExhausted).Inc()
		logging.Info().Str("user_id", req.UserID).Int("page", page).Int("emitted", sess.Emitted).Msg("nothing to show: session exhausted")
		return []core.ContentItem{}, nil
	}
	gen := sess.Generation
	seen := sess.SeenSnapshot()
	pageSize := min(e.cfg.Feed.PageSize, sess.Remaining())
	e.mu.Unlock()

	rctx := &core.RecommendContext{
		UserID:    req.UserID,
		Page:      page,
		Request:   req,
		Profile:   prof,
		Seen:      seen,
		RecentIDs: recent,
		Rand:      e.randFor(page),
		Params:    map[string]any{rerank.ParamPageSize: pageSize},
	}
	if prof.IsEmpty() {
		rctx.PutLabel(core.LabelColdStart, utils.RecallLabel("true"))
	}

	start := time.Now()
	items, err := e.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: page %d: %w", page, err)
	}

	e.mu.Lock()
	if e.session != sess || e.generation != gen {
		e.mu.Unlock()
		metrics.PagesTotal.WithLabelValues(resultStale).Inc()
		logging.Info().Str("user_id", req.UserID).Int("page", page).Uint64("generation", gen).Msg("discarding stale feed page")
		return nil, nil
	}
	out := sess.Commit(page, core.Contents(items))
	emitted, hasMore := sess.Emitted, sess.HasMore
	e.mu.Unlock()

	metrics.ItemsEmitted.Add(float64(len(out)))
	if len(out) == 0 {
		metrics.PagesTotal.WithLabelValues(resultEmpty).Inc()
		logging.Info().Str("user_id", req.UserID).Int("page", page).Msg("nothing to show")
		return out, nil
	}
	metrics.PagesTotal.WithLabelValues(resultServed).Inc()
	_, coldStart := rctx.GetLabel(core.LabelColdStart)
	logging.Info().
		Str("user_id", req.UserID).
		Int("page", page).
		Int("items", len(out)).
		Int("emitted", emitted).
		Bool("has_more", hasMore).
		Bool("cold_start", coldStart).
		Dur("took", time.Since(start)).
		Msg("feed page served")
	return out, nil
}

// CurrentProfile 返回当前会话画像的拷贝，没有会话时返回 nil。
func (e *Engine) CurrentProfile() *core.UserProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

// Session 返回当前会话状态的快照，没有会话时返回 nil。
func (e *Engine) Session() *session.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	cp := *e.session
	cp.Seen = e.session.SeenSnapshot()
	return &cp
}

// Reset 丢弃当前会话；进行中的请求结果将被视为过期。
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.session = nil
	e.profile = nil
}

func invalid(msg string) error {
	return core.NewDomainError(core.ModuleFeed, core.ErrorCodeInvalidInput, "feed: "+msg)
}
