package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/metrics"
)

// HTTPConfig 是 HTTP 目录客户端配置。
type HTTPConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`

	// RatePerSecond 为 0 表示不限流
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`

	// 连续失败 BreakerFailures 次后熔断，BreakerTimeout 后半开
	BreakerFailures uint32        `yaml:"breaker_failures"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"`

	IDPattern string `yaml:"id_pattern"`
}

// HTTPClient 通过 HTTP JSON 接口访问目录服务：
//
//	GET {base}/search?q=...&page=N
//	GET {base}/items/{id}/related
//	GET {base}/channels/{id}/latest
//	GET {base}/trending
//
// 响应可以是数组，也可以是带 items/results/contents/videos 数组字段的对象。
type HTTPClient struct {
	base    *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	// 每个操作一个熔断器，单个接口故障不影响其他召回策略
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
	valid   IDValidator
}

// NewHTTPClient 创建 HTTP 目录客户端。
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	valid, err := PatternValidator(cfg.IDPattern)
	if err != nil {
		return nil, fmt.Errorf("compile id pattern: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}

	c := &HTTPClient{
		base:   base,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
		valid:  valid,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	c.breakers = make(map[string]*gobreaker.CircuitBreaker[[]byte], 4)
	for _, op := range []string{OpSearch, OpRelated, OpLatest, OpTrending} {
		c.breakers[op] = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:         "catalog." + op,
			MaxRequests:  1,
			Timeout:      breakerTimeout,
			IsSuccessful: breakerSuccessful,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("catalog circuit breaker state changed")
			},
		})
	}
	return c, nil
}

func (c *HTTPClient) Search(ctx context.Context, query string, page int) ([]core.ContentItem, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	return c.fetch(ctx, OpSearch, "/search", q)
}

func (c *HTTPClient) RelatedTo(ctx context.Context, itemID string) ([]core.ContentItem, error) {
	return c.fetch(ctx, OpRelated, "/items/"+url.PathEscape(itemID)+"/related", nil)
}

func (c *HTTPClient) LatestFromChannel(ctx context.Context, channelID string) ([]core.ContentItem, error) {
	return c.fetch(ctx, OpLatest, "/channels/"+url.PathEscape(channelID)+"/latest", nil)
}

func (c *HTTPClient) Trending(ctx context.Context) ([]core.ContentItem, error) {
	return c.fetch(ctx, OpTrending, "/trending", nil)
}

func (c *HTTPClient) fetch(ctx context.Context, op, path string, query url.Values) (items []core.ContentItem, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCatalog(op, err, start) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("catalog %s rate limit: %w", op, err)
		}
	}

	body, err := c.breakers[op].Execute(func() ([]byte, error) {
		body, err := c.get(ctx, path, query)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errAbandoned, err)
		}
		return body, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("catalog %s: %w: %w", op, core.ErrCatalogUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", op, err)
	}

	raws, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("catalog %s decode: %w", op, err)
	}
	items, dropped := NormalizeAll(raws, c.valid)
	if dropped > 0 {
		logging.Debug().Str("op", op).Int("dropped", dropped).Msg("catalog items with invalid shape dropped")
	}
	return items, nil
}

// errAbandoned 标记调用方取消或超时导致的失败，不计入熔断统计。
var errAbandoned = errors.New("request abandoned by caller")

func breakerSuccessful(err error) bool {
	return err == nil || errors.Is(err, errAbandoned)
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, truncate(string(body), 256))
	}
	return body, nil
}

var listKeys = []string{"items", "results", "contents", "videos", "data"}

func decodeList(body []byte) ([]any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case []any:
		return val, nil
	case map[string]any:
		for _, k := range listKeys {
			if arr, ok := val[k].([]any); ok {
				return arr, nil
			}
		}
		return nil, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected payload type %T", v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ core.Catalog = (*HTTPClient)(nil)
