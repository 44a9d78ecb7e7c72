// Package config 定义 feedrank 的 YAML 配置：日志、目录、偏好存储与 Feed 链路各阶段参数。
//
// 使用方式：
//
//	cfg, err := config.Load("feedrank.yaml")
//	if err != nil { ... }
//	logging.Init(cfg.Log)
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/feedrank/catalog"
	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/rank"
	"github.com/rushteam/feedrank/store"
)

// 页大小约束
const (
	DefaultPageSize = 60
	MaxPageSize     = 150
)

type Config struct {
	Log         logging.Config    `yaml:"log"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Feed        FeedConfig        `yaml:"feed"`
	Profile     ProfileConfig     `yaml:"profile"`
	Recall      RecallConfig      `yaml:"recall"`
	Filter      FilterConfig      `yaml:"filter"`
	Rank        rank.Weights      `yaml:"rank"`
	Rerank      RerankConfig      `yaml:"rerank"`
}

type CatalogConfig struct {
	HTTP catalog.HTTPConfig `yaml:"http"`

	// CacheSize 为 0 关闭缓存
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type PreferencesConfig struct {
	// Backend: memory 或 redis
	Backend   string            `yaml:"backend"`
	KeyPrefix string            `yaml:"key_prefix"`
	Redis     store.RedisConfig `yaml:"redis"`
}

type FeedConfig struct {
	PageSize int `yaml:"page_size"`
	// Ceiling 单个会话最多输出的条目数
	Ceiling int `yaml:"ceiling"`
	// Seed 非 0 时使用固定随机种子（测试/复现用）
	Seed uint64 `yaml:"seed"`
}

type ProfileConfig struct {
	Window             int     `yaml:"window"`
	HalfLife           float64 `yaml:"half_life"`
	SearchWeight       float64 `yaml:"search_weight"`
	TitleWeight        float64 `yaml:"title_weight"`
	ChannelAffinity    float64 `yaml:"channel_affinity"`
	SubscriptionWeight float64 `yaml:"subscription_weight"`
	GenreHintWeight    float64 `yaml:"genre_hint_weight"`
}

type RecallConfig struct {
	SourceTimeout      time.Duration `yaml:"source_timeout"`
	MaxConcurrent      int           `yaml:"max_concurrent"`
	UnderfillThreshold int           `yaml:"underfill_threshold"`

	InterestTopK      int      `yaml:"interest_top_k"`
	InterestChunkSize int      `yaml:"interest_chunk_size"`
	ColdStartQueries  []string `yaml:"cold_start_queries"`

	RelatedLimit int `yaml:"related_limit"`

	SubscriptionPick  int `yaml:"subscription_pick"`
	SubscriptionLimit int `yaml:"subscription_limit"`

	DiversityCategories  []string `yaml:"diversity_categories"`
	DiversityCount       int      `yaml:"diversity_count"`
	DiversityPerCategory int      `yaml:"diversity_per_category"`
}

type FilterConfig struct {
	NegativeThreshold float64 `yaml:"negative_threshold"`
	// DropExpr 是可选的 CEL 丢弃表达式，为 true 时过滤
	DropExpr string `yaml:"drop_expr"`
}

type RerankConfig struct {
	ChannelCap int     `yaml:"channel_cap"`
	MixRatio   float64 `yaml:"mix_ratio"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Log: logging.DefaultConfig(),
		Catalog: CatalogConfig{
			HTTP: catalog.HTTPConfig{
				Timeout:         5 * time.Second,
				BreakerFailures: 5,
				BreakerTimeout:  30 * time.Second,
				IDPattern:       catalog.DefaultIDPattern,
			},
			CacheSize: 1024,
			CacheTTL:  2 * time.Minute,
		},
		Preferences: PreferencesConfig{
			Backend:   "memory",
			KeyPrefix: "feed:pref",
			Redis:     store.RedisConfig{Addr: "127.0.0.1:6379", Timeout: 3 * time.Second},
		},
		Feed: FeedConfig{
			PageSize: DefaultPageSize,
			Ceiling:  800,
		},
		Profile: ProfileConfig{
			Window:             50,
			HalfLife:           10,
			SearchWeight:       3.0,
			TitleWeight:        1.0,
			ChannelAffinity:    1.5,
			SubscriptionWeight: 2.0,
			GenreHintWeight:    1.0,
		},
		Recall: RecallConfig{
			SourceTimeout:        4 * time.Second,
			UnderfillThreshold:   30,
			InterestTopK:         12,
			InterestChunkSize:    4,
			RelatedLimit:         20,
			SubscriptionPick:     3,
			SubscriptionLimit:    8,
			DiversityCount:       3,
			DiversityPerCategory: 3,
		},
		Filter: FilterConfig{
			NegativeThreshold: 3,
		},
		Rank: rank.DefaultWeights(),
		Rerank: RerankConfig{
			ChannelCap: 4,
			MixRatio:   0.65,
		},
	}
}

// Load 读取 YAML 文件，未出现的字段保留默认值，然后校验。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 内容，未出现的字段保留默认值，然后校验。
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验取值范围。
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "config: "+fmt.Sprintf(format, args...))
	}
	if c.Feed.PageSize < 1 || c.Feed.PageSize > MaxPageSize {
		return invalid("feed.page_size must be in [1, %d], got %d", MaxPageSize, c.Feed.PageSize)
	}
	if c.Feed.Ceiling < 1 {
		return invalid("feed.ceiling must be positive, got %d", c.Feed.Ceiling)
	}
	// 0 在 rerank 节点里表示取默认值，配置中显式写 0 视为错误
	if c.Rerank.MixRatio <= 0 || c.Rerank.MixRatio > 1 {
		return invalid("rerank.mix_ratio must be in (0, 1], got %v", c.Rerank.MixRatio)
	}
	if c.Rerank.ChannelCap < 1 {
		return invalid("rerank.channel_cap must be positive, got %d", c.Rerank.ChannelCap)
	}
	if c.Rank.Jitter < 0 || c.Rank.Jitter >= 1 {
		return invalid("rank.jitter must be in [0, 1), got %v", c.Rank.Jitter)
	}
	if c.Profile.HalfLife < 0 || c.Profile.Window < 0 {
		return invalid("profile.half_life and profile.window must not be negative")
	}
	if c.Recall.SourceTimeout < 0 {
		return invalid("recall.source_timeout must not be negative")
	}
	switch c.Preferences.Backend {
	case "", "memory":
	case "redis":
		if c.Preferences.Redis.Addr == "" {
			return invalid("preferences.redis.addr is required for the redis backend")
		}
	default:
		return invalid("unknown preferences.backend %q", c.Preferences.Backend)
	}
	if p := c.Catalog.HTTP.IDPattern; p != "" {
		if _, err := regexp.Compile(p); err != nil {
			return invalid("catalog.http.id_pattern: %v", err)
		}
	}
	return nil
}
