package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/feedrank/catalog"
	"github.com/rushteam/feedrank/config"
	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/logging"
	"github.com/rushteam/feedrank/preference"
	"github.com/rushteam/feedrank/store"
)

var cfg = config.Default()

func setup() error {
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logging.Init(cfg.Log)
	return nil
}

// openStore 按配置打开偏好存储。
func openStore() (core.KeyValueStore, error) {
	switch cfg.Preferences.Backend {
	case "redis":
		return store.NewRedisStore(cfg.Preferences.Redis)
	default:
		logging.Warn().Msg("using in-memory preference store, snapshots are not persisted")
		return store.NewMemoryStore(), nil
	}
}

func openPreferences() (*preference.StoreSource, func(), error) {
	kv, err := openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open preference store: %w", err)
	}
	src := preference.NewStoreSource(kv)
	if cfg.Preferences.KeyPrefix != "" {
		src.KeyPrefix = cfg.Preferences.KeyPrefix
	}
	return src, func() { _ = kv.Close() }, nil
}

// openCatalog 创建 HTTP 目录客户端，按配置套一层缓存。
func openCatalog() (core.Catalog, func(), error) {
	client, err := catalog.NewHTTPClient(cfg.Catalog.HTTP)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Catalog.CacheSize <= 0 {
		return client, func() {}, nil
	}
	cached := catalog.NewCached(client, cfg.Catalog.CacheSize, cfg.Catalog.CacheTTL)
	return cached, cached.Close, nil
}

// readRequest 读取 JSON 形式的 FeedRequest，path 为 "-" 时读标准输入。
func readRequest(path string) (*core.FeedRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", path, err)
	}
	var req core.FeedRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request %s: %w", path, err)
	}
	return &req, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
