package core

import "context"

// Catalog 是外部内容目录/搜索服务的领域接口。
//
// 设计原则：
//   - 传输与原始 schema 由外部负责，这里只定义逻辑操作
//   - 任意操作都可能失败（网络错误、限流、响应格式异常），召回层把失败视为空结果
//   - 返回值必须已是规范的 ContentItem，ID 非法的条目在适配层就被丢弃
//
// 实现：
//   - catalog.HTTPClient（HTTP JSON 目录服务，带限流与熔断）
//   - catalog.Memory（测试/开发用内存目录）
//   - catalog.Cached（响应缓存装饰器）
type Catalog interface {
	// Search 关键词/主题搜索，page 从 1 开始
	Search(ctx context.Context, query string, page int) ([]ContentItem, error)

	// RelatedTo 与给定条目相关的条目
	RelatedTo(ctx context.Context, itemID string) ([]ContentItem, error)

	// LatestFromChannel 频道最新上传
	LatestFromChannel(ctx context.Context, channelID string) ([]ContentItem, error)

	// Trending 通用/热门兜底流
	Trending(ctx context.Context) ([]ContentItem, error)
}

// PreferenceSource 是偏好存储的只读快照接口。
// 本核心只读取，不写入；写入由外部系统响应用户操作时完成。
type PreferenceSource interface {
	Load(ctx context.Context, userID string) (*FeedRequest, error)
}

// Catalog 错误定义
var (
	ErrCatalogUnavailable = NewDomainError(ModuleCatalog, ErrorCodeUnavailable, "catalog: unavailable")
)
