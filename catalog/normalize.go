// Package catalog 是外部内容目录的适配层。
//
// 目录原始响应的形态并不稳定（字段名、嵌套结构、数字/文本混用），
// Normalize 是唯一的窄适配入口：立即翻译成 core.ContentItem，ID 非法的条目直接丢弃。
package catalog

import (
	"regexp"
	"strings"

	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/pkg/conv"
)

// DefaultIDPattern 是目录 ID 的默认格式（11 位 URL-safe base64）。
const DefaultIDPattern = `^[A-Za-z0-9_-]{11}$`

// IDValidator 判断 ID 是否符合目录格式。
type IDValidator func(id string) bool

// PatternValidator 基于正则的 ID 校验。
func PatternValidator(pattern string) (IDValidator, error) {
	if pattern == "" {
		pattern = DefaultIDPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re.MatchString, nil
}

// DefaultValidator 默认 ID 校验。
var DefaultValidator IDValidator = regexp.MustCompile(DefaultIDPattern).MatchString

// 各字段候选路径，按优先级排列
var (
	idPaths          = []string{"id.videoId", "videoId", "video_id", "id", "contentId"}
	titlePaths       = []string{"title", "snippet.title", "name"}
	channelIDPaths   = []string{"channelId", "channel_id", "snippet.channelId", "author.id", "ownerChannelId", "channel.id"}
	channelNamePaths = []string{"channelName", "channel_name", "channelTitle", "snippet.channelTitle", "ownerText", "author.name", "author", "channel.name"}
	viewPaths        = []string{"viewCountText", "shortViewCountText", "viewCount", "view_count", "views", "statistics.viewCount"}
	publishedPaths   = []string{"publishedTimeText", "publishedText", "publishedAt", "published_at", "published", "snippet.publishedAt"}
	durationPaths    = []string{"lengthText", "duration", "contentDetails.duration", "lengthSeconds", "length_seconds"}
	descriptionPaths = []string{"descriptionSnippet", "description", "snippet.description"}
	thumbnailPaths   = []string{"thumbnail.thumbnails.0.url", "thumbnails.0.url", "snippet.thumbnails.default.url", "thumbnail", "thumbnailUrl"}
)

// Normalize 把一条原始响应翻译成 ContentItem。
// 非 ID 字段解析失败时置空；ID 缺失或不符合格式时返回 false。
func Normalize(raw map[string]any, valid IDValidator) (core.ContentItem, bool) {
	if raw == nil {
		return core.ContentItem{}, false
	}
	if valid == nil {
		valid = DefaultValidator
	}
	id := strings.TrimSpace(firstText(raw, idPaths))
	if id == "" || !valid(id) {
		return core.ContentItem{}, false
	}
	return core.ContentItem{
		ID:              id,
		Title:           firstText(raw, titlePaths),
		ChannelID:       firstText(raw, channelIDPaths),
		ChannelName:     firstText(raw, channelNamePaths),
		ViewCountText:   firstText(raw, viewPaths),
		PublishedAtText: firstText(raw, publishedPaths),
		DurationText:    firstText(raw, durationPaths),
		Description:     firstText(raw, descriptionPaths),
		Thumbnail:       firstText(raw, thumbnailPaths),
	}, true
}

// NormalizeAll 批量翻译，丢弃非法条目，返回保留结果与丢弃数。
func NormalizeAll(raws []any, valid IDValidator) ([]core.ContentItem, int) {
	out := make([]core.ContentItem, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		m, ok := r.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		it, ok := Normalize(m, valid)
		if !ok {
			dropped++
			continue
		}
		out = append(out, it)
	}
	return out, dropped
}
