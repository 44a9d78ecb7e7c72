package keyword

// stopWords 功能性虚词与泛化媒体词，对兴趣没有区分度。
var stopWords = toSet([]string{
	// en
	"a", "an", "the", "and", "or", "of", "to", "in", "on", "for", "with", "is", "are",
	"was", "be", "at", "by", "from", "this", "that", "it", "my", "your", "you", "we",
	"vs", "ft", "feat", "how", "what", "why", "about", "into",
	// 泛化媒体词
	"official", "channel", "video", "videos", "mv", "live", "stream", "new", "full",
	"hd", "4k", "shorts", "short", "clip", "episode", "ep", "part",
	// ja
	"の", "は", "が", "を", "に", "で", "と", "も", "へ", "や", "から", "まで", "です",
	"ます", "した", "して", "する", "こと", "これ", "それ",
	"公式", "チャンネル", "動画", "配信", "ライブ", "切り抜き",
	// zh
	"的", "了", "是", "在", "和", "与", "官方", "频道", "頻道", "视频", "視頻", "直播",
})

func toSet(ss []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}
	return m
}

// IsStopWord 是否为停用词（输入需已归一化）。
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
