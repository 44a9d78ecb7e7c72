package textparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var viewCountRe = regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(thousand|million|billion|[kmb]|千|万|萬|億|亿)?`)

var magnitudes = map[string]float64{
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
	"k":        1e3,
	"m":        1e6,
	"b":        1e9,
	"千":        1e3,
	"万":        1e4,
	"萬":        1e4,
	"億":        1e8,
	"亿":        1e8,
}

// ViewCount 把 "1.2M views"、"1,234 回視聴"、"3.4万次观看" 这类文本还原成原始播放量。
// 无法解析（包括 "No views"）返回 0。
func ViewCount(text string) int64 {
	m := viewCountRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	if mul, ok := magnitudes[strings.ToLower(m[2])]; ok {
		v *= mul
	}
	if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return int64(math.Round(v))
}
