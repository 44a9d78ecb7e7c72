// Package textparse 解析目录返回的展示型文本：时长、播放量、发布时间。
// 所有解析都不会失败，无法解析时返回零值。
package textparse

import (
	"regexp"
	"strconv"
	"strings"
)

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// DurationSeconds 解析 ISO-8601 时长（PT1H2M3S）或时钟格式（1:02:03 / 12:34）。
// 纯数字视为秒数；无法解析返回 0。
func DurationSeconds(text string) int {
	s := strings.ToUpper(strings.TrimSpace(text))
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "P") {
		return parseISODuration(s)
	}
	if strings.Contains(s, ":") {
		return parseClock(s)
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 0
}

func parseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0
	}
	total := 0.0
	units := []float64{86400, 3600, 60, 1}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0
		}
		total += v * unit
	}
	return int(total)
}

func parseClock(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return 0
		}
		total = total*60 + v
	}
	return total
}
