package textparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var (
	relativeEnRe = regexp.MustCompile(`(?i)(\d+)\s*(second|sec|minute|min|hour|day|week|month|year)s?\s+ago`)
	relativeJaRe = regexp.MustCompile(`(\d+)\s*(秒|分钟|分|時間|小时|日|天|週間|周|か月|ヶ月|ヵ月|个月|年)前`)

	enUnits = map[string]time.Duration{
		"second": time.Second, "sec": time.Second,
		"minute": time.Minute, "min": time.Minute,
		"hour": time.Hour, "day": day, "week": week, "month": month, "year": year,
	}
	cjkUnits = map[string]time.Duration{
		"秒": time.Second, "分": time.Minute, "分钟": time.Minute,
		"時間": time.Hour, "小时": time.Hour, "日": day, "天": day,
		"週間": week, "周": week, "か月": month, "ヶ月": month, "ヵ月": month, "个月": month,
		"年": year,
	}

	absoluteLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "2006/01/02", "Jan 2, 2006"}
)

// Age 解析发布时间文本，返回相对 now 的时长。
// 支持相对表达（"3 days ago"、"2時間前"、"5天前"）与绝对日期（RFC3339、2006-01-02）。
func Age(text string, now time.Time) (time.Duration, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "just now"), strings.Contains(lower, "today"),
		strings.Contains(s, "たった今"), strings.Contains(s, "今日"), strings.Contains(s, "刚刚"):
		return 0, true
	case strings.Contains(lower, "yesterday"), strings.Contains(s, "昨日"), strings.Contains(s, "昨天"):
		return day, true
	}
	if m := relativeEnRe.FindStringSubmatch(s); m != nil {
		return relative(m[1], enUnits[strings.ToLower(m[2])])
	}
	if m := relativeJaRe.FindStringSubmatch(s); m != nil {
		return relative(m[1], cjkUnits[m[2]])
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			age := now.Sub(t)
			if age < 0 {
				age = 0
			}
			return age, true
		}
	}
	return 0, false
}

func relative(num string, unit time.Duration) (time.Duration, bool) {
	n, err := strconv.Atoi(num)
	if err != nil || unit == 0 {
		return 0, false
	}
	return time.Duration(n) * unit, true
}
