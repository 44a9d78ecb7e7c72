package textparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT4M", 240},
		{"PT45S", 45},
		{"P1DT1S", 86401},
		{"pt10m", 600},
		{"1:02:03", 3723},
		{"12:34", 754},
		{"0:59", 59},
		{"90", 90},
		{"", 0},
		{"PT", 0},
		{"LIVE", 0},
		{"1:xx", 0},
		{"1:2:3:4", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationSeconds(tt.in))
		})
	}
}

func TestViewCount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1,234,567 views", 1234567},
		{"1.2M views", 1200000},
		{"12K views", 12000},
		{"3.4B", 3400000000},
		{"2 million views", 2000000},
		{"1.2万 回視聴", 12000},
		{"3億回視聴", 300000000},
		{"5.6亿次观看", 560000000},
		{"842 回視聴", 842},
		{"No views", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ViewCount(tt.in))
		})
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"3 days ago", 3 * day, true},
		{"Streamed 2 hours ago", 2 * time.Hour, true},
		{"1 year ago", year, true},
		{"2週間前", 2 * week, true},
		{"5天前", 5 * day, true},
		{"3か月前", 3 * month, true},
		{"yesterday", day, true},
		{"2026-10-17", 2*day + 12*time.Hour, true},
		{"2026-10-19T11:00:00Z", time.Hour, true},
		{"2027-01-01", 0, true},
		{"sometime", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Age(tt.in, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
