package core

import (
	"math"
	"sort"
	"time"
)

// SourceChannel 是内容来源频道，既可作为"订阅"出现，也可作为条目的来源。
type SourceChannel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// UserProfile 是按请求即时构建的关键词兴趣画像。
//
// 一句话定义：用户画像 = 关键词 → 累积权重（≥0）。
//
// 它不是某一个 Node，而是：
//   - 被召回（兴趣搜索）与排序（相关性）共享
//   - 每次请求重新构建，不做持久化
type UserProfile struct {
	UserID string

	// Keywords key: 归一化关键词，value: 累积权重
	Keywords map[string]float64

	// Magnitude 是权重向量的欧氏范数，供上层做相似度计算
	Magnitude float64

	BuildTime time.Time
}

// NewUserProfile 创建一个空画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		Keywords:  make(map[string]float64),
		BuildTime: time.Now(),
	}
}

// Add 累加关键词权重；非正权重忽略。
func (p *UserProfile) Add(keyword string, weight float64) {
	if keyword == "" || weight <= 0 {
		return
	}
	if p.Keywords == nil {
		p.Keywords = make(map[string]float64)
	}
	p.Keywords[keyword] += weight
}

// Weight 获取关键词权重，不存在返回 0。
func (p *UserProfile) Weight(keyword string) float64 {
	if p == nil || p.Keywords == nil {
		return 0
	}
	return p.Keywords[keyword]
}

// IsEmpty 冷启动判断。
func (p *UserProfile) IsEmpty() bool {
	return p == nil || len(p.Keywords) == 0
}

// ComputeMagnitude 重新计算并返回 Magnitude。
func (p *UserProfile) ComputeMagnitude() float64 {
	var sum float64
	for _, w := range p.Keywords {
		sum += w * w
	}
	p.Magnitude = math.Sqrt(sum)
	return p.Magnitude
}

// TopKeywords 返回权重最高的 k 个关键词，权重相同按字典序。
func (p *UserProfile) TopKeywords(k int) []string {
	if p.IsEmpty() || k <= 0 {
		return nil
	}
	keys := make([]string, 0, len(p.Keywords))
	for kw := range p.Keywords {
		keys = append(keys, kw)
	}
	sort.Slice(keys, func(i, j int) bool {
		wi, wj := p.Keywords[keys[i]], p.Keywords[keys[j]]
		if wi != wj {
			return wi > wj
		}
		return keys[i] < keys[j]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}

// Clone 深拷贝，用于对外暴露诊断快照。
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Keywords = make(map[string]float64, len(p.Keywords))
	for k, v := range p.Keywords {
		cp.Keywords[k] = v
	}
	return &cp
}
