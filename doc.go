// Package feedrank 是个性化内容 Feed 排序引擎。
//
// 设计要点：
// - Pipeline-first: Feed 逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: recall_source / lane / filtered 等 labels 全链路透传，支持 explain 与混排
// - 会话显式持有：已输出 ID、页码与输出上限保存在 session.State，由 feed.Engine 驱动
//
// 入口见 feed.New；命令行工具见 cmd/feedctl。
package feedrank

import "github.com/rushteam/feedrank/pipeline"

// 轻量 facade：便于直接 import "feedrank" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
