package utils

// Label 是链路中的可解释标记：召回来源、混排通道、过滤原因等。
// Value 与 Source 的语义由各阶段自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank
}

// 标准 Source 值
const (
	SourceRecall = "recall"
	SourceFilter = "filter"
	SourceRank   = "rank"
	SourceRerank = "rerank"
)

// RecallLabel 构造召回阶段 label。
func RecallLabel(value string) Label {
	return Label{Value: value, Source: SourceRecall}
}

// MergeLabel 用于合并同名 Label，保留历史、可追踪：
// - Value: 以 '|' 累积，相同值不重复
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" || incoming == existing {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "" || existing.Source == incoming.Source:
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
