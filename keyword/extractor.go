// Package keyword 把自由文本（标题、频道名、搜索词）转成归一化的关键词集合。
package keyword

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Extractor 关键词抽取器，无状态、确定性，可并发使用。
type Extractor struct {
	// Segmenter 为 nil 时使用 FallbackSegmenter
	Segmenter Segmenter
}

// NewExtractor 返回使用 UAX#29 分词的抽取器。
func NewExtractor() *Extractor {
	return &Extractor{Segmenter: UAXSegmenter{}}
}

var defaultExtractor = NewExtractor()

// Extract 使用默认抽取器。
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}

// Normalize NFKC 归一化（全角转半角等）后转小写。
func Normalize(text string) string {
	// cases.Caser 非并发安全，每次新建
	return cases.Lower(language.Und).String(norm.NFKC.String(text))
}

// Extract 返回去重且排序后的关键词。
func (e *Extractor) Extract(text string) []string {
	set := e.ExtractSet(text)
	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// ExtractSet 返回关键词集合。
func (e *Extractor) ExtractSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return set
	}

	var tokens []string
	if e != nil && e.Segmenter != nil {
		tokens = e.Segmenter.Segment(text)
	}
	if len(tokens) == 0 {
		tokens = FallbackSegmenter{}.Segment(text)
	}

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if keep(tok) {
			set[tok] = struct{}{}
		}
	}
	return set
}

func keep(tok string) bool {
	if tok == "" {
		return false
	}
	if utf8.RuneCountInString(tok) == 1 {
		r, _ := utf8.DecodeRuneInString(tok)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	if IsStopWord(tok) {
		return false
	}
	return !isNumeric(tok)
}

// isNumeric 纯数字（允许 "1.5"、"1,000" 这类分隔符）
func isNumeric(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',':
		default:
			return false
		}
	}
	return digits > 0
}
