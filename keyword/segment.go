package keyword

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Segmenter 把归一化后的文本切分为候选词。
type Segmenter interface {
	Segment(text string) []string
}

// UAXSegmenter 基于 Unicode UAX#29 词边界切分。
// 汉字连续片段按二元组（bigram）输出，平假名连续片段合并为一个词。
type UAXSegmenter struct{}

func (UAXSegmenter) Segment(text string) []string {
	var (
		out   []string
		run   []rune // 连续的单字汉字或平假名
		runHi bool   // run 是否为平假名
		state = -1
		word  string
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		switch {
		case runHi || len(run) == 1:
			out = append(out, string(run))
		default:
			for i := 0; i+1 < len(run); i++ {
				out = append(out, string(run[i:i+2]))
			}
		}
		run = run[:0]
	}

	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if utf8.RuneCountInString(word) == 1 {
			r, _ := utf8.DecodeRuneInString(word)
			han, hira := unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r)
			if han || hira {
				if len(run) > 0 && runHi != hira {
					flush()
				}
				runHi = hira
				run = append(run, r)
				continue
			}
		}
		flush()
		if hasWordRune(word) {
			out = append(out, word)
		}
	}
	flush()
	return out
}

// FallbackSegmenter 按 Unicode 标点/符号/空白切分，不依赖词边界数据。
type FallbackSegmenter struct{}

func (FallbackSegmenter) Segment(text string) []string {
	return strings.FieldsFunc(text, isSeparator)
}

func isSeparator(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
