// Package textsplit 把语料切成带重叠的定长片段，优先在自然边界处切分。
//
// 每个片段都是原文的连续子串并记录 rune 偏移，因此去掉相邻片段的重叠部分后
// 可以原样拼回原文。
package textsplit

import (
	"unicode"

	"github.com/iWorld-y/news_research/app/research/pkg/model"
)

// DefaultSeparators 切分边界，按优先级从高到低
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter 定长重叠切分器，长度单位为 rune
type Splitter struct {
	Size       int
	Overlap    int
	Separators []string
}

// New 创建切分器，非法参数回退到默认值
func New(size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return &Splitter{Size: size, Overlap: overlap, Separators: DefaultSeparators}
}

// Split 切分文本，相同输入总是得到相同结果
func (s *Splitter) Split(text string) []model.Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []model.Chunk
	start := 0
	for {
		end := start + s.Size
		if end >= n {
			chunks = append(chunks, s.chunk(runes, len(chunks), start, n))
			return chunks
		}

		cut := s.boundary(runes, start, end)
		chunks = append(chunks, s.chunk(runes, len(chunks), start, cut))

		next := cut - s.Overlap
		if next <= start {
			next = start + 1
		}
		start = snapToWord(runes, next, cut)
	}
}

func (s *Splitter) chunk(runes []rune, index, start, end int) model.Chunk {
	return model.Chunk{
		Index:   index,
		Start:   start,
		End:     end,
		Content: string(runes[start:end]),
	}
}

// boundary 在 (start, end] 内寻找切分位置：按分隔符优先级取最后一次出现，
// 切出的片段不足一半窗口时改用下一级分隔符，都找不到则硬切
func (s *Splitter) boundary(runes []rune, start, end int) int {
	minCut := start + s.Size/2
	for _, sep := range s.Separators {
		sr := []rune(sep)
		if cut := lastCut(runes, start, end, sr); cut > minCut {
			return cut
		}
	}
	return end
}

// lastCut 返回 runes[start:end] 中 sep 最后一次出现之后的位置，找不到返回 -1
func lastCut(runes []rune, start, end int, sep []rune) int {
	for i := end - len(sep); i > start; i-- {
		if hasPrefixAt(runes, i, sep) {
			return i + len(sep)
		}
	}
	return -1
}

func hasPrefixAt(runes []rune, i int, sep []rune) bool {
	if i+len(sep) > len(runes) {
		return false
	}
	for j, r := range sep {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}

// snapToWord 把重叠起点向后移动到单词开头，避免片段以半个单词开始
func snapToWord(runes []rune, pos, limit int) int {
	for p := pos; p < limit; p++ {
		if p == 0 || unicode.IsSpace(runes[p-1]) {
			return p
		}
	}
	return pos
}

// Reconstruct 去掉相邻片段的重叠后拼接，得到原文
func Reconstruct(chunks []model.Chunk) string {
	var out []rune
	prevEnd := 0
	for i, c := range chunks {
		r := []rune(c.Content)
		if i == 0 {
			out = append(out, r...)
			prevEnd = c.End
			continue
		}
		overlap := prevEnd - c.Start
		if overlap < 0 {
			overlap = 0
		}
		if overlap > len(r) {
			overlap = len(r)
		}
		out = append(out, r[overlap:]...)
		prevEnd = c.End
	}
	return string(out)
}
