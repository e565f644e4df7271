package model

import (
	"time"
	"unicode/utf8"
)

// ArticleRecord 新闻搜索返回的文章元信息
type ArticleRecord struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
}

// ScrapeResult 单篇文章的正文抓取结果，失败时 OK 为 false 并给出原因
type ScrapeResult struct {
	URL     string
	Content string
	OK      bool
	Reason  string
}

// Corpus 所有成功抓取的正文拼接后的语料
type Corpus struct {
	Text      string
	Succeeded int
	Failed    int
	Failures  map[string]int // 失败原因 -> 次数
}

// Len 语料字符数
func (c Corpus) Len() int {
	return utf8.RuneCountInString(c.Text)
}

// Chunk 语料中的一个切片，Start/End 为 rune 偏移
type Chunk struct {
	Index   int
	Start   int
	End     int
	Content string
}
