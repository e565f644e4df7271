package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iWorld-y/news_research/app/research/pkg/logger"
	"github.com/iWorld-y/news_research/app/research/pkg/model"
)

// Separator 追加在每篇正文之后
const Separator = "\n\n---\n\n"

// ErrInsufficientContent 语料长度不足，不值得调用 LLM
var ErrInsufficientContent = errors.New("insufficient content")

// Aggregate 按抓取顺序拼接成功的正文，并统计失败原因
func Aggregate(results []model.ScrapeResult) model.Corpus {
	var sb strings.Builder
	corpus := model.Corpus{Failures: map[string]int{}}

	for _, r := range results {
		if !r.OK || r.Content == "" {
			corpus.Failed++
			reason := r.Reason
			if reason == "" {
				reason = "unknown"
			}
			corpus.Failures[reason]++
			continue
		}
		sb.WriteString(r.Content)
		sb.WriteString(Separator)
		corpus.Succeeded++
	}
	corpus.Text = sb.String()

	if corpus.Failed > 0 {
		logger.Log.Debugf("正文抓取: 成功 %d 篇, 失败 %d 篇 %v", corpus.Succeeded, corpus.Failed, corpus.Failures)
	}
	return corpus
}

// Require 语料长度低于 min 时返回 ErrInsufficientContent
func Require(c model.Corpus, min int) error {
	if n := c.Len(); n < min {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrInsufficientContent, n, min)
	}
	return nil
}
