// Package engine 封装对 LLM 的调用：新闻摘要分析与基于检索结果的问答。
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/logger"
)

// ErrEmptyCompletion LLM 返回了空内容
var ErrEmptyCompletion = errors.New("empty completion")

// SectionHeaders 分析报告必须包含的四个小节
var SectionHeaders = []string{
	"### 1. Overall Sentiment",
	"### 2. Key Summary Points",
	"### 3. Potential Risks",
	"### 4. Potential Opportunities",
}

// ChatModel 引擎只依赖同步生成能力
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Engine LLM 调用引擎
type Engine struct {
	chatModel ChatModel
	limiter   *rate.Limiter

	analysisTpl prompt.ChatTemplate
	answerTpl   prompt.ChatTemplate
}

// NewChatModel 基于 OpenAI 兼容接口创建对话模型
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return chatModel, nil
}

// NewLimiter 按 RPM/QPS 创建限流器，RPM<=0 时不限流
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	if cfg.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst)
}

// NewEngine 创建引擎实例
func NewEngine(chatModel ChatModel, limiter *rate.Limiter) *Engine {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Engine{
		chatModel: chatModel,
		limiter:   limiter,
		analysisTpl: prompt.FromMessages(schema.FString,
			schema.SystemMessage(analysisSystemPrompt),
			schema.UserMessage(analysisUserPrompt),
		),
		answerTpl: prompt.FromMessages(schema.FString,
			schema.SystemMessage(answerSystemPrompt),
			schema.UserMessage(answerUserPrompt),
		),
	}
}

// Analyze 对聚合后的新闻正文生成四段式分析报告，返回模型原文
func (e *Engine) Analyze(ctx context.Context, company, corpus string) (string, error) {
	messages, err := e.analysisTpl.Format(ctx, map[string]any{
		"company_name":  company,
		"articles_text": corpus,
	})
	if err != nil {
		return "", fmt.Errorf("format analysis prompt: %w", err)
	}

	report, err := e.generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if missing := MissingSections(report); len(missing) > 0 {
		logger.Log.Warnf("分析报告 [%s] 缺少小节: %s", company, strings.Join(missing, ", "))
	}
	return report, nil
}

// Answer 仅依据检索到的片段回答问题
func (e *Engine) Answer(ctx context.Context, company, question string, contexts []string) (string, error) {
	var sb strings.Builder
	for i, c := range contexts {
		fmt.Fprintf(&sb, "[%d]\n%s\n\n", i+1, strings.TrimSpace(c))
	}

	messages, err := e.answerTpl.Format(ctx, map[string]any{
		"company_name": company,
		"context":      sb.String(),
		"question":     question,
	})
	if err != nil {
		return "", fmt.Errorf("format answer prompt: %w", err)
	}
	return e.generate(ctx, messages)
}

// generate 单次同步调用，不做重试
func (e *Engine) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyCompletion
	}
	logger.Log.Debugf("LLM 调用完成, 耗时 %v, 输出 %d 字符", time.Since(start), len(resp.Content))
	return resp.Content, nil
}

// MissingSections 返回报告中缺失的小节标题
func MissingSections(report string) []string {
	var missing []string
	for _, h := range SectionHeaders {
		if !strings.Contains(report, h) {
			missing = append(missing, h)
		}
	}
	return missing
}

const analysisSystemPrompt = `You are an expert equity research analyst. You write clear, concise analyses grounded strictly in the source material you are given.`

const analysisUserPrompt = `Your task is to analyze the following news articles about {company_name}.
Based ONLY on the provided text, please provide a clear and concise analysis.

Here is the combined text from the articles:
---
{articles_text}
---

Please format your response as follows, using Markdown:

### 1. Overall Sentiment
**Sentiment:** (Positive, Negative, or Neutral)
**Justification:** (A brief, one-sentence explanation for your sentiment choice).

### 2. Key Summary Points
- Provide 3-5 bullet points summarizing the most critical information, events, or financial data mentioned.

### 3. Potential Risks
- List 2-3 potential risks or challenges for the company highlighted in the articles.

### 4. Potential Opportunities
- List 2-3 potential opportunities or positive catalysts mentioned.`

const answerSystemPrompt = `You are an equity research assistant answering questions about {company_name}.
Answer ONLY from the numbered context excerpts taken from recent news articles.
If the answer is not contained in the excerpts, say that you do not know based on the available news.
Keep the answer concise and cite excerpt numbers like [1] where relevant.`

const answerUserPrompt = `Context excerpts:
{context}
Question: {question}`
