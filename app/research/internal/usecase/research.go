package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/news_research/app/research/pkg/aggregate"
	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/knowledge"
	"github.com/iWorld-y/news_research/app/research/pkg/model"
)

// ArticleFetcher 新闻检索
type ArticleFetcher interface {
	Fetch(ctx context.Context, company string, count int) ([]model.ArticleRecord, error)
}

// PageScraper 正文抓取，失败以结果形式返回
type PageScraper interface {
	Scrape(ctx context.Context, url string) model.ScrapeResult
}

// Generator LLM 分析与问答
type Generator interface {
	Analyze(ctx context.Context, company, corpus string) (string, error)
	Answer(ctx context.Context, company, question string, contexts []string) (string, error)
}

// KnowledgeBuilder 知识库构建
type KnowledgeBuilder interface {
	Build(ctx context.Context, text string) (*knowledge.Base, error)
}

// 面向用户的提示
const (
	MsgEmptyCompany       = "Please enter a company name."
	MsgEmptyQuestion      = "Please enter a question."
	MsgNoArticles         = "No articles found for the given company."
	MsgInsufficient       = "Could not retrieve enough content from the articles to perform an analysis."
	MsgAnalysisDone       = "Analysis complete."
	MsgKnowledgeDone      = "Knowledge base is ready. Ask a question about the recent news."
	MsgAnswerDone         = "Answer generated from the retrieved news excerpts."
	MsgCanceled           = "The request was canceled before the run finished."
	sourcePreviewMaxRunes = 300
)

// ResearchUseCase 串联检索、抓取、聚合与 LLM 两种模式，两种模式共享检索与抓取缓存
type ResearchUseCase struct {
	cfg       *config.Config
	fetcher   ArticleFetcher
	scraper   PageScraper
	generator Generator
	builder   KnowledgeBuilder
	log       *log.Helper
}

// NewResearchUseCase 创建研究业务逻辑实例
func NewResearchUseCase(cfg *config.Config, fetcher ArticleFetcher, scraper PageScraper, generator Generator, builder KnowledgeBuilder, logger log.Logger) *ResearchUseCase {
	return &ResearchUseCase{
		cfg:       cfg,
		fetcher:   fetcher,
		scraper:   scraper,
		generator: generator,
		builder:   builder,
		log:       log.NewHelper(log.With(logger, "module", "usecase/research")),
	}
}

// Status 当前凭证加载情况
func (uc *ResearchUseCase) Status() CredentialStatus {
	status := CredentialStatus{Provider: uc.cfg.Search.Provider}
	if name, value := uc.cfg.NewsCredential(); name != "" {
		status.Credentials = append(status.Credentials, Credential{Name: name, Loaded: value != ""})
	}
	status.Credentials = append(status.Credentials, Credential{Name: config.CredentialLLM, Loaded: uc.cfg.LLM.APIKey != ""})
	status.Ready = len(uc.cfg.MissingCredentials()) == 0
	return status
}

// Analyze 摘要分析模式：检索、抓取、聚合后调用 LLM 生成四段式报告
func (uc *ResearchUseCase) Analyze(ctx context.Context, company string) *AnalysisOutcome {
	out := &AnalysisOutcome{}
	corpus, ok := uc.collect(ctx, &out.Outcome, company, uc.cfg.Pipeline.Analysis.ArticleCount, uc.cfg.Pipeline.Analysis.MinContentLength)
	if !ok {
		return out
	}

	report, err := uc.generator.Analyze(ctx, out.Company, corpus.Text)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("[%s] LLM 分析失败: %v", out.RunID, err)
		out.halt(StatusLLMFailed, fmt.Sprintf("An error occurred during AI analysis: %v", err))
		return out
	}

	out.Report = report
	out.halt(StatusOK, MsgAnalysisDone)
	uc.log.WithContext(ctx).Infof("[%s] 分析完成: %s", out.RunID, out.Company)
	return out
}

// Prepare 问答模式第一步：检索、抓取、聚合并构建知识库
func (uc *ResearchUseCase) Prepare(ctx context.Context, company string) *KnowledgeOutcome {
	out := &KnowledgeOutcome{}
	uc.prepare(ctx, out, company)
	return out
}

func (uc *ResearchUseCase) prepare(ctx context.Context, out *KnowledgeOutcome, company string) *knowledge.Base {
	qa := uc.cfg.Pipeline.QA
	corpus, ok := uc.collect(ctx, &out.Outcome, company, qa.ArticleCount, qa.MinContentLength)
	if !ok {
		return nil
	}

	kb, err := uc.builder.Build(ctx, corpus.Text)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("[%s] 知识库构建失败: %v", out.RunID, err)
		out.halt(StatusKnowledgeFailed, fmt.Sprintf("Could not build the knowledge base: %v", err))
		return nil
	}

	out.Chunks = len(kb.Chunks)
	out.halt(StatusOK, MsgKnowledgeDone)
	return kb
}

// Ask 问答模式：准备知识库后检索相关片段并回答
func (uc *ResearchUseCase) Ask(ctx context.Context, company, question string) *AnswerOutcome {
	out := &AnswerOutcome{}
	out.start(company)

	question = strings.TrimSpace(question)
	if out.Company != "" && question == "" {
		out.halt(StatusInvalidInput, MsgEmptyQuestion)
		return out
	}
	out.Question = question

	kout := &KnowledgeOutcome{Outcome: out.Outcome}
	kb := uc.prepare(ctx, kout, company)
	out.Outcome = kout.Outcome
	if kb == nil {
		return out
	}

	hits, err := kb.Retrieve(ctx, question, uc.cfg.Pipeline.QA.TopK)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("[%s] 检索失败: %v", out.RunID, err)
		out.halt(StatusKnowledgeFailed, fmt.Sprintf("Could not search the knowledge base: %v", err))
		return out
	}

	contexts := make([]string, 0, len(hits))
	for _, h := range hits {
		contexts = append(contexts, h.Chunk.Content)
		out.Sources = append(out.Sources, Source{
			Index:   h.Chunk.Index,
			Score:   h.Score,
			Preview: preview(h.Chunk.Content),
		})
	}

	answer, err := uc.generator.Answer(ctx, out.Company, question, contexts)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("[%s] LLM 问答失败: %v", out.RunID, err)
		out.halt(StatusLLMFailed, fmt.Sprintf("An error occurred while answering: %v", err))
		return out
	}

	out.Answer = answer
	out.halt(StatusOK, MsgAnswerDone)
	return out
}

// collect 执行两种模式共有的阶段：校验、凭证检查、检索、逐篇抓取、聚合
// 返回 false 时 out 已记录终止状态
func (uc *ResearchUseCase) collect(ctx context.Context, out *Outcome, company string, count, minLength int) (model.Corpus, bool) {
	if out.RunID == "" {
		out.start(company)
	}
	if out.Company == "" {
		out.halt(StatusInvalidInput, MsgEmptyCompany)
		return model.Corpus{}, false
	}

	if missing := uc.cfg.MissingCredentials(); len(missing) > 0 {
		out.Missing = missing
		out.halt(StatusMissingCredentials, fmt.Sprintf("API key(s) are missing: %s. Please check the sidebar status.", strings.Join(missing, ", ")))
		return model.Corpus{}, false
	}

	uc.log.WithContext(ctx).Infof("[%s] 开始检索新闻: %s", out.RunID, out.Company)
	articles, err := uc.fetcher.Fetch(ctx, out.Company, count)
	if err != nil {
		if ctx.Err() != nil {
			out.halt(StatusCanceled, MsgCanceled)
			return model.Corpus{}, false
		}
		out.halt(StatusFetchFailed, fmt.Sprintf("Error fetching news: %v", err))
		return model.Corpus{}, false
	}
	// 检索器可能返回 nil，保持空切片
	out.Articles = append(out.Articles[:0], articles...)
	if len(articles) == 0 {
		out.halt(StatusNoArticles, MsgNoArticles)
		return model.Corpus{}, false
	}

	// 逐篇顺序抓取
	results := make([]model.ScrapeResult, 0, len(articles))
	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			break
		}
		results = append(results, uc.scraper.Scrape(ctx, a.URL))
	}
	// 中途取消不计入内容不足
	if err := ctx.Err(); err != nil {
		uc.log.WithContext(ctx).Warnf("[%s] 抓取中断: %v (已完成 %d/%d)", out.RunID, err, len(results), len(articles))
		out.halt(StatusCanceled, MsgCanceled)
		return model.Corpus{}, false
	}

	corpus := aggregate.Aggregate(results)
	out.Scraped = corpus.Succeeded
	out.Failed = len(articles) - corpus.Succeeded
	out.CorpusLength = corpus.Len()

	if err := aggregate.Require(corpus, minLength); err != nil {
		uc.log.WithContext(ctx).Warnf("[%s] %v", out.RunID, err)
		out.halt(StatusInsufficientContent, MsgInsufficient)
		return model.Corpus{}, false
	}
	return corpus, true
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= sourcePreviewMaxRunes {
		return s
	}
	return string([]rune(s)[:sourcePreviewMaxRunes]) + "..."
}
