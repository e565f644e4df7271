package usecase

import (
	"strings"

	"github.com/google/uuid"

	"github.com/iWorld-y/news_research/app/research/pkg/model"
)

// Status 一次运行的终止状态
type Status string

const (
	StatusOK                  Status = "ok"
	StatusInvalidInput        Status = "invalid_input"
	StatusMissingCredentials  Status = "missing_credentials"
	StatusFetchFailed         Status = "fetch_failed"
	StatusNoArticles          Status = "no_articles"
	StatusInsufficientContent Status = "insufficient_content"
	StatusLLMFailed           Status = "llm_failed"
	StatusKnowledgeFailed     Status = "knowledge_failed"
	StatusCanceled            Status = "canceled"
)

// Outcome 各模式共有的运行结果，失败也以 Outcome 返回而不是 error
type Outcome struct {
	RunID   string
	Company string
	Status  Status
	Message string

	Articles     []model.ArticleRecord
	Missing      []string
	Scraped      int
	Failed       int
	CorpusLength int
}

func (o *Outcome) start(company string) {
	o.RunID = uuid.NewString()
	o.Company = strings.TrimSpace(company)
	o.Articles = []model.ArticleRecord{}
}

func (o *Outcome) halt(status Status, message string) {
	o.Status = status
	o.Message = message
}

// OK 是否成功完成
func (o *Outcome) OK() bool {
	return o.Status == StatusOK
}

// AnalysisOutcome 摘要分析结果
type AnalysisOutcome struct {
	Outcome
	Report string
}

// KnowledgeOutcome 知识库准备结果
type KnowledgeOutcome struct {
	Outcome
	Chunks int
}

// Source 回答引用的片段
type Source struct {
	Index   int
	Score   float64
	Preview string
}

// AnswerOutcome 问答结果
type AnswerOutcome struct {
	Outcome
	Question string
	Answer   string
	Sources  []Source
}

// Credential 单个凭证的加载状态
type Credential struct {
	Name   string
	Loaded bool
}

// CredentialStatus 侧边栏展示的凭证状态
type CredentialStatus struct {
	Provider    string
	Credentials []Credential
	Ready       bool
}
