package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/engine"
	"github.com/iWorld-y/news_research/app/research/pkg/knowledge"
	pkglogger "github.com/iWorld-y/news_research/app/research/pkg/logger"
	"github.com/iWorld-y/news_research/app/research/pkg/news"
	"github.com/iWorld-y/news_research/app/research/pkg/scraper"
	"github.com/iWorld-y/news_research/app/research/pkg/search/factory"
	"github.com/iWorld-y/news_research/app/research/pkg/textsplit"
)

// NewArticleFetcher 按配置选择新闻源并创建带缓存的检索器
func NewArticleFetcher(c *config.Config, logger log.Logger) (*news.Fetcher, error) {
	// 流水线日志与服务日志分开初始化
	if err := pkglogger.InitLogger(c.Log.Level, c.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init pipeline logger: %v", err)
		_ = pkglogger.InitLogger("info", "") // 降级处理
	}

	searcher, err := factory.NewSearcher(c)
	if err != nil {
		return nil, err
	}
	_, credential := c.NewsCredential()
	log.NewHelper(logger).Infof("news provider: %s", searcher.Name())
	return news.NewFetcher(searcher, credential, c.Cache.Size)
}

// NewScraper 创建正文抓取器
func NewScraper(c *config.Config) (*scraper.Scraper, error) {
	return scraper.NewScraper(c.Pipeline.Scrape, c.Cache.Size)
}

// NewEngine 初始化 LLM 引擎，缺少 key 时仍可创建，调用前由业务层检查凭证
func NewEngine(c *config.Config) (*engine.Engine, error) {
	chatModel, err := engine.NewChatModel(context.Background(), c.LLM)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(chatModel, engine.NewLimiter(c.Concurrency)), nil
}

// NewKnowledgeBuilder 初始化向量化客户端与知识库构建器
func NewKnowledgeBuilder(c *config.Config) (*knowledge.Builder, error) {
	embedder, err := knowledge.NewEmbedder(c.Embedding)
	if err != nil {
		return nil, err
	}
	splitter := textsplit.New(c.Pipeline.QA.ChunkSize, c.Pipeline.QA.ChunkOverlap)
	return knowledge.NewBuilder(embedder, splitter, c.Cache.Size)
}
