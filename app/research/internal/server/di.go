package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/news_research/app/research/internal/service"
	"github.com/iWorld-y/news_research/app/research/internal/usecase"
	"github.com/iWorld-y/news_research/app/research/pkg/engine"
	"github.com/iWorld-y/news_research/app/research/pkg/knowledge"
	"github.com/iWorld-y/news_research/app/research/pkg/news"
	"github.com/iWorld-y/news_research/app/research/pkg/scraper"
)

// ProviderSet 是研究服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Pipeline providers
	NewArticleFetcher,
	NewScraper,
	NewEngine,
	NewKnowledgeBuilder,
	wire.Bind(new(usecase.ArticleFetcher), new(*news.Fetcher)),
	wire.Bind(new(usecase.PageScraper), new(*scraper.Scraper)),
	wire.Bind(new(usecase.Generator), new(*engine.Engine)),
	wire.Bind(new(usecase.KnowledgeBuilder), new(*knowledge.Builder)),

	// UseCase providers
	usecase.NewResearchUseCase,

	// Service providers
	service.NewResearchService,
)
