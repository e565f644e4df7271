package factory

import (
	"fmt"

	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/newsapi"
	"github.com/iWorld-y/news_research/app/research/pkg/rss"
	"github.com/iWorld-y/news_research/app/research/pkg/search"
	"github.com/iWorld-y/news_research/app/research/pkg/searxng"
	"github.com/iWorld-y/news_research/app/research/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
// 凭证缺失不在这里报错，由 config.MissingCredentials 在每次请求前检查
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	switch cfg.Search.Provider {
	case config.ProviderNewsAPI, "":
		n := cfg.Search.NewsAPI
		return newsapi.NewClient(n.BaseURL, n.APIKey, n.Timeout), nil

	case config.ProviderTavily:
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case config.ProviderSearXNG:
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	case config.ProviderRSS:
		return rss.NewClient(cfg.Search.RSS.BaseURL, cfg.Search.RSS.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Search.Provider)
	}
}
