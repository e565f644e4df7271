package news

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/iWorld-y/news_research/app/research/pkg/cache"
	"github.com/iWorld-y/news_research/app/research/pkg/logger"
	"github.com/iWorld-y/news_research/app/research/pkg/model"
	"github.com/iWorld-y/news_research/app/research/pkg/search"
)

// MaxArticles 单次最多请求的文章数
const MaxArticles = 100

// Fetcher 按公司名检索最新英文新闻，结果按 (凭证, 公司名, 数量) 记忆化
type Fetcher struct {
	searcher    search.Searcher
	fingerprint string
	memo        *cache.Memo[[]model.ArticleRecord]
}

// NewFetcher 创建 Fetcher，credential 只用于区分缓存 key
func NewFetcher(searcher search.Searcher, credential string, cacheSize int) (*Fetcher, error) {
	memo, err := cache.New[[]model.ArticleRecord](cacheSize)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(credential))
	return &Fetcher{
		searcher:    searcher,
		fingerprint: hex.EncodeToString(sum[:8]),
		memo:        memo,
	}, nil
}

// ClampCount 将文章数限制在 [1, MaxArticles]
func ClampCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > MaxArticles {
		return MaxArticles
	}
	return count
}

// Fetch 返回最新的 count 篇文章，按发布时间倒序
// 出错时返回空切片和错误，由调用方展示给用户；只有成功结果会被缓存
func (f *Fetcher) Fetch(ctx context.Context, company string, count int) ([]model.ArticleRecord, error) {
	company = strings.TrimSpace(company)
	count = ClampCount(count)
	key := fmt.Sprintf("%s|%s|%s|%d", f.searcher.Name(), f.fingerprint, company, count)

	articles, err := f.memo.Do(key, func() ([]model.ArticleRecord, error) {
		return f.fetch(ctx, company, count)
	})
	if err != nil {
		logger.Log.Errorf("获取新闻失败 [%s]: %v", company, err)
		return []model.ArticleRecord{}, err
	}
	return articles, nil
}

func (f *Fetcher) fetch(ctx context.Context, company string, count int) ([]model.ArticleRecord, error) {
	logger.Log.Infof("正在通过 %s 搜索新闻: %s (%d)", f.searcher.Name(), company, count)

	resp, err := f.searcher.Search(ctx, &search.Request{
		Query:      company,
		Topic:      "news",
		Language:   "en",
		SortBy:     "publishedAt",
		MaxResults: count,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", f.searcher.Name(), err)
	}

	seen := make(map[string]struct{}, len(resp.Results))
	articles := make([]model.ArticleRecord, 0, len(resp.Results))
	for _, r := range resp.Results {
		if !isWebURL(r.URL) {
			logger.Log.Debugf("跳过非 http(s) 链接: %q", r.URL)
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		articles = append(articles, model.ArticleRecord{
			Title:       r.Title,
			URL:         r.URL,
			Source:      r.Source,
			PublishedAt: r.PublishedAt,
		})
	}

	// 各新闻源排序语义不同，这里统一按发布时间倒序，无时间的排在最后
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].PublishedAt, articles[j].PublishedAt
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})

	if len(articles) > count {
		articles = articles[:count]
	}
	logger.Log.Infof("新闻搜索完成 [%s]: %d 篇", company, len(articles))
	return articles, nil
}

// 页面会把链接直接放进 href，只接受 http(s) 绝对地址
func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
