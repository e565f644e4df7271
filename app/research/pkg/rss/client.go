package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/search"
)

// Client 基于 Google News RSS 搜索的新闻源，不需要 API key
type Client struct {
	baseURL string
	parser  *gofeed.Parser
}

// NewClient 创建 RSS 客户端
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	fp := gofeed.NewParser()
	fp.UserAgent = config.DefaultUserAgent
	fp.Client = &http.Client{Timeout: t}
	return &Client{baseURL: baseURL, parser: fp}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Name implements search.Searcher
func (c *Client) Name() string {
	return "rss"
}

// FeedURL 构造搜索 feed 地址
func (c *Client) FeedURL(req *search.Request) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/rss/search"

	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	q := u.Query()
	q.Set("q", req.Query)
	q.Set("hl", lang+"-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:"+lang)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	feedURL, err := c.FeedURL(req)
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed failed: %w", err)
	}

	var results []search.Result
	for _, item := range feed.Items {
		if req.MaxResults > 0 && len(results) >= req.MaxResults {
			break
		}
		if item.Link == "" {
			continue
		}
		r := search.Result{
			Title:   item.Title,
			URL:     item.Link,
			Content: item.Description,
			Source:  feed.Title,
		}
		if item.PublishedParsed != nil {
			r.PublishedAt = *item.PublishedParsed
		}
		results = append(results, r)
	}

	return &search.Response{Results: results}, nil
}
