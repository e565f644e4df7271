package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/news_research/app/research/pkg/cache"
	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/logger"
	"github.com/iWorld-y/news_research/app/research/pkg/model"
)

// 抓取失败原因
const (
	ReasonInvalidURL    = "invalid_url"
	ReasonRequestFailed = "request_failed"
	ReasonBadStatus     = "bad_status"
	ReasonNotHTML       = "not_html"
	ReasonReadFailed    = "read_failed"
	ReasonParseFailed   = "parse_failed"
	ReasonEmptyContent  = "empty_content"
)

// Scraper 下载文章页面并提取正文，结果按 URL 记忆化
type Scraper struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	memo         *cache.Memo[model.ScrapeResult]
}

// NewScraper 创建 Scraper
func NewScraper(cfg config.ScrapeConfig, cacheSize int) (*Scraper, error) {
	memo, err := cache.New[model.ScrapeResult](cacheSize)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 5 << 20
	}
	return &Scraper{
		client:       &http.Client{Timeout: timeout},
		userAgent:    ua,
		maxBodyBytes: maxBody,
		memo:         memo,
	}, nil
}

// Scrape 抓取并提取正文，任何失败都以 ScrapeResult.OK=false 返回，不会返回错误
func (s *Scraper) Scrape(ctx context.Context, rawURL string) model.ScrapeResult {
	res, err := s.memoScrape(ctx, rawURL)
	// 同 URL 的并发抓取由先到的请求执行，它被取消而本请求仍有效时重试一次
	if err != nil && ctx.Err() == nil {
		logger.Log.Debugf("共享抓取被取消，重试 %s: %v", rawURL, err)
		res, _ = s.memoScrape(ctx, rawURL)
	}
	return res
}

// 错误只用于跳过缓存，结果本身已带失败原因
func (s *Scraper) memoScrape(ctx context.Context, rawURL string) (model.ScrapeResult, error) {
	return s.memo.Do(rawURL, func() (model.ScrapeResult, error) {
		r := s.scrape(ctx, rawURL)
		// 请求被取消时不缓存，下次仍可重试
		if !r.OK && ctx.Err() != nil {
			return r, ctx.Err()
		}
		return r, nil
	})
}

func (s *Scraper) scrape(ctx context.Context, rawURL string) model.ScrapeResult {
	fail := func(reason string, err error) model.ScrapeResult {
		logger.Log.Debugf("原文抓取失败 [%s] %s: %v", rawURL, reason, err)
		return model.ScrapeResult{URL: rawURL, Reason: reason}
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil || (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return fail(ReasonInvalidURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fail(ReasonInvalidURL, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return fail(ReasonRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(ReasonBadStatus, fmt.Errorf("status %d", resp.StatusCode))
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return fail(ReasonNotHTML, fmt.Errorf("content-type %q", resp.Header.Get("Content-Type")))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodyBytes))
	if err != nil {
		return fail(ReasonReadFailed, err)
	}

	// 跟随重定向后以最终地址解析相对链接
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return fail(ReasonParseFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return fail(ReasonEmptyContent, errors.New("no readable text"))
	}

	return model.ScrapeResult{URL: rawURL, Content: text, OK: true}
}

// 缺失 Content-Type 时按 HTML 处理
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
