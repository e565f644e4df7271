package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/news_research/app/research/pkg/search"
)

const (
	defaultBaseURL = "https://newsapi.org"
	everythingPath = "/v2/everything"
	// MaxPageSize NewsAPI 单页最多返回 100 条
	MaxPageSize = 100
	// 响应体读取上限
	maxResponseBytes = 5 << 20
)

// Client NewsAPI 客户端
type Client struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	maxBytes int64
}

// NewClient 创建一个新的 NewsAPI 客户端
func NewClient(baseURL, apiKey string, timeout int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: t},
		maxBytes: maxResponseBytes,
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// APIError NewsAPI 返回的业务错误
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi error (status %d): %s: %s", e.StatusCode, e.Code, e.Message)
}

// ErrMissingAPIKey 未配置 NewsAPI key
var ErrMissingAPIKey = errors.New("newsapi api key is missing")

// EverythingResponse /v2/everything 响应
type EverythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

// Article 单篇文章
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Source 文章来源
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Name implements search.Searcher
func (c *Client) Name() string {
	return "newsapi"
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = everythingPath

	pageSize := req.MaxResults
	if pageSize <= 0 {
		pageSize = 5
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "publishedAt"
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	q := u.Query()
	q.Set("q", req.Query)
	q.Set("sortBy", sortBy)
	q.Set("language", language)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		// url.Error 会带上完整 URL (含 apiKey)
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	var er EverythingResponse
	decodeErr := json.Unmarshal(body, &er)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: string(body)}
		if decodeErr == nil && er.Code != "" {
			apiErr.Code = er.Code
			apiErr.Message = er.Message
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", decodeErr)
	}
	if er.Status == "error" {
		return nil, &APIError{StatusCode: res.StatusCode, Code: er.Code, Message: er.Message}
	}

	results := make([]search.Result, 0, len(er.Articles))
	for _, a := range er.Articles {
		// NewsAPI 对已下架的文章返回 "[Removed]"
		if a.URL == "" || a.Title == "[Removed]" {
			continue
		}
		results = append(results, search.Result{
			Title:       a.Title,
			URL:         a.URL,
			Content:     a.Description,
			Source:      a.Source.Name,
			PublishedAt: search.ParseTime(a.PublishedAt),
		})
	}

	return &search.Response{Results: results}, nil
}
