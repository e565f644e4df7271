package search

import (
	"context"
	"time"
)

// Searcher 定义通用的新闻搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
	Name() string
}

// Request 通用搜索请求
type Request struct {
	Query      string
	Topic      string // "news" or "general"
	Language   string // ISO-639-1, 例如 "en"
	SortBy     string // "publishedAt" / "relevancy"
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title       string
	URL         string
	Content     string
	Source      string
	PublishedAt time.Time
}

// ParseTime 尝试按常见格式解析各家接口返回的发布时间，失败返回零值
func ParseTime(s string) time.Time {
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		time.RFC1123Z,
		time.RFC1123,
		time.DateOnly,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
