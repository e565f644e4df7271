package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Search      SearchConfig      `yaml:"search"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Cache       CacheConfig       `yaml:"cache"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig HTTP 监听配置
type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // 秒
}

// EmbeddingConfig 向量化服务配置 (OpenAI 兼容接口)
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SearchConfig 新闻搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	NewsAPI  NewsAPIConfig `yaml:"newsapi"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
	RSS      RSSConfig     `yaml:"rss"`
}

// NewsAPIConfig NewsAPI 配置
type NewsAPIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// RSSConfig Google News RSS 配置
type RSSConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// PipelineConfig 流水线参数
type PipelineConfig struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	QA       QAConfig       `yaml:"qa"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
}

// AnalysisConfig 摘要分析模式参数
type AnalysisConfig struct {
	ArticleCount     int `yaml:"article_count"`
	MinContentLength int `yaml:"min_content_length"`
}

// QAConfig 问答模式参数
type QAConfig struct {
	ArticleCount     int `yaml:"article_count"`
	MinContentLength int `yaml:"min_content_length"`
	ChunkSize        int `yaml:"chunk_size"`
	ChunkOverlap     int `yaml:"chunk_overlap"`
	TopK             int `yaml:"top_k"`
}

// ScrapeConfig 正文抓取参数
type ScrapeConfig struct {
	Timeout      int    `yaml:"timeout"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	UserAgent    string `yaml:"user_agent"`
}

// CacheConfig 记忆化缓存配置
type CacheConfig struct {
	Size int `yaml:"size"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig LLM 调用限流配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DefaultUserAgent 伪装成普通桌面浏览器，降低被反爬拦截的概率
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// LoadConfig 从指定路径加载配置，并叠加 .env / 环境变量中的凭证
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyEnv 使用环境变量覆盖配置文件中的凭证
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Search.NewsAPI.APIKey, "NEWS_API_KEY")
	setFromEnv(&c.Search.Tavily.APIKey, "TAVILY_API_KEY")
	setFromEnv(&c.LLM.APIKey, "GROQ_API_KEY")
	setFromEnv(&c.LLM.BaseURL, "LLM_BASE_URL")
	setFromEnv(&c.LLM.Model, "LLM_MODEL")
	setFromEnv(&c.Embedding.APIKey, "EMBEDDING_API_KEY")
	setFromEnv(&c.Embedding.BaseURL, "EMBEDDING_BASE_URL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ApplyDefaults 为未设置的字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.Server.HTTP.Addr == "" {
		c.Server.HTTP.Addr = "0.0.0.0:8000"
	}
	if c.Server.HTTP.Timeout == "" {
		c.Server.HTTP.Timeout = "300s"
	}

	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama3-8b-8192"
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 120
	}

	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = "http://localhost:11434/v1"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "all-minilm"
	}
	// 本地 Ollama 不校验 key，但 OpenAI 客户端要求非空
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = "ollama"
	}

	if c.Search.Provider == "" {
		c.Search.Provider = ProviderNewsAPI
	}
	if c.Search.NewsAPI.BaseURL == "" {
		c.Search.NewsAPI.BaseURL = "https://newsapi.org"
	}
	if c.Search.RSS.BaseURL == "" {
		c.Search.RSS.BaseURL = "https://news.google.com"
	}

	a := &c.Pipeline.Analysis
	if a.ArticleCount <= 0 {
		a.ArticleCount = 5
	}
	if a.MinContentLength <= 0 {
		a.MinContentLength = 250
	}

	qa := &c.Pipeline.QA
	if qa.ArticleCount <= 0 {
		qa.ArticleCount = 20
	}
	if qa.MinContentLength <= 0 {
		qa.MinContentLength = 500
	}
	if qa.ChunkSize <= 0 {
		qa.ChunkSize = 1000
	}
	// 未配置按 0 处理，取块长的五分之一
	if qa.ChunkOverlap <= 0 || qa.ChunkOverlap >= qa.ChunkSize {
		qa.ChunkOverlap = qa.ChunkSize / 5
	}
	if qa.TopK <= 0 {
		qa.TopK = 4
	}

	s := &c.Pipeline.Scrape
	if s.Timeout <= 0 {
		s.Timeout = 30
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = 5 << 20
	}
	if s.UserAgent == "" {
		s.UserAgent = DefaultUserAgent
	}

	if c.Cache.Size <= 0 {
		c.Cache.Size = 128
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// HTTPTimeout 解析服务端超时，解析失败时返回 0
func (c *Config) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.HTTP.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// 支持的新闻源
const (
	ProviderNewsAPI = "newsapi"
	ProviderTavily  = "tavily"
	ProviderSearXNG = "searxng"
	ProviderRSS     = "rss"
)

// Credential 凭证在界面上展示的名称
const (
	CredentialNewsAPI = "NEWS_API_KEY"
	CredentialTavily  = "TAVILY_API_KEY"
	CredentialLLM     = "GROQ_API_KEY"
)

// NewsCredential 返回当前新闻源使用的凭证及其名称，无需凭证的新闻源返回空名称
func (c *Config) NewsCredential() (name, value string) {
	switch c.Search.Provider {
	case ProviderNewsAPI:
		return CredentialNewsAPI, c.Search.NewsAPI.APIKey
	case ProviderTavily:
		return CredentialTavily, c.Search.Tavily.APIKey
	default:
		return "", ""
	}
}

// MissingCredentials 返回缺失的必需凭证名称
func (c *Config) MissingCredentials() []string {
	var missing []string
	if name, value := c.NewsCredential(); name != "" && value == "" {
		missing = append(missing, name)
	}
	if c.LLM.APIKey == "" {
		missing = append(missing, CredentialLLM)
	}
	return missing
}
