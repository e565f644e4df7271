package server

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/news_research/app/research/internal/service"
	"github.com/iWorld-y/news_research/app/research/internal/usecase"
	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/knowledge"
	"github.com/iWorld-y/news_research/app/research/pkg/model"
	"github.com/iWorld-y/news_research/app/research/pkg/textsplit"
)

type emptyFetcher struct{ calls int }

func (f *emptyFetcher) Fetch(context.Context, string, int) ([]model.ArticleRecord, error) {
	f.calls++
	return []model.ArticleRecord{}, nil
}

type noScraper struct{}

func (noScraper) Scrape(_ context.Context, url string) model.ScrapeResult {
	return model.ScrapeResult{URL: url, Reason: "bad_status"}
}

type panicGenerator struct{}

func (panicGenerator) Analyze(context.Context, string, string) (string, error) {
	panic("unreachable")
}

func (panicGenerator) Answer(context.Context, string, string, []string) (string, error) {
	panic("unreachable")
}

type nopEmbedder struct{}

func (nopEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func (nopEmbedder) EmbedQuery(context.Context, string) ([]float32, error) { return nil, nil }

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *emptyFetcher) {
	t.Helper()
	fetcher := &emptyFetcher{}
	builder, err := knowledge.NewBuilder(nopEmbedder{}, textsplit.New(0, 0), 4)
	require.NoError(t, err)
	uc := usecase.NewResearchUseCase(cfg, fetcher, noScraper{}, panicGenerator{}, builder, log.DefaultLogger)
	srv := NewHTTPServer(cfg, service.NewResearchService(uc, log.DefaultLogger), log.DefaultLogger)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, fetcher
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Search.NewsAPI.APIKey = "news"
	cfg.ApplyDefaults()
	return cfg
}

func postJSON(t *testing.T, url, body string) (*nethttp.Response, map[string]any) {
	t.Helper()
	resp, err := nethttp.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(data, &out)
	return resp, out
}

func TestIndexPage(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	resp, err := nethttp.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	page := string(body)
	assert.Contains(t, page, `value="NVIDIA"`)
	assert.Contains(t, page, "Analyze News")
	assert.Contains(t, page, "NEWS_API_KEY loaded.")
	assert.Contains(t, page, "GROQ_API_KEY not found.")
	assert.Contains(t, page, "marked")
}

func TestIndexPage_SanitizesRenderedMarkdown(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	resp, err := nethttp.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)

	assert.Contains(t, page, "purify.min.js")
	assert.Contains(t, page, "DOMPurify.sanitize(marked.parse(markdown))")
	assert.NotContains(t, page, "innerHTML = markdown ? marked.parse")
	// 文章链接只接受 http(s)
	assert.Contains(t, page, "if (isWebURL(a.url))")
	assert.Contains(t, page, "canceled: 'warn'")
}

func TestStatusEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	resp, err := nethttp.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Provider    string `json:"provider"`
		Ready       bool   `json:"ready"`
		Credentials []struct {
			Name   string `json:"name"`
			Loaded bool   `json:"loaded"`
		} `json:"credentials"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "newsapi", out.Provider)
	assert.False(t, out.Ready)
	assert.Len(t, out.Credentials, 2)
}

func TestAnalyzeEndpoint_Halts(t *testing.T) {
	cfg := testConfig()
	ts, fetcher := newTestServer(t, cfg)

	resp, out := postJSON(t, ts.URL+"/api/v1/analyze", `{"company":"  "}`)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "invalid_input", out["status"])
	assert.Equal(t, usecase.MsgEmptyCompany, out["message"])
	assert.NotEmpty(t, out["run_id"])

	resp, out = postJSON(t, ts.URL+"/api/v1/analyze", `{"company":"NVIDIA"}`)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "missing_credentials", out["status"])
	assert.Equal(t, 0, fetcher.calls)

	cfg.LLM.APIKey = "groq"
	_, out = postJSON(t, ts.URL+"/api/v1/analyze", `{"company":"NVIDIA"}`)
	assert.Equal(t, "no_articles", out["status"])
	assert.Equal(t, usecase.MsgNoArticles, out["message"])
	assert.Equal(t, 1, fetcher.calls)
}

func TestAskEndpoint_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = "groq"
	ts, _ := newTestServer(t, cfg)

	_, out := postJSON(t, ts.URL+"/api/v1/ask", `{"company":"NVIDIA","question":""}`)
	assert.Equal(t, "invalid_input", out["status"])
	assert.Equal(t, usecase.MsgEmptyQuestion, out["message"])

	_, out = postJSON(t, ts.URL+"/api/v1/knowledge", `{"company":"NVIDIA"}`)
	assert.Equal(t, "no_articles", out["status"])
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	ts, fetcher := newTestServer(t, testConfig())

	resp, _ := postJSON(t, ts.URL+"/api/v1/analyze", `{"company":`)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, fetcher.calls)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	ts, _ := newTestServer(t, testConfig())

	resp, err := nethttp.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestPipelineProviders(t *testing.T) {
	cfg := testConfig()
	cfg.Search.Provider = config.ProviderRSS

	fetcher, err := NewArticleFetcher(cfg, log.DefaultLogger)
	require.NoError(t, err)
	assert.NotNil(t, fetcher)

	s, err := NewScraper(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)

	eng, err := NewEngine(cfg)
	require.NoError(t, err)
	assert.NotNil(t, eng)

	kb, err := NewKnowledgeBuilder(cfg)
	require.NoError(t, err)
	assert.NotNil(t, kb)
}
