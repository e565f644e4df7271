package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NEWS_API_KEY", "TAVILY_API_KEY", "GROQ_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "EMBEDDING_API_KEY", "EMBEDDING_BASE_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearCredentialEnv(t)
	path := writeConfig(t, "log:\n  level: debug\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ProviderNewsAPI, cfg.Search.Provider)
	assert.Equal(t, 5, cfg.Pipeline.Analysis.ArticleCount)
	assert.Equal(t, 250, cfg.Pipeline.Analysis.MinContentLength)
	assert.Equal(t, 20, cfg.Pipeline.QA.ArticleCount)
	assert.Equal(t, 500, cfg.Pipeline.QA.MinContentLength)
	assert.Equal(t, 1000, cfg.Pipeline.QA.ChunkSize)
	assert.Equal(t, 200, cfg.Pipeline.QA.ChunkOverlap)
	assert.Equal(t, 4, cfg.Pipeline.QA.TopK)
	assert.Equal(t, DefaultUserAgent, cfg.Pipeline.Scrape.UserAgent)
	assert.Equal(t, "llama3-8b-8192", cfg.LLM.Model)
	assert.Equal(t, 128, cfg.Cache.Size)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearCredentialEnv(t)
	path := writeConfig(t, `
llm:
  api_key: from-file
search:
  newsapi:
    api_key: news-from-file
`)
	t.Setenv("GROQ_API_KEY", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "news-from-file", cfg.Search.NewsAPI.APIKey)
	assert.Empty(t, cfg.MissingCredentials())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "llm: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "newsapi and llm missing",
			cfg:  Config{Search: SearchConfig{Provider: ProviderNewsAPI}},
			want: []string{CredentialNewsAPI, CredentialLLM},
		},
		{
			name: "tavily key present",
			cfg: Config{
				Search: SearchConfig{Provider: ProviderTavily, Tavily: TavilyConfig{APIKey: "k"}},
				LLM:    LLMConfig{APIKey: "k"},
			},
			want: nil,
		},
		{
			name: "rss needs no news key",
			cfg:  Config{Search: SearchConfig{Provider: ProviderRSS}},
			want: []string{CredentialLLM},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.MissingCredentials())
		})
	}
}

func TestApplyDefaults_ClampsOverlap(t *testing.T) {
	cfg := Config{Pipeline: PipelineConfig{QA: QAConfig{ChunkSize: 100, ChunkOverlap: 150}}}
	cfg.ApplyDefaults()
	assert.Equal(t, 20, cfg.Pipeline.QA.ChunkOverlap)
}

func TestLoadConfig_OverlapDefaultsFromChunkSize(t *testing.T) {
	clearCredentialEnv(t)
	path := writeConfig(t, "pipeline:\n  qa:\n    chunk_size: 1000\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Pipeline.QA.ChunkSize)
	assert.Equal(t, 200, cfg.Pipeline.QA.ChunkOverlap)

	path = writeConfig(t, "pipeline:\n  qa:\n    chunk_size: 500\n    chunk_overlap: 0\n")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Pipeline.QA.ChunkOverlap)
}
