package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/news_research/app/research/pkg/config"
)

func TestNewSearcher(t *testing.T) {
	tests := []struct {
		provider string
		searxURL string
		wantName string
		wantErr  bool
	}{
		{provider: "", wantName: "newsapi"},
		{provider: config.ProviderNewsAPI, wantName: "newsapi"},
		{provider: config.ProviderTavily, wantName: "tavily"},
		{provider: config.ProviderSearXNG, searxURL: "http://localhost:8888", wantName: "searxng"},
		{provider: config.ProviderSearXNG, wantErr: true},
		{provider: config.ProviderRSS, wantName: "rss"},
		{provider: "bing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider+tt.wantName, func(t *testing.T) {
			cfg := &config.Config{Search: config.SearchConfig{
				Provider: tt.provider,
				SearXNG:  config.SearXNGConfig{BaseURL: tt.searxURL},
			}}
			s, err := NewSearcher(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}
