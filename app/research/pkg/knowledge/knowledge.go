// Package knowledge 把语料构建成可检索的内存知识库。
package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/iWorld-y/news_research/app/research/pkg/cache"
	"github.com/iWorld-y/news_research/app/research/pkg/config"
	"github.com/iWorld-y/news_research/app/research/pkg/logger"
	"github.com/iWorld-y/news_research/app/research/pkg/model"
	"github.com/iWorld-y/news_research/app/research/pkg/textsplit"
	"github.com/iWorld-y/news_research/app/research/pkg/vectorindex"
)

// DefaultTopK 默认检索片段数
const DefaultTopK = 4

// ErrEmptyCorpus 语料为空，无法构建知识库
var ErrEmptyCorpus = errors.New("empty corpus")

// NewEmbedder 基于 OpenAI 兼容接口创建向量化客户端
func NewEmbedder(cfg config.EmbeddingConfig) (embeddings.Embedder, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init embedding client: %w", err)
	}
	emb, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return emb, nil
}

// Base 一份语料对应的知识库
type Base struct {
	Chunks []model.Chunk

	index    *vectorindex.Index
	embedder embeddings.Embedder
}

// Retrieve 返回与问题最相关的 k 个片段，k<=0 时使用 DefaultTopK
func (kb *Base) Retrieve(ctx context.Context, question string, k int) ([]vectorindex.Hit, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	vec, err := kb.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	return kb.index.Search(vec, k)
}

// Builder 切分、向量化并建立索引，相同语料只构建一次
type Builder struct {
	embedder embeddings.Embedder
	splitter *textsplit.Splitter
	memo     *cache.Memo[*Base]
}

// NewBuilder 创建 Builder
func NewBuilder(embedder embeddings.Embedder, splitter *textsplit.Splitter, cacheSize int) (*Builder, error) {
	memo, err := cache.New[*Base](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Builder{embedder: embedder, splitter: splitter, memo: memo}, nil
}

// Build 以语料的 SHA-256 为 key 构建或复用知识库
func (b *Builder) Build(ctx context.Context, text string) (*Base, error) {
	if text == "" {
		return nil, ErrEmptyCorpus
	}
	sum := sha256.Sum256([]byte(text))
	return b.memo.Do(hex.EncodeToString(sum[:]), func() (*Base, error) {
		return b.build(ctx, text)
	})
}

func (b *Builder) build(ctx context.Context, text string) (*Base, error) {
	start := time.Now()
	chunks := b.splitter.Split(text)

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}
	vectors, err := b.embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	index := vectorindex.New()
	if err := index.Add(chunks, vectors); err != nil {
		return nil, err
	}

	logger.Log.Infof("知识库构建完成: %d 个片段, 维度 %d, 耗时 %v", len(chunks), index.Dim(), time.Since(start))
	return &Base{Chunks: chunks, index: index, embedder: b.embedder}, nil
}
