// Package vectorindex 内存向量索引，按余弦相似度检索片段。
package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/iWorld-y/news_research/app/research/pkg/model"
)

// ErrDimension 向量维度与索引不一致
var ErrDimension = errors.New("vector dimension mismatch")

// Hit 检索结果
type Hit struct {
	Chunk model.Chunk
	Score float64
}

type row struct {
	chunk model.Chunk
	vec   []float32
	norm  float64
}

// Index 并发安全的内存索引，进程退出即丢失
type Index struct {
	mu   sync.RWMutex
	dim  int
	rows []row
}

// New 创建空索引，维度由第一次 Add 决定
func New() *Index {
	return &Index{}
}

// Add 批量写入片段及其向量，两者一一对应
func (ix *Index) Add(chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length differ: %d != %d", len(chunks), len(vectors))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	dim := ix.dim
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %d", ErrDimension, chunks[i].Index)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(v), dim)
		}
	}

	ix.dim = dim
	for i, v := range vectors {
		ix.rows = append(ix.rows, row{chunk: chunks[i], vec: v, norm: norm(v)})
	}
	return nil
}

// Len 返回已索引的片段数
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.rows)
}

// Dim 返回向量维度，空索引为 0
func (ix *Index) Dim() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dim
}

// Search 返回与 query 最相似的 k 个片段，相似度降序，相同时按片段序号升序
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if k <= 0 || len(ix.rows) == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimension, len(query), ix.dim)
	}

	qn := norm(query)
	hits := make([]Hit, 0, len(ix.rows))
	for _, r := range ix.rows {
		hits = append(hits, Hit{Chunk: r.chunk, Score: cosine(query, qn, r.vec, r.norm)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Index < hits[j].Chunk.Index
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// 零向量相似度记为 0
func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (an * bn)
}
