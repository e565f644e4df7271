// Package cache 提供按参数记忆化的有界缓存，替代交互式页面框架自带的结果缓存。
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Memo 以字符串为 key 的有界记忆化缓存
// 相同 key 的并发调用只执行一次 fn，fn 返回错误时结果不缓存
type Memo[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// New 创建容量为 size 的缓存
func New[V any](size int) (*Memo[V], error) {
	entries, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Memo[V]{entries: entries}, nil
}

// Do 返回 key 对应的缓存值，不存在时调用 fn 计算
// fn 闭包捕获的是首个调用方的 context，该调用方取消时并发等待的调用方会拿到同一个错误。
// 调用方可据此判断失败是否来自自己的 context，必要时自行重试
func (m *Memo[V]) Do(key string, fn func() (V, error)) (V, error) {
	if v, ok := m.entries.Get(key); ok {
		m.hits.Add(1)
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		// 等待期间可能已被其它调用写入
		if v, ok := m.entries.Get(key); ok {
			m.hits.Add(1)
			return v, nil
		}
		m.misses.Add(1)
		v, err := fn()
		if err != nil {
			return v, err
		}
		m.entries.Add(key, v)
		return v, nil
	})
	v, _ := res.(V)
	return v, err
}

// Get 只读查询
func (m *Memo[V]) Get(key string) (V, bool) {
	return m.entries.Get(key)
}

// Len 当前缓存条目数
func (m *Memo[V]) Len() int {
	return m.entries.Len()
}

// Purge 清空缓存
func (m *Memo[V]) Purge() {
	m.entries.Purge()
}

// Stats 命中与未命中次数
func (m *Memo[V]) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
