package tokenizer

import (
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached 按内容摘要缓存 token 数，重复的文件（拷贝的依赖、生成代码）只编码一次。
type Cached struct {
	next  Counter
	cache *lru.Cache[[sha256.Size]byte, int]
}

// NewCached 用给定容量包装计数器。size <= 0 时直接返回原计数器。
func NewCached(next Counter, size int) (Counter, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[[sha256.Size]byte, int](size)
	if err != nil {
		return nil, fmt.Errorf("create token cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Count 先查缓存，未命中时调用下层计数器并写回。
func (c *Cached) Count(text string) int {
	key := sha256.Sum256([]byte(text))
	if count, ok := c.cache.Get(key); ok {
		return count
	}
	count := c.next.Count(text)
	c.cache.Add(key, count)
	return count
}

// Len 返回当前缓存条目数。
func (c *Cached) Len() int {
	return c.cache.Len()
}
