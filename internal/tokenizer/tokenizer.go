// Package tokenizer 提供 LLM token 计数能力。
// 整次分析必须使用同一种编码，否则各文件的 token 数不可比较。
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding 是默认使用的编码（GPT-4 系列使用的 cl100k_base）。
const DefaultEncoding = "cl100k_base"

// Counter 定义 token 计数接口。
type Counter interface {
	// Count 返回文本的 token 数。
	Count(text string) int
}

// CounterFunc 让普通函数满足 Counter 接口，测试中常用。
type CounterFunc func(text string) int

// Count 调用函数本身。
func (f CounterFunc) Count(text string) int {
	return f(text)
}

var loaderOnce sync.Once

// Tiktoken 是基于 tiktoken BPE 编码的计数器。
type Tiktoken struct {
	encoding string
	// 编码器内部状态不保证并发安全，统一加锁。
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTiktoken 加载指定编码。BPE 词表使用离线内置数据，不访问网络。
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Tiktoken{encoding: encoding, enc: enc}, nil
}

// Encoding 返回编码名称。
func (t *Tiktoken) Encoding() string {
	return t.encoding
}

// Count 对原始文本编码并返回 token 数。特殊 token 按普通文本处理。
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.enc.Encode(text, nil, nil))
}
