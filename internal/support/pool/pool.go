// Package pool 提供按尺寸分级（size class）的块分配器
//
// 设计：
//   - 尺寸分级：class = alignUp(n*sizeof(T), 8)/8 - 1，每个 class 一条空闲链（切片当栈用）
//   - Alloc 优先弹出空闲块；空闲链为空时按 Increment 扩容后再弹出
//   - Release 把块压回所属 class，不归还给运行时（生命周期内常驻，换取分配速度）
//   - 超出跟踪范围的 class 透明回退到 make / GC
//
// Heap 不是并发安全的：每个 goroutine 独占一个 Heap，或由调用方加锁。
package pool

import (
	"unsafe"
)

const align = 8

// DefaultMaxClass 默认跟踪的最大 class（4096 → 32KB 块）
const DefaultMaxClass = 4096

// DefaultPrewarm 历史观测的 class 占用表（class → 块数）
//
// 来自字节缓冲的长期统计，仅用于启动预热，避免稳态解析时扩容抖动。
var DefaultPrewarm = map[int]int{
	1: 1336, 4: 2669, 15: 1386, 16: 88, 17: 86, 18: 86,
	19: 54, 20: 26, 21: 4, 22: 2, 159: 435, 191: 502,
}

// Config 分配器配置
type Config struct {
	Increment int         // 空闲链为空时一次扩容的块数（默认 1）
	MaxClass  int         // 跟踪的最大 class，超出回退到运行时（默认 DefaultMaxClass）
	Prewarm   map[int]int // 预热表（class → 块数），可为 nil
}

// DefaultConfig 返回默认配置（不预热）
func DefaultConfig() Config {
	return Config{
		Increment: 1,
		MaxClass:  DefaultMaxClass,
	}
}

// Stats 分配统计
type Stats struct {
	Allocs    uint64 // Alloc 调用次数（不含 n == 0）
	Releases  uint64 // Release 调用次数
	Grows     uint64 // 扩容产生的块数
	Fallbacks uint64 // 超出跟踪范围、回退到运行时的次数
	Pooled    int    // 当前空闲链中的块总数
}

// Heap 元素类型为 T 的分级块分配器
type Heap[T any] struct {
	free  [][][]T // free[class] 空闲块栈
	size  int     // sizeof(T)
	inc   int
	max   int
	stats Stats
}

// New 创建 Heap
func New[T any](cfg Config) *Heap[T] {
	var zero T
	h := &Heap[T]{
		size: int(unsafe.Sizeof(zero)),
		inc:  cfg.Increment,
		max:  cfg.MaxClass,
	}
	if h.size == 0 {
		h.size = 1
	}
	if h.inc <= 0 {
		h.inc = 1
	}
	if h.max <= 0 {
		h.max = DefaultMaxClass
	}
	for class, cnt := range cfg.Prewarm {
		if class < 0 || class >= h.max || cnt <= 0 || h.capacity(class) == 0 {
			continue
		}
		h.ensure(class)
		h.grow(class, cnt)
		h.stats.Grows -= uint64(cnt) // 预热不计入扩容
	}
	return h
}

// ClassOf 返回 size 字节所属的 class（size > 0）
func ClassOf(size int) int {
	return ((size+align-1)&^(align-1))/align - 1
}

// Class 返回 n 个元素所属的 class（n > 0）
func (h *Heap[T]) Class(n int) int {
	return ClassOf(n * h.size)
}

// capacity 返回 class 块可容纳的元素数
func (h *Heap[T]) capacity(class int) int {
	return (class + 1) * align / h.size
}

func (h *Heap[T]) ensure(class int) {
	if class >= len(h.free) {
		nf := make([][][]T, class+1)
		copy(nf, h.free)
		h.free = nf
	}
}

func (h *Heap[T]) grow(class, cnt int) {
	c := h.capacity(class)
	for i := 0; i < cnt; i++ {
		h.free[class] = append(h.free[class], make([]T, c))
	}
	h.stats.Grows += uint64(cnt)
}

// Alloc 分配可容纳 n 个元素的块，返回长度为 n 的零值切片
//
// n == 0 返回 nil。
func (h *Heap[T]) Alloc(n int) []T {
	if n <= 0 {
		return nil
	}
	h.stats.Allocs++
	class := h.Class(n)
	if class >= h.max {
		h.stats.Fallbacks++
		return make([]T, n)
	}
	h.ensure(class)
	if len(h.free[class]) == 0 {
		h.grow(class, h.inc)
	}
	stk := h.free[class]
	b := stk[len(stk)-1]
	stk[len(stk)-1] = nil
	h.free[class] = stk[:len(stk)-1]
	return b[:n]
}

// Release 归还块（按 cap 计算 class），块内容清零后压回空闲链
//
// 超出当前跟踪范围的块交给 GC。
func (h *Heap[T]) Release(b []T) {
	if cap(b) == 0 {
		return
	}
	h.stats.Releases++
	b = b[:cap(b)]
	class := h.Class(len(b))
	if class >= len(h.free) || len(b) < h.capacity(class) {
		h.stats.Fallbacks++
		return
	}
	clear(b)
	h.free[class] = append(h.free[class], b)
}

// New 分配单个元素
func (h *Heap[T]) New() *T {
	return &h.Alloc(1)[0]
}

// Free 归还由 New 分配的单个元素
func (h *Heap[T]) Free(p *T) {
	if p == nil {
		return
	}
	h.Release(unsafe.Slice(p, 1))
}

// Stats 返回统计快照
func (h *Heap[T]) Stats() Stats {
	s := h.stats
	for _, stk := range h.free {
		s.Pooled += len(stk)
	}
	return s
}

// Pooled 返回指定 class 当前空闲块数
func (h *Heap[T]) Pooled(class int) int {
	if class < 0 || class >= len(h.free) {
		return 0
	}
	return len(h.free[class])
}
