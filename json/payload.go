package json

import (
	"bytes"
	"unsafe"

	"github.com/uniyakcom/tjson/internal/support/pool"
)

// ArrayInitSize 数组首次追加时的初始容量
const ArrayInitSize = 64

// MapInitSize 对象首次插入时的初始容量
const MapInitSize = 32

// ─── Arena ───

// Arena 一棵（或多棵）Value 树的全部分配来源
//
// 按负载类型分别持有分级 Heap：字符串字节、数组元素、对象条目，
// 以及三种共享负载头。负载释放时回到创建它的 Arena。
// Arena 不是并发安全的。
type Arena struct {
	bytes   *pool.Heap[byte]
	values  *pool.Heap[Value]
	entries *pool.Heap[entry]
	texts   *pool.Heap[text]
	seqs    *pool.Heap[sequence]
	tables  *pool.Heap[table]
}

// ArenaConfig Arena 配置
type ArenaConfig struct {
	Increment int  // 空闲链为空时一次扩容的块数（默认 1）
	MaxClass  int  // 跟踪的最大 size class，超出回退到运行时（默认 4096）
	Prewarm   bool // 是否按历史占用表预热
}

// DefaultArenaConfig 返回默认 Arena 配置（预热）
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{Increment: 1, MaxClass: pool.DefaultMaxClass, Prewarm: true}
}

// NewArena 创建独立 Arena
func NewArena(cfg ArenaConfig) *Arena {
	base := pool.Config{Increment: cfg.Increment, MaxClass: cfg.MaxClass}
	warm := func(table map[int]int) pool.Config {
		c := base
		if cfg.Prewarm {
			c.Prewarm = table
		}
		return c
	}
	return &Arena{
		bytes: pool.New[byte](warm(pool.DefaultPrewarm)),
		// 容器初始容量所在 class 一并预热
		values:  pool.New[Value](warm(map[int]int{pool.ClassOf(ArrayInitSize * int(unsafe.Sizeof(Value{}))): 64})),
		entries: pool.New[entry](warm(map[int]int{pool.ClassOf(MapInitSize * int(unsafe.Sizeof(entry{}))): 64})),
		texts:   pool.New[text](warm(map[int]int{pool.ClassOf(int(unsafe.Sizeof(text{}))): 1024})),
		seqs:    pool.New[sequence](base),
		tables:  pool.New[table](base),
	}
}

// HeapStats 单个分级 Heap 的统计
type HeapStats = pool.Stats

// ArenaStats 各 Heap 的统计
type ArenaStats struct {
	Bytes, Values, Entries, Headers HeapStats
}

// Stats 返回统计快照
func (a *Arena) Stats() ArenaStats {
	t, s, m := a.texts.Stats(), a.seqs.Stats(), a.tables.Stats()
	return ArenaStats{
		Bytes:   a.bytes.Stats(),
		Values:  a.values.Stats(),
		Entries: a.entries.Stats(),
		Headers: HeapStats{
			Allocs:    t.Allocs + s.Allocs + m.Allocs,
			Releases:  t.Releases + s.Releases + m.Releases,
			Grows:     t.Grows + s.Grows + m.Grows,
			Fallbacks: t.Fallbacks + s.Fallbacks + m.Fallbacks,
			Pooled:    t.Pooled + s.Pooled + m.Pooled,
		},
	}
}

// 进程级默认 Arena（无同步，单线程使用）
var defaultArena = NewArena(DefaultArenaConfig())

// DefaultArena 返回进程级默认 Arena
func DefaultArena() *Arena { return defaultArena }

// ─── text: 字符串缓冲 ───

type text struct {
	ref   int
	buf   []byte
	arena *Arena
}

func (a *Arena) newText(b []byte) *text {
	t := a.texts.New()
	t.ref = 1
	t.arena = a
	t.buf = a.bytes.Alloc(len(b))
	copy(t.buf, b)
	return t
}

func (t *text) equal(k []byte) bool {
	return len(t.buf) == len(k) && bytes.Equal(t.buf, k)
}

func (t *text) release() {
	t.ref--
	if t.ref > 0 {
		return
	}
	a := t.arena
	a.bytes.Release(t.buf)
	a.texts.Free(t)
}

// ─── sequence: 数组元素 ───

type sequence struct {
	ref   int
	n     int
	buf   []Value // len(buf) 即容量
	arena *Arena
}

func (a *Arena) newSequence() *sequence {
	q := a.seqs.New()
	q.ref = 1
	q.arena = a
	return q
}

// push 追加一个零值元素并返回其指针
//
// 扩容按 2*n+1，旧元素按位搬迁（不经过 Release），旧块直接归还。
func (q *sequence) push() *Value {
	if q.buf == nil {
		q.buf = q.arena.values.Alloc(ArrayInitSize)
	} else if q.n+1 > len(q.buf) {
		nb := q.arena.values.Alloc(2*q.n + 1)
		copy(nb, q.buf[:q.n])
		q.arena.values.Release(q.buf)
		q.buf = nb
	}
	q.n++
	return &q.buf[q.n-1]
}

func (q *sequence) release() {
	q.ref--
	if q.ref > 0 {
		return
	}
	for i := 0; i < q.n; i++ {
		q.buf[i].Release()
	}
	a := q.arena
	a.values.Release(q.buf)
	a.seqs.Free(q)
}

// ─── table: 对象键值对 ───

type entry struct {
	key   *text
	value Value
}

type table struct {
	ref   int
	n     int
	buf   []entry
	arena *Arena
}

func (a *Arena) newTable() *table {
	m := a.tables.New()
	m.ref = 1
	m.arena = a
	return m
}

// find 线性扫描（先比长度再比字节）
func (m *table) find(k []byte) *Value {
	for i := 0; i < m.n; i++ {
		if m.buf[i].key.equal(k) {
			return &m.buf[i].value
		}
	}
	return nil
}

// slot 查找或插入 key，返回值槽位
func (m *table) slot(k []byte) *Value {
	if v := m.find(k); v != nil {
		return v
	}
	if m.buf == nil {
		m.buf = m.arena.entries.Alloc(MapInitSize)
	} else if m.n+1 > len(m.buf) {
		nb := m.arena.entries.Alloc(2*m.n + 1)
		copy(nb, m.buf[:m.n])
		m.arena.entries.Release(m.buf)
		m.buf = nb
	}
	e := &m.buf[m.n]
	e.key = m.arena.newText(k)
	m.n++
	return &e.value
}

func (m *table) release() {
	m.ref--
	if m.ref > 0 {
		return
	}
	for i := 0; i < m.n; i++ {
		m.buf[i].key.release()
		m.buf[i].value.Release()
	}
	a := m.arena
	a.entries.Release(m.buf)
	a.tables.Free(m)
}
