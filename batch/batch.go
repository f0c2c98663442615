// Package batch 多文档并发解析
//
// 基于 ants 协程池，每个 worker 独占一个 Arena 与 Parser：
// Arena 无同步，只要同一时刻只有一个 goroutine 使用即可安全复用。
// 文档解析成功后依次交给 Handler（可经 Middleware 包装），返回后根值立即释放，
// Handler 不得在返回后继续持有树中的任何指针。
//
//	b, _ := batch.New(nil)
//	defer b.Close()
//	res, err := b.Do(ctx, docs, func(d *batch.Doc) error {
//	    total += d.Root.GetInt64("count")
//	    return nil
//	})
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/uniyakcom/tjson/json"
	"github.com/uniyakcom/tjson/util"
)

// Doc 一个已解析的文档
type Doc struct {
	Index int         // 在输入中的下标
	Src   []byte      // 原始输入
	Root  *json.Value // 解析结果，Handler 返回后失效

	ctx context.Context
}

// Context 返回文档处理的 context
func (d *Doc) Context() context.Context {
	if d.ctx == nil {
		return context.Background()
	}
	return d.ctx
}

// SetContext 替换文档处理的 context（供中间件设置超时）
func (d *Doc) SetContext(ctx context.Context) { d.ctx = ctx }

// Handler 文档处理函数
type Handler func(d *Doc) error

// Middleware 包装 Handler
type Middleware func(Handler) Handler

// Chain 按顺序应用中间件：mws[0] 在最外层
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// PanicError Handler panic 转换的错误
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}

// Result 单个文档的处理结果
type Result struct {
	Index    int
	Bytes    int
	Duration time.Duration
	Err      error // 解析错误（*json.SyntaxError）或 Handler 错误
}

// Config 批量解析配置
type Config struct {
	Workers    int              // 并发 worker 数（默认 runtime.NumCPU()）
	Parse      json.Config      // 解析配置（Arena 字段忽略，每个 worker 独占）
	Arena      json.ArenaConfig // 每个 worker 的 Arena 配置
	Middleware []Middleware     // Handler 中间件
	Logger     *slog.Logger     // 默认 slog.Default()
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Parse:   *json.DefaultConfig(),
		Arena:   json.DefaultArenaConfig(),
	}
}

// worker 一个 worker 独占的解析资源
type worker struct {
	arena  *json.Arena
	parser *json.Parser
}

// Batch 批量解析器
type Batch struct {
	pool    *ants.Pool
	workers chan *worker
	mws     []Middleware
	logger  *slog.Logger

	docs   *util.PerCPUCounter
	failed *util.PerCPUCounter
	bytes  *util.PerCPUCounter
	panics *util.PerCPUCounter
}

// New 创建批量解析器
func New(cfg *Config) (*Batch, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	n := cfg.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// worker 内部自行 recover，ants 的 panic 处理只作兜底
	p, err := ants.NewPool(n, ants.WithPreAlloc(true), ants.WithPanicHandler(func(r any) {
		logger.Error("batch worker panic", "panic", r)
	}))
	if err != nil {
		return nil, fmt.Errorf("batch: new pool: %w", err)
	}

	b := &Batch{
		pool:    p,
		workers: make(chan *worker, n),
		mws:     cfg.Middleware,
		logger:  logger,
		docs:    util.NewPerCPUCounter(),
		failed:  util.NewPerCPUCounter(),
		bytes:   util.NewPerCPUCounter(),
		panics:  util.NewPerCPUCounter(),
	}
	for i := 0; i < n; i++ {
		a := json.NewArena(cfg.Arena)
		pc := cfg.Parse
		pc.Arena = a
		b.workers <- &worker{arena: a, parser: json.NewParser(&pc)}
	}
	return b, nil
}

// Do 并发解析 docs，对每个成功解析的文档调用 fn（fn 可为 nil）
//
// 结果与 docs 一一对应。ctx 取消后尚未开始的文档以 ctx.Err() 结束。
// 返回的 error 合并了全部失败文档的错误。
func (b *Batch) Do(ctx context.Context, docs [][]byte, fn Handler) ([]Result, error) {
	if fn != nil && len(b.mws) > 0 {
		fn = Chain(fn, b.mws...)
	}
	results := make([]Result, len(docs))
	start := time.Now()

	var wg sync.WaitGroup
	for i, src := range docs {
		results[i].Index = i
		results[i].Bytes = len(src)
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		i, src := i, src
		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			w := <-b.workers
			defer func() { b.workers <- w }()
			b.run(ctx, w, &results[i], src, fn)
		})
		if err != nil {
			wg.Done()
			results[i].Err = fmt.Errorf("batch: doc %d: %w", i, err)
		}
	}
	wg.Wait()

	var errs []error
	for i := range results {
		if results[i].Err != nil {
			errs = append(errs, results[i].Err)
		}
	}
	b.logger.Info("batch done",
		"docs", len(docs),
		"failed", len(errs),
		"duration", time.Since(start),
	)
	return results, errors.Join(errs...)
}

// run 在 worker 上解析并处理单个文档
func (b *Batch) run(ctx context.Context, w *worker, r *Result, src []byte, fn Handler) {
	if err := ctx.Err(); err != nil {
		r.Err = err
		return
	}
	begin := time.Now()
	b.docs.Add(1)
	b.bytes.Add(int64(len(src)))

	var root json.Value
	defer func() {
		if p := recover(); p != nil {
			b.panics.Add(1)
			r.Err = fmt.Errorf("batch: doc %d: %w", r.Index, &PanicError{Value: p})
		}
		root.Release()
		r.Duration = time.Since(begin)
		if r.Err != nil {
			b.failed.Add(1)
			b.logger.Debug("batch doc failed", "index", r.Index, "error", r.Err)
		}
	}()

	if err := w.parser.Parse(src, &root); err != nil {
		r.Err = fmt.Errorf("batch: doc %d: %w", r.Index, err)
		return
	}
	if fn == nil {
		return
	}
	d := &Doc{Index: r.Index, Src: src, Root: &root, ctx: ctx}
	if err := fn(d); err != nil {
		r.Err = fmt.Errorf("batch: doc %d: %w", r.Index, err)
	}
}

// Stats 累计统计
type Stats struct {
	Docs   int64 // 开始解析的文档数
	Failed int64 // 解析或处理失败数
	Bytes  int64 // 输入字节数
	Panics int64 // Handler panic 次数
}

// Stats 返回累计统计快照
func (b *Batch) Stats() Stats {
	return Stats{
		Docs:   b.docs.Read(),
		Failed: b.failed.Read(),
		Bytes:  b.bytes.Read(),
		Panics: b.panics.Read(),
	}
}

// ArenaStats 返回每个 worker 的 Arena 统计
//
// 需要取回全部 worker，会等待正在进行的文档处理完成。
func (b *Batch) ArenaStats() []json.ArenaStats {
	n := cap(b.workers)
	ws := make([]*worker, 0, n)
	for i := 0; i < n; i++ {
		ws = append(ws, <-b.workers)
	}
	out := make([]json.ArenaStats, 0, n)
	for _, w := range ws {
		out = append(out, w.arena.Stats())
		b.workers <- w
	}
	return out
}

// Workers 返回 worker 数
func (b *Batch) Workers() int { return cap(b.workers) }

// Close 释放协程池（Do 为同步调用，返回后无在途任务）
func (b *Batch) Close() {
	b.pool.Release()
}
