// Package optimize 提供解析场景配置和推荐
package optimize

import (
	"runtime"
)

// Profile 解析场景Profile
type Profile struct {
	Name     string // 场景名称
	Cores    int    // CPU核心数
	Workers  int    // 并发 worker 数（0 = 单 goroutine 解析）
	Strict   bool   // 严格数字
	MaxDepth int    // 嵌套深度上限（0 = 默认 500）
	Mem      string // "min"/"balance"/"unlimited"
}

// ═══════════════════════════════════════════════════════════════════
// 预设 Profile
// ═══════════════════════════════════════════════════════════════════

// Default 单文档解析场景
// 用途: 配置文件加载、请求体解析
// 特点: 进程级默认 Arena，按历史占用表预热
func Default() *Profile {
	return &Profile{
		Name:  "default",
		Cores: runtime.NumCPU(),
		Mem:   "balance",
	}
}

// Strict 严格数字场景
// 用途: 外部输入校验，畸形数字（1e、12a）直接报错而不是退化为字符串
func Strict() *Profile {
	p := Default()
	p.Name = "strict"
	p.Strict = true
	return p
}

// Batch 多文档并发解析场景
// 用途: 日志行、NDJSON、消息批量解码
// 特点: 每核一个 worker，每个 worker 独占预热的 Arena
func Batch() *Profile {
	cores := runtime.NumCPU()
	return &Profile{
		Name:    "batch",
		Cores:   cores,
		Workers: cores,
		Mem:     "unlimited",
	}
}

// Min 低内存场景
// 特点: 不预热，跟踪的 size class 上限较小，大块直接交给 GC
func Min() *Profile {
	p := Default()
	p.Name = "min"
	p.Mem = "min"
	return p
}

// ═══════════════════════════════════════════════════════════════════
// Presets
// ═══════════════════════════════════════════════════════════════════

// Presets 所有预设场景
var Presets = map[string]func() *Profile{
	"default": Default,
	"strict":  Strict,
	"batch":   Batch,
	"min":     Min,
}

// Preset 获取预设Profile（每次返回新副本）
func Preset(name string) *Profile {
	if fn, ok := Presets[name]; ok {
		return fn()
	}
	return Default() // 默认使用default场景
}

// ═════════════════════════════════════════════════════════════════
// 自动检测
// ═════════════════════════════════════════════════════════════════

// AutoDetect 根据运行时环境自动选择
//   - 多核 (>= 4 cores) → Batch
//   - 少核 (< 4 cores ) → Default
func AutoDetect() *Profile {
	cores := runtime.NumCPU()
	p := Default()
	if cores >= 4 {
		p = Batch()
	}
	p.Name = "auto"
	p.Cores = cores
	return p
}
