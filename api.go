// Package tjson 统一API入口
package tjson

import (
	"log/slog"

	"github.com/uniyakcom/tjson/batch"
	"github.com/uniyakcom/tjson/json"
	"github.com/uniyakcom/tjson/optimize"
)

// Value 导出Value类型
type Value = json.Value

// Type 导出Type类型
type Type = json.Type

// Parser 导出Parser类型
type Parser = json.Parser

// Config 导出解析配置
type Config = json.Config

// SyntaxError 导出语法错误
type SyntaxError = json.SyntaxError

// Batch 导出批量解析器
type Batch = batch.Batch

// Doc 导出批量文档
type Doc = batch.Doc

// BatchHandler 导出批量文档处理函数
type BatchHandler = batch.Handler

// BatchMiddleware 导出批量中间件
type BatchMiddleware = batch.Middleware

// Profile 导出Profile
type Profile = optimize.Profile

// Null 共享只读哨兵
var Null = json.Null

// ═══════════════════════════════════════════════════════════════════
// 第零层：New() 零配置入口
// ═══════════════════════════════════════════════════════════════════

// New 零配置创建 Parser（自动检测运行时环境）
//
// 用法:
//
//	p := tjson.New()
//	root, err := p.ParseString(`{"a":1}`)
//	defer root.Release()
func New() *Parser {
	return Option(optimize.AutoDetect())
}

// ═══════════════════════════════════════════════════════════════════
// 第一层：ForXxx() 核心场景（推荐使用）
// ═══════════════════════════════════════════════════════════════════

// ForDefault 单文档解析，使用进程级默认 Arena
func ForDefault() *Parser {
	return Option(optimize.Default())
}

// ForStrict 畸形数字直接报错
func ForStrict() *Parser {
	return Option(optimize.Strict())
}

// ForBatch 每核一个 worker 的批量解析器
func ForBatch(mws ...BatchMiddleware) (*Batch, error) {
	return optimize.BuildBatch(optimize.NewAdvisor().Advise(optimize.Batch()), nil, mws...)
}

// ═══════════════════════════════════════════════════════════════════
// 第二层：Scenario() 字符串配置
// ═══════════════════════════════════════════════════════════════════

// Scenario 预设场景快速创建
// name: "default", "strict", "batch", "min"
func Scenario(name string) *Parser {
	return Option(optimize.Preset(name))
}

// ═══════════════════════════════════════════════════════════════════
// 第三层：Option() 完全控制
// ═══════════════════════════════════════════════════════════════════

// Option 按 Profile 创建 Parser
func Option(p *Profile) *Parser {
	if p == nil {
		p = optimize.Default()
	}
	return optimize.BuildParser(optimize.NewAdvisor().Advise(p))
}

// OptionBatch 按 Profile 创建批量解析器
func OptionBatch(p *Profile, logger *slog.Logger, mws ...BatchMiddleware) (*Batch, error) {
	if p == nil {
		p = optimize.Batch()
	}
	return optimize.BuildBatch(optimize.NewAdvisor().Advise(p), logger, mws...)
}

// ═══════════════════════════════════════════════════════════════════
// 包级便捷 API（默认配置，进程级 Arena）
// ═══════════════════════════════════════════════════════════════════

// Parse 解析 buf 到 root，返回状态码：0 成功，否则为出错偏移 + 1
//
// 用法:
//
//	var root tjson.Value
//	if st := tjson.Parse(buf, &root); st != 0 {
//	    snippet, caret := tjson.ErrorWindow(buf, st-1)
//	}
//	defer root.Release()
func Parse(buf []byte, root *Value) int {
	return json.Parse(buf, root)
}

// ParseBytes 解析 buf，返回堆上的根值，调用方负责 Release
func ParseBytes(buf []byte) (*Value, error) {
	return json.ParseBytes(buf)
}

// ParseString 解析字符串
func ParseString(s string) (*Value, error) {
	return json.ParseString(s)
}

// Status 把错误转换为状态码
func Status(err error) int {
	return json.Status(err)
}

// ErrorWindow 返回出错位置附近的片段与脱字符列
func ErrorWindow(src []byte, offset int) (string, int) {
	return json.ErrorWindow(src, offset)
}
