// Package json 单遍 JSON 解析与 DOM 库
//
// 设计原则:
//   - 单遍扫描: 词法状态机 + 显式语法栈，不使用递归下降，嵌套深度有硬上限
//   - 分级分配: 所有变长负载（字符串字节、数组元素、对象条目）都经由 Arena 分配，
//     释放后回到所属 size class 的空闲链复用
//   - 共享负载: 字符串/数组/对象负载带引用计数，Assign/Alias 共享而非深拷贝
//   - 自研数值转换: 整数与浮点数转换不依赖 strconv
//   - 容错访问: 类型不匹配或查找失败返回零值/共享 Null 哨兵，不 panic
//
// 词法扩展（相对严格 JSON）:
//   - 单引号字符串: 'abc'
//   - 前导小数点浮点数: .5
//   - 顶层标量: 123、"abc"、true
//   - 值位置上的裸字: [abc] 解析为字符串 "abc"
//
// 不支持尾逗号与注释。
//
// 用法:
//
//	var root json.Value
//	if st := json.Parse([]byte(`{"a":1,"b":[true,null,"x"]}`), &root); st != 0 {
//	    // st-1 为出错字节偏移
//	}
//	defer root.Release()
//	a := root.GetInt64("a")          // 1
//	x := root.GetString("b", "2")    // "x"
//
// 并发: Value 树、Arena 与引用计数均无同步。同一棵树或同一 Arena
// 只能在一个 goroutine 中使用；多文档并发解析见 batch 包（每个 worker 独占 Arena）。
package json

// MaxDepth 语法栈默认深度上限
const MaxDepth = 500

// MaxTokenLength 单个 token 默认最大字节数（64KB 缓冲，保留一个结束位）
const MaxTokenLength = 1<<16 - 1

// Config 解析配置
type Config struct {
	MaxDepth       int    // 语法栈深度上限（默认 MaxDepth）
	MaxTokenLength int    // token 缓冲上限（默认 MaxTokenLength）
	StrictNumbers  bool   // 拒绝退化为裸字的畸形数字（如 1e、12a），默认保持兼容
	Arena          *Arena // 分配来源（默认 DefaultArena()）
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:       MaxDepth,
		MaxTokenLength: MaxTokenLength,
		StrictNumbers:  false,
		Arena:          defaultArena,
	}
}

// StrictConfig 返回严格数字模式的配置
func StrictConfig() *Config {
	c := DefaultConfig()
	c.StrictNumbers = true
	return c
}

func (c *Config) normalize() Config {
	out := *c
	if out.MaxDepth <= 0 {
		out.MaxDepth = MaxDepth
	}
	if out.MaxTokenLength <= 0 {
		out.MaxTokenLength = MaxTokenLength
	}
	if out.Arena == nil {
		out.Arena = defaultArena
	}
	return out
}
