package json

import (
	"errors"
	"strconv"
)

// 构建/访问错误
var (
	ErrAlreadyBuilt = errors.New("json: value already built")
	ErrSentinel     = errors.New("json: shared Null sentinel is read-only")
	ErrNotArray     = errors.New("json: value is not an array")
	ErrNotObject    = errors.New("json: value is not an object")
	ErrEmptyInput   = errors.New("json: empty input")
)

// ErrorKind 语法错误分类
type ErrorKind uint8

const (
	KindGrammar         ErrorKind = iota + 1 // 当前语法状态不接受该 token/符号
	KindTokenOverflow                        // token 超出缓冲上限
	KindDepthOverflow                        // 语法栈超出深度上限
	KindEscape                               // 转义序列不完整或非法
	KindUnterminated                         // 输入结束时容器或字符串未闭合
	KindMalformedNumber                      // 严格模式下的畸形数字
	KindEmpty                                // 空输入
)

func (k ErrorKind) String() string {
	switch k {
	case KindGrammar:
		return "unexpected token"
	case KindTokenOverflow:
		return "token too long"
	case KindDepthOverflow:
		return "nesting too deep"
	case KindEscape:
		return "invalid escape"
	case KindUnterminated:
		return "unterminated input"
	case KindMalformedNumber:
		return "malformed number"
	case KindEmpty:
		return "empty input"
	default:
		return "syntax error"
	}
}

// SyntaxError 解析失败：第一个错误所在的字节偏移
type SyntaxError struct {
	Offset int
	Kind   ErrorKind
}

func (e *SyntaxError) Error() string {
	return "json: " + e.Kind.String() + " at offset " + strconv.Itoa(e.Offset)
}

// Is 空输入错误同时匹配 ErrEmptyInput
func (e *SyntaxError) Is(target error) bool {
	return target == ErrEmptyInput && e.Kind == KindEmpty
}

// Status 把错误转换为数值状态：0 成功，否则 1 + 出错偏移
//
// 非语法错误（例如根节点已构建）报告为 1。
func Status(err error) int {
	if err == nil {
		return 0
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Offset + 1
	}
	return 1
}

// ErrorWindow 截取出错位置附近的片段用于诊断显示
//
// 片段为 offset 前 17 字节到后 3 字节，caret 为 offset 在片段中的下标。
func ErrorWindow(src []byte, offset int) (snippet string, caret int) {
	end := offset + 3
	start := offset - 17
	if end > len(src) {
		end = len(src)
	}
	if start < 0 {
		start = 0
	}
	if offset > end {
		offset = end
	}
	if start > end {
		start = end
	}
	return string(src[start:end]), offset - start
}
