package json

import "unsafe"

// ─── 只读访问（不分配，失败返回 Null 哨兵） ───

// Index 数组第 i 个元素；非数组或越界返回 Null
func (v *Value) Index(i int) *Value {
	if !v.IsArray() || i < 0 || i >= v.a.n {
		return Null
	}
	return &v.a.buf[i]
}

// Key 对象成员；非对象或键不存在返回 Null
func (v *Value) Key(k string) *Value {
	if !v.IsObject() {
		return Null
	}
	if r := v.o.find(s2b(k)); r != nil {
		return r
	}
	return Null
}

// Get 按路径获取嵌套值
//
//	v.Get("user", "name")  // 获取 {"user":{"name":"..."}} 中的 name
//	v.Get("items", "0")    // 获取数组第 0 个元素
//
// 任一段查找失败返回 Null。
func (v *Value) Get(keys ...string) *Value {
	if v == nil {
		return Null
	}
	for _, key := range keys {
		switch v.Type() {
		case TypeObject:
			v = v.Key(key)
		case TypeArray:
			idx, ok := parseIdx(key)
			if !ok {
				return Null
			}
			v = v.Index(idx)
		default:
			return Null
		}
		if v == Null {
			return Null
		}
	}
	return v
}

// GetString 获取字符串值
func (v *Value) GetString(keys ...string) string {
	return v.Get(keys...).Str()
}

// GetBytes 获取字符串底层字节（零拷贝）
func (v *Value) GetBytes(keys ...string) []byte {
	return v.Get(keys...).Bytes()
}

// GetInt64 获取整数值
func (v *Value) GetInt64(keys ...string) int64 {
	return v.Get(keys...).Int64()
}

// GetFloat64 获取浮点值
func (v *Value) GetFloat64(keys ...string) float64 {
	return v.Get(keys...).Float64()
}

// GetBool 获取布尔值
func (v *Value) GetBool(keys ...string) bool {
	return v.Get(keys...).Bool()
}

// ─── 遍历 ───

// Keys 返回对象的全部键（拷贝）
func (v *Value) Keys() []string {
	return v.AppendKeys(nil)
}

// AppendKeys 把对象的键追加到 dst
func (v *Value) AppendKeys(dst []string) []string {
	if !v.IsObject() {
		return dst
	}
	for i := 0; i < v.o.n; i++ {
		dst = append(dst, string(v.o.buf[i].key.buf))
	}
	return dst
}

// ArrayEach 遍历数组元素，返回 false 停止遍历
func (v *Value) ArrayEach(fn func(i int, val *Value) bool) {
	if !v.IsArray() {
		return
	}
	for i := 0; i < v.a.n; i++ {
		if !fn(i, &v.a.buf[i]) {
			return
		}
	}
}

// ObjectEach 遍历对象键值对，返回 false 停止遍历
//
// key 与键缓冲共享内存，仅在回调内有效。
func (v *Value) ObjectEach(fn func(key string, val *Value) bool) {
	if !v.IsObject() {
		return
	}
	for i := 0; i < v.o.n; i++ {
		e := &v.o.buf[i]
		if !fn(b2s(e.key.buf), &e.value) {
			return
		}
	}
}

// Interface 转换为 Go 原生值
//
//	null → nil, bool → bool, 整数 → int64, 浮点 → float64,
//	字符串 → string, 数组 → []any, 对象 → map[string]any
func (v *Value) Interface() any {
	switch v.Type() {
	case TypeBool:
		return v.Bool()
	case TypeInteger:
		return v.Int64()
	case TypeFloat:
		return v.Float64()
	case TypeString:
		return v.Str()
	case TypeArray:
		out := make([]any, 0, v.a.n)
		for i := 0; i < v.a.n; i++ {
			out = append(out, v.a.buf[i].Interface())
		}
		return out
	case TypeObject:
		out := make(map[string]any, v.o.n)
		for i := 0; i < v.o.n; i++ {
			e := &v.o.buf[i]
			out[string(e.key.buf)] = e.value.Interface()
		}
		return out
	}
	return nil
}

// ─── 辅助函数 ───

func parseIdx(s string) (int, bool) {
	if len(s) == 0 || len(s) > 10 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n < 0 {
			return 0, false // 溢出保护（32 位平台）
		}
	}
	return n, true
}

// s2b 零拷贝 string → []byte
func s2b(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// b2s 零拷贝 []byte → string
func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
