package json

import "math"

// Type JSON 值类型
type Type uint8

const (
	TypeNull    Type = iota // null
	TypeBool                // true / false
	TypeInteger             // 64 位有符号整数
	TypeFloat               // 双精度浮点数
	TypeString              // 字符串
	TypeArray               // 数组
	TypeObject              // 对象
)

// String 返回类型名称
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value JSON 值（带标签的联合体）
//
// 标签决定唯一合法的访问器：
//   - n: Bool/Integer/Float 内联存储（Float 存 IEEE-754 位）
//   - s: TypeString 共享字符串缓冲
//   - a: TypeArray 共享元素序列
//   - o: TypeObject 共享键值表
//
// 共享负载带引用计数。Assign/Alias 是"共享别名"而不是深拷贝：
// 通过任一别名的修改对所有别名可见。引用计数不是原子的。
//
// Value 可按位搬迁（数组扩容时直接内存拷贝），不得持有指向自身的指针。
type Value struct {
	n uint64
	s *text
	a *sequence
	o *table
	t Type
}

// Null 共享只读哨兵，查找失败时返回
//
// 与真实的 null 值只能通过指针身份区分（见 IsSentinel）。
var Null = &Value{}

// ─── 构建（一次性标签转换） ───

func (v *Value) checkBuild() error {
	if v == Null {
		return ErrSentinel
	}
	if v.t != TypeNull {
		return ErrAlreadyBuilt
	}
	return nil
}

// BuildNull 确认值为 null（已构建为其他类型时报错）
func (v *Value) BuildNull() error { return v.checkBuild() }

// BuildBool 构建布尔值
func (v *Value) BuildBool(b bool) error {
	if err := v.checkBuild(); err != nil {
		return err
	}
	v.t = TypeBool
	if b {
		v.n = 1
	}
	return nil
}

// BuildInteger 构建整数
func (v *Value) BuildInteger(i int64) error {
	if err := v.checkBuild(); err != nil {
		return err
	}
	v.t = TypeInteger
	v.n = uint64(i)
	return nil
}

// BuildFloat 构建浮点数
func (v *Value) BuildFloat(f float64) error {
	if err := v.checkBuild(); err != nil {
		return err
	}
	v.t = TypeFloat
	v.n = math.Float64bits(f)
	return nil
}

// BuildString 在默认 Arena 中构建字符串（拷贝 b）
func (v *Value) BuildString(b []byte) error { return defaultArena.BuildString(v, b) }

// BuildArray 在默认 Arena 中构建空数组
func (v *Value) BuildArray() error { return defaultArena.BuildArray(v) }

// BuildObject 在默认 Arena 中构建空对象
func (v *Value) BuildObject() error { return defaultArena.BuildObject(v) }

// BuildString 在 a 中为 v 构建字符串
func (a *Arena) BuildString(v *Value, b []byte) error {
	if err := v.checkBuild(); err != nil {
		return err
	}
	v.t = TypeString
	v.s = a.newText(b)
	return nil
}

// BuildArray 在 a 中为 v 构建空数组
func (a *Arena) BuildArray(v *Value) error {
	if err := v.checkBuild(); err != nil {
		return err
	}
	v.t = TypeArray
	v.a = a.newSequence()
	return nil
}

// BuildObject 在 a 中为 v 构建空对象
func (a *Arena) BuildObject(v *Value) error {
	if err := v.checkBuild(); err != nil {
		return err
	}
	v.t = TypeObject
	v.o = a.newTable()
	return nil
}

// buildIntegerText 由已校验的数字串构建整数
func (v *Value) buildIntegerText(s []byte) error {
	return v.BuildInteger(ParseInteger(s))
}

// buildFloatText 由已校验的数字串构建浮点数
func (v *Value) buildFloatText(s []byte) error {
	return v.BuildFloat(ParseFloat(s))
}

// ─── 容器修改 ───

// AddElement 追加一个 null 元素并返回其指针（仅数组）
//
// 返回的指针在下一次 AddElement 之前有效（扩容会搬迁元素）。
func (v *Value) AddElement() (*Value, error) {
	if v.t != TypeArray {
		return nil, ErrNotArray
	}
	return v.a.push(), nil
}

// AddOrGetKey 查找或插入 key，返回其值槽位（仅对象）
//
// 已存在的 key 返回原槽位，不会产生重复键。
func (v *Value) AddOrGetKey(key []byte) (*Value, error) {
	if v.t != TypeObject {
		return nil, ErrNotObject
	}
	return v.o.slot(key), nil
}

// SetKey 可写的按键访问：对象中不存在则插入
//
// 非对象返回一个不挂在任何树上的临时值。
func (v *Value) SetKey(key string) *Value {
	if v.t != TypeObject {
		return &Value{}
	}
	return v.o.slot(s2b(key))
}

// ─── 生命周期 ───

// Release 销毁值：释放负载引用并重置为 null
//
// 引用计数归零时，负载内仍存活的元素/条目递归释放，块归还 Arena。
func (v *Value) Release() {
	if v == nil || v == Null {
		return
	}
	switch v.t {
	case TypeString:
		v.s.release()
	case TypeArray:
		v.a.release()
	case TypeObject:
		v.o.release()
	}
	*v = Value{}
}

// shares 两个值是否引用同一负载
func (v *Value) shares(src *Value) bool {
	if v.t != src.t {
		return false
	}
	switch v.t {
	case TypeString:
		return v.s == src.s
	case TypeArray:
		return v.a == src.a
	case TypeObject:
		return v.o == src.o
	}
	return false
}

func (v *Value) retain() {
	switch v.t {
	case TypeString:
		v.s.ref++
	case TypeArray:
		v.a.ref++
	case TypeObject:
		v.o.ref++
	}
}

// Assign 拷贝赋值：v 成为 src 的共享别名
//
// 自赋值或已共享同一负载时不做任何事；否则先释放 v 原有负载。
func (v *Value) Assign(src *Value) error {
	if v == Null {
		return ErrSentinel
	}
	if v == src || v.shares(src) {
		return nil
	}
	// 先持有再释放：src 可能是 v 负载内的子值
	alias := *src
	alias.retain()
	v.Release()
	*v = alias
	return nil
}

// Alias 拷贝构造：返回共享 v 负载的新值（调用方负责 Release）
func (v *Value) Alias() Value {
	alias := *v
	alias.retain()
	return alias
}

// refs 当前负载的引用计数（标量为 0）
func (v *Value) refs() int {
	switch v.t {
	case TypeString:
		return v.s.ref
	case TypeArray:
		return v.a.ref
	case TypeObject:
		return v.o.ref
	}
	return 0
}

// ─── 类型判断 ───

// Type 返回值类型
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.t
}

// IsSentinel 是否为查找失败返回的共享哨兵
func (v *Value) IsSentinel() bool { return v == Null }

// IsNull 是否为 null
func (v *Value) IsNull() bool { return v == nil || v.t == TypeNull }

// IsBool 是否为布尔值
func (v *Value) IsBool() bool { return v != nil && v.t == TypeBool }

// IsInteger 是否为整数
func (v *Value) IsInteger() bool { return v != nil && v.t == TypeInteger }

// IsFloat 是否为浮点数
func (v *Value) IsFloat() bool { return v != nil && v.t == TypeFloat }

// IsNumber 是否为整数或浮点数
func (v *Value) IsNumber() bool { return v.IsInteger() || v.IsFloat() }

// IsString 是否为字符串
func (v *Value) IsString() bool { return v != nil && v.t == TypeString }

// IsArray 是否为数组
func (v *Value) IsArray() bool { return v != nil && v.t == TypeArray }

// IsObject 是否为对象
func (v *Value) IsObject() bool { return v != nil && v.t == TypeObject }

// ─── 值获取（安全: 类型不匹配返回零值） ───

// Bool 布尔值
func (v *Value) Bool() bool { return v.IsBool() && v.n != 0 }

// Int64 整数值
func (v *Value) Int64() int64 {
	if !v.IsInteger() {
		return 0
	}
	return int64(v.n)
}

// Float64 浮点值
func (v *Value) Float64() float64 {
	if !v.IsFloat() {
		return 0
	}
	return math.Float64frombits(v.n)
}

// Str 字符串值（拷贝）
func (v *Value) Str() string {
	if !v.IsString() {
		return ""
	}
	return string(v.s.buf)
}

// Bytes 字符串值的底层字节（零拷贝，负载释放后失效，不可修改）
func (v *Value) Bytes() []byte {
	if !v.IsString() {
		return nil
	}
	return v.s.buf
}

// Len 数组或对象的元素数，标量为 0
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.t {
	case TypeArray:
		return v.a.n
	case TypeObject:
		return v.o.n
	default:
		return 0
	}
}
