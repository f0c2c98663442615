package json

import (
	"sync"
)

// Parser JSON 解析器（可复用）
//
// Parser 复用 token 缓冲、语法栈与遍历栈，避免每次解析重新分配。
// 注意: Parser 不是并发安全的，并发场景请使用 ParserPool 或每个 goroutine 一个 Parser。
//
// 用法:
//
//	p := json.NewParser(nil)
//	var root json.Value
//	if err := p.Parse(buf, &root); err != nil {
//	    var se *json.SyntaxError
//	    errors.As(err, &se) // se.Offset 为出错字节偏移
//	}
type Parser struct {
	cfg Config
	s   state
}

// NewParser 创建解析器，cfg 为 nil 时使用 DefaultConfig
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Parser{cfg: cfg.normalize()}
}

// Config 返回解析器配置
func (p *Parser) Config() Config { return p.cfg }

// Parse 把 buf 解析进 root
//
// root 必须是未构建的空值。失败时返回 *SyntaxError，root 内容为失败前已构建的部分，
// 调用方应丢弃（Release）。
func (p *Parser) Parse(buf []byte, root *Value) error {
	if err := root.checkBuild(); err != nil {
		return err
	}
	if len(buf) == 0 {
		return &SyntaxError{Offset: 0, Kind: KindEmpty}
	}
	s := &p.s
	s.reset(&p.cfg, buf, root)
	err := s.run()
	s.src = nil
	s.cur = nil
	clear(s.up)
	return err
}

// ParseBytes 解析 b 并返回新的根值；失败时根值已释放
func (p *Parser) ParseBytes(b []byte) (*Value, error) {
	root := &Value{}
	if err := p.Parse(b, root); err != nil {
		root.Release()
		return nil, err
	}
	return root, nil
}

// ParseString 解析字符串（零拷贝转换为字节）
func (p *Parser) ParseString(s string) (*Value, error) {
	return p.ParseBytes(s2b(s))
}

// ─── ParserPool ───

// ParserPool 默认配置 Parser 的池
//
// 池只复用解析状态；默认 Arena 仍是进程级无同步状态。
var ParserPool = sync.Pool{
	New: func() any { return NewParser(nil) },
}

// AcquireParser 从池中获取 Parser
func AcquireParser() *Parser {
	return ParserPool.Get().(*Parser)
}

// ReleaseParser 归还 Parser 到池中
func ReleaseParser(p *Parser) {
	ParserPool.Put(p)
}

// Parse 使用默认配置解析 buf 到 root
//
// 返回 0 表示成功，否则为 1 + 第一个错误的字节偏移。
func Parse(buf []byte, root *Value) int {
	p := AcquireParser()
	err := p.Parse(buf, root)
	ReleaseParser(p)
	return Status(err)
}

// ParseBytes 使用默认配置解析 b
func ParseBytes(b []byte) (*Value, error) {
	p := AcquireParser()
	v, err := p.ParseBytes(b)
	ReleaseParser(p)
	return v, err
}

// ParseString 使用默认配置解析 s
func ParseString(s string) (*Value, error) {
	return ParseBytes(s2b(s))
}

// ─── 解析状态 ───

// state 单次解析的全部可变状态
type state struct {
	src []byte
	pos int // 下一个待读字节
	off int // 当前处理字节的偏移（错误报告用）

	lex      lexState
	quote    byte // 当前字符串的开引号
	tok      []byte
	maxTok   int
	strict   bool // 畸形数字直接报错

	g        []gaState // 语法栈
	maxDepth int
	cur      *Value   // 当前容器/槽位
	up       []*Value // 遍历栈：进入子值前的 cur
	arena    *Arena
}

func (s *state) reset(cfg *Config, src []byte, root *Value) {
	s.src = src
	s.pos = 0
	s.off = 0
	s.lex = lexStart
	s.quote = 0
	if s.tok == nil {
		s.tok = make([]byte, 0, 256)
	}
	s.tok = s.tok[:0]
	s.maxTok = cfg.MaxTokenLength
	s.strict = cfg.StrictNumbers
	s.g = append(s.g[:0], gStart)
	s.maxDepth = cfg.MaxDepth
	s.cur = root
	s.up = s.up[:0]
	s.arena = cfg.Arena
}

func (s *state) fail(kind ErrorKind) error {
	return &SyntaxError{Offset: s.off, Kind: kind}
}

// run 主循环：按词法状态分派，直到输入结束
func (s *state) run() error {
	for s.lex != lexEnd {
		var err error
		switch s.lex {
		case lexStart, lexSpaceEnd, lexSymbol:
			err = s.procBoundary()
		case lexWord:
			err = s.procWord()
		case lexNumber:
			err = s.procNumber()
		case lexFloat, lexFloatExp:
			err = s.procFloat()
		case lexString:
			err = s.procString()
		default:
			err = s.fail(KindGrammar)
		}
		if err != nil {
			return err
		}
	}
	if len(s.g) != 0 {
		s.off = len(s.src)
		return s.fail(KindUnterminated)
	}
	return nil
}
