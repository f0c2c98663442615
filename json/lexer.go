package json

import "bytes"

// lexState 词法状态
type lexState uint8

const (
	lexStart    lexState = iota // 输入开始
	lexWord                     // 裸字（null/true/false 或未加引号的字符串）
	lexNumber                   // 整数
	lexFloat                    // 浮点数（已见小数点）
	lexFloatExp                 // 浮点数（已见指数数字）
	lexString                   // 引号字符串
	lexSpaceEnd                 // 刚跳过一段空白
	lexSymbol                   // 刚处理一个结构符号
	lexEnd                      // 输入结束
)

// tokKind 交给语法层的 token 类别
type tokKind uint8

const (
	tokWord tokKind = iota
	tokNumber
	tokFloat
	tokString
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSymbol(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}

// spaceRun 用于整段比较缩进空白
var spaceRun = bytes.Repeat([]byte{' '}, 32)

// next 读取一个字节并记录其偏移
func (s *state) next() byte {
	c := s.src[s.pos]
	s.off = s.pos
	s.pos++
	return c
}

func (s *state) eof() bool { return s.pos >= len(s.src) }

// atEOF 定位到输入末尾（错误偏移为 len(src)）
func (s *state) atEOF() {
	s.off = len(s.src)
}

func (s *state) appendTok(c byte) error {
	if len(s.tok) >= s.maxTok {
		return s.fail(KindTokenOverflow)
	}
	s.tok = append(s.tok, c)
	return nil
}

// skipSpace 跳过空白，缩进较深的文档先按 32/16/8/4 字节整段跳过
func (s *state) skipSpace() {
	for _, w := range [...]int{32, 16, 8, 4} {
		for len(s.src)-s.pos >= w && bytes.Equal(s.src[s.pos:s.pos+w], spaceRun[:w]) {
			s.pos += w
		}
	}
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	s.lex = lexSpaceEnd
}

// procBoundary token 之间：分派符号、跳过空白或开始新 token
func (s *state) procBoundary() error {
	if s.eof() {
		s.lex = lexEnd
		return nil
	}
	c := s.next()
	switch {
	case isSymbol(c):
		s.lex = lexSymbol
		return s.symbol(c)
	case isSpace(c):
		s.skipSpace()
		return nil
	}
	s.tok = s.tok[:0]
	switch {
	case isDigit(c) || c == '-':
		s.lex = lexNumber
		return s.appendTok(c)
	case c == '.':
		s.lex = lexFloat
		return s.appendTok(c)
	case c == '"' || c == '\'':
		s.lex = lexString
		s.quote = c
		return nil
	}
	s.lex = lexWord
	return s.appendTok(c)
}

// finish 结束当前 token 并处理其终止符
func (s *state) finish(kind tokKind, c byte, eof bool) error {
	if err := s.emit(kind); err != nil {
		return err
	}
	switch {
	case eof:
		s.lex = lexEnd
	case isSpace(c):
		s.skipSpace()
	default:
		s.lex = lexSymbol
		return s.symbol(c)
	}
	return nil
}

func (s *state) procWord() error {
	for {
		if s.eof() {
			s.atEOF()
			return s.finish(tokWord, 0, true)
		}
		c := s.next()
		if isSpace(c) || isSymbol(c) {
			return s.finish(tokWord, c, false)
		}
		if err := s.appendTok(c); err != nil {
			return err
		}
	}
}

func (s *state) procNumber() error {
	for {
		if s.eof() {
			s.atEOF()
			return s.finish(tokNumber, 0, true)
		}
		c := s.next()
		switch {
		case isDigit(c):
			if err := s.appendTok(c); err != nil {
				return err
			}
		case isSpace(c) || isSymbol(c):
			return s.finish(tokNumber, c, false)
		case c == '.':
			s.lex = lexFloat
			return s.appendTok(c)
		case c == 'e' || c == 'E':
			if err := s.appendTok(c); err != nil {
				return err
			}
			return s.exponent()
		default:
			return s.degrade(c)
		}
	}
}

// procFloat 小数部分与指数部分共用；指数数字之后不再接受 e/E
func (s *state) procFloat() error {
	for {
		if s.eof() {
			s.atEOF()
			return s.finish(tokFloat, 0, true)
		}
		c := s.next()
		switch {
		case isDigit(c):
			if err := s.appendTok(c); err != nil {
				return err
			}
		case isSpace(c) || isSymbol(c):
			return s.finish(tokFloat, c, false)
		case (c == 'e' || c == 'E') && s.lex == lexFloat:
			if err := s.appendTok(c); err != nil {
				return err
			}
			return s.exponent()
		default:
			return s.degrade(c)
		}
	}
}

// exponent 指数标记之后：可选符号，随后必须是数字
//
// 没有数字时 token 退化为裸字，当前字节留给裸字状态处理。
func (s *state) exponent() error {
	if !s.eof() && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
		if err := s.appendTok(s.next()); err != nil {
			return err
		}
	}
	if !s.eof() && isDigit(s.src[s.pos]) {
		s.lex = lexFloatExp
		return s.appendTok(s.next())
	}
	if s.strict {
		return s.fail(KindMalformedNumber)
	}
	s.lex = lexWord
	return nil
}

// degrade 数字中出现非法字节：整个 token 改按裸字处理
func (s *state) degrade(c byte) error {
	if s.strict {
		return s.fail(KindMalformedNumber)
	}
	s.lex = lexWord
	return s.appendTok(c)
}

func (s *state) procString() error {
	for {
		if s.eof() {
			s.atEOF()
			return s.fail(KindUnterminated)
		}
		c := s.next()
		switch c {
		case s.quote:
			return s.closeString()
		case '\\':
			if err := s.escape(); err != nil {
				return err
			}
		default:
			if err := s.appendTok(c); err != nil {
				return err
			}
		}
	}
}

// closeString 闭合引号之后的字节决定字符串如何结束
//
// 紧跟的非空白、非符号字节开始一个新的裸字。
func (s *state) closeString() error {
	if s.eof() {
		s.atEOF()
		return s.finish(tokString, 0, true)
	}
	c := s.next()
	if isSpace(c) || isSymbol(c) {
		return s.finish(tokString, c, false)
	}
	if err := s.emit(tokString); err != nil {
		return err
	}
	s.lex = lexWord
	return s.appendTok(c)
}

func (s *state) escape() error {
	if s.eof() {
		s.atEOF()
		return s.fail(KindEscape)
	}
	c := s.next()
	switch c {
	case 'b':
		c = '\b'
	case 'f':
		c = '\f'
	case 'n':
		c = '\n'
	case 'r':
		c = '\r'
	case 't':
		c = '\t'
	case '"', '\'', '\\', '/':
	case 'u':
		r, err := s.codePoint()
		if err != nil {
			return err
		}
		return s.appendRune(r)
	default:
		return s.fail(KindEscape)
	}
	return s.appendTok(c)
}

// codePoint 读取 \u 之后的 4 位十六进制；高代理项必须紧跟 \uXXXX 低代理项
func (s *state) codePoint() (rune, error) {
	r, err := s.hex4()
	if err != nil {
		return 0, err
	}
	if r >= 0xD800 && r <= 0xDBFF {
		if len(s.src)-s.pos < 6 || s.src[s.pos] != '\\' || s.src[s.pos+1] != 'u' {
			s.off = s.pos
			return 0, s.fail(KindEscape)
		}
		s.pos += 2
		lo, err := s.hex4()
		if err != nil {
			return 0, err
		}
		r = 0x10000 + (r&0x3FF)<<10 + lo&0x3FF
	}
	return r, nil
}

func (s *state) hex4() (rune, error) {
	if len(s.src)-s.pos < 4 {
		s.atEOF()
		return 0, s.fail(KindEscape)
	}
	var r rune
	for i := 0; i < 4; i++ {
		h := hexVal(s.next())
		if h < 0 {
			return 0, s.fail(KindEscape)
		}
		r = r<<4 | rune(h)
	}
	return r, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// appendRune 按 UTF-8 写入码点（不校验代理项，超出 0x10FFFF 的码点丢弃）
func (s *state) appendRune(r rune) error {
	var b [4]byte
	var n int
	switch {
	case r < 0x80:
		b[0] = byte(r)
		n = 1
	case r < 0x800:
		b[0] = 0xC0 | byte(r>>6)
		b[1] = 0x80 | byte(r)&0x3F
		n = 2
	case r < 0x10000:
		b[0] = 0xE0 | byte(r>>12)
		b[1] = 0x80 | byte(r>>6)&0x3F
		b[2] = 0x80 | byte(r)&0x3F
		n = 3
	case r <= 0x10FFFF:
		b[0] = 0xF0 | byte(r>>18)
		b[1] = 0x80 | byte(r>>12)&0x3F
		b[2] = 0x80 | byte(r>>6)&0x3F
		b[3] = 0x80 | byte(r)&0x3F
		n = 4
	}
	for _, c := range b[:n] {
		if err := s.appendTok(c); err != nil {
			return err
		}
	}
	return nil
}
