package json

// gaState 语法栈元素
type gaState uint8

const (
	gStart    gaState = iota // 等待根值
	gArray                   // 保留
	gArraySep                // 数组元素之后：',' 或 ']'
	gDict                    // 保留
	gDictSep                 // 对象成员之后：',' 或 '}'
	gKey                     // 等待键（空对象可直接 '}'）
	gKeySep                  // 键之后：':'
	gElement                 // 等待数组元素（空数组可直接 ']'）
	gValue                   // 等待成员值
)

func (s *state) top() (gaState, bool) {
	if len(s.g) == 0 {
		return 0, false
	}
	return s.g[len(s.g)-1], true
}

func (s *state) setTop(g gaState) { s.g[len(s.g)-1] = g }

func (s *state) push(g gaState) error {
	if len(s.g) >= s.maxDepth {
		return s.fail(KindDepthOverflow)
	}
	s.g = append(s.g, g)
	return nil
}

func (s *state) pop() { s.g = s.g[:len(s.g)-1] }

// descend 进入子值
func (s *state) descend(child *Value) {
	s.up = append(s.up, s.cur)
	s.cur = child
}

// ascend 回到进入子值前的位置（已在根之上时 cur 为 nil）
func (s *state) ascend() {
	n := len(s.up)
	if n == 0 {
		s.cur = nil
		return
	}
	s.cur = s.up[n-1]
	s.up[n-1] = nil
	s.up = s.up[:n-1]
}

// emit 把当前 token 交给语法层并清空缓冲
func (s *state) emit(kind tokKind) error {
	err := s.token(kind)
	s.tok = s.tok[:0]
	return err
}

// token 按栈顶状态消费一个标量 token
func (s *state) token(kind tokKind) error {
	top, ok := s.top()
	if !ok {
		return s.fail(KindGrammar)
	}
	switch top {
	case gStart:
		s.pop()
		return s.scalar(s.cur, kind)
	case gKey:
		// 数字 token 也可作为键
		s.setTop(gKeySep)
		slot, err := s.cur.AddOrGetKey(s.tok)
		if err != nil {
			return s.fail(KindGrammar)
		}
		// 重复键：后出现的值覆盖
		slot.Release()
		s.descend(slot)
		return nil
	case gElement:
		s.setTop(gArraySep)
		el, err := s.cur.AddElement()
		if err != nil {
			return s.fail(KindGrammar)
		}
		return s.scalar(el, kind)
	case gValue:
		s.setTop(gDictSep)
		if err := s.scalar(s.cur, kind); err != nil {
			return err
		}
		s.ascend()
		return nil
	}
	return s.fail(KindGrammar)
}

// scalar 由 token 构建标量
func (s *state) scalar(v *Value, kind tokKind) error {
	var err error
	switch kind {
	case tokNumber:
		err = v.buildIntegerText(s.tok)
	case tokFloat:
		err = v.buildFloatText(s.tok)
	case tokString:
		err = s.arena.BuildString(v, s.tok)
	default:
		err = s.word(v)
	}
	if err != nil {
		return s.fail(KindGrammar)
	}
	return nil
}

// word 裸字：先按长度筛选字面量，其余按字符串处理
func (s *state) word(v *Value) error {
	switch len(s.tok) {
	case 4:
		switch string(s.tok) {
		case "null":
			return v.BuildNull()
		case "true":
			return v.BuildBool(true)
		}
	case 5:
		if string(s.tok) == "false" {
			return v.BuildBool(false)
		}
	}
	return s.arena.BuildString(v, s.tok)
}

// container 在 v 上构建空容器
func (s *state) container(v *Value, c byte) error {
	var err error
	if c == '{' {
		err = s.arena.BuildObject(v)
	} else {
		err = s.arena.BuildArray(v)
	}
	if err != nil {
		return s.fail(KindGrammar)
	}
	return nil
}

// opened 容器内的新语法状态
func opened(c byte) gaState {
	if c == '{' {
		return gKey
	}
	return gElement
}

// closeContainer 弹出当前容器
func (s *state) closeContainer() {
	s.pop()
	s.ascend()
}

// symbol 按栈顶状态消费一个结构符号
func (s *state) symbol(c byte) error {
	top, ok := s.top()
	if !ok {
		return s.fail(KindGrammar)
	}
	switch top {
	case gStart:
		if c == '{' || c == '[' {
			s.setTop(opened(c))
			return s.container(s.cur, c)
		}
	case gElement:
		switch c {
		case '{', '[':
			s.setTop(gArraySep)
			if err := s.push(opened(c)); err != nil {
				return err
			}
			el, err := s.cur.AddElement()
			if err != nil {
				return s.fail(KindGrammar)
			}
			if err := s.container(el, c); err != nil {
				return err
			}
			s.descend(el)
			return nil
		case ']':
			// 仅空数组；逗号之后的 ']' 是尾逗号
			if s.cur.Len() == 0 {
				s.closeContainer()
				return nil
			}
		}
	case gValue:
		if c == '{' || c == '[' {
			s.setTop(gDictSep)
			if err := s.push(opened(c)); err != nil {
				return err
			}
			return s.container(s.cur, c)
		}
	case gKeySep:
		if c == ':' {
			s.setTop(gValue)
			return nil
		}
	case gArraySep:
		switch c {
		case ',':
			s.setTop(gElement)
			return nil
		case ']':
			s.closeContainer()
			return nil
		}
	case gDictSep:
		switch c {
		case ',':
			s.setTop(gKey)
			return nil
		case '}':
			s.closeContainer()
			return nil
		}
	case gKey:
		if c == '}' && s.cur.Len() == 0 {
			s.closeContainer()
			return nil
		}
	}
	return s.fail(KindGrammar)
}
