package json

// maxIntDigits 整数转换最多消费的数字位数
const maxIntDigits = 20

// maxMantDigits 尾数保留的最大有效位数，多余位数折算进指数
const maxMantDigits = 18

// maxExponent 十进制指数上限，更大的指数必然上溢/下溢
const maxExponent = 511

// powersOf10 10^(2^i)，二进制拆分指数时逐位相乘
var powersOf10 = [...]float64{
	1e1, 1e2, 1e4, 1e8, 1e16, 1e32, 1e64, 1e128, 1e256,
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ParseInteger 十进制整数转换（不依赖 strconv）
//
// 可选 '+'/'-' 前缀，最多消费 20 位数字，遇到非数字提前结束（不报错）。
// 不做溢出检测，结果可能回绕。
func ParseInteger(s []byte) int64 {
	neg := false
	i := 0
	if len(s) > 0 {
		switch s[0] {
		case '-':
			neg = true
			i++
		case '+':
			i++
		}
	}
	var n int64
	for end := i + maxIntDigits; i < len(s) && i < end && isDigit(s[i]); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

// ParseFloat 十进制浮点转换（不依赖 strconv）
//
// 流程：
//  1. 拆出符号、尾数（可含一个小数点）与可选的带符号指数
//  2. 尾数最多保留 18 位有效数字，多余位数折算进指数
//  3. 指数截断到 ±511，对 10^(2^i) 表做二进制拆分求缩放因子
//  4. 按指数符号乘或除
//
// 除病态输入外与标准库结果一致，不保证最后一位精确。
// 指数标记后没有数字时忽略该指数。
func ParseFloat(s []byte) float64 {
	neg := false
	i := 0
	if len(s) > 0 {
		switch s[0] {
		case '-':
			neg = true
			i++
		case '+':
			i++
		}
	}

	// 尾数：统计位数与小数点位置
	start := i
	decPt := -1
	mant := 0
	for ; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) {
			if c != '.' || decPt >= 0 {
				break
			}
			decPt = mant
			continue
		}
		mant++
	}
	expAt := i
	if decPt < 0 {
		decPt = mant
	}
	var fracExp int
	if mant > maxMantDigits {
		fracExp = decPt - maxMantDigits
		mant = maxMantDigits
	} else {
		fracExp = decPt - mant
	}
	if mant == 0 {
		var zero float64
		if neg {
			return -zero
		}
		return zero
	}

	// 拆成高 9 位与低 9 位两段整数，避免中途丢精度
	var frac1, frac2 int64
	p := start
	next := func() int64 {
		if s[p] == '.' {
			p++
		}
		d := int64(s[p] - '0')
		p++
		return d
	}
	for ; mant > 9; mant-- {
		frac1 = frac1*10 + next()
	}
	for ; mant > 0; mant-- {
		frac2 = frac2*10 + next()
	}
	fraction := 1e9*float64(frac1) + float64(frac2)

	// 指数
	exp := 0
	expNeg := false
	if i = expAt; i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			expNeg = s[i] == '-'
			i++
		}
		if i < len(s) && isDigit(s[i]) {
			for ; i < len(s) && isDigit(s[i]); i++ {
				if exp < 1<<20 {
					exp = exp*10 + int(s[i]-'0')
				}
			}
		} else {
			expNeg = false
		}
	}
	if expNeg {
		exp = fracExp - exp
	} else {
		exp = fracExp + exp
	}

	if exp < 0 {
		expNeg = true
		exp = -exp
	} else {
		expNeg = false
	}
	if exp > maxExponent {
		exp = maxExponent
	}
	scale := 1.0
	for d := 0; exp != 0; exp, d = exp>>1, d+1 {
		if exp&1 != 0 {
			scale *= powersOf10[d]
		}
	}
	if expNeg {
		fraction /= scale
	} else {
		fraction *= scale
	}

	if neg {
		return -fraction
	}
	return fraction
}
