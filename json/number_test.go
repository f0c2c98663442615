package json

import (
	"math"
	"strconv"
	"testing"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"-17", -17},
		{"+8", 8},
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775808", math.MinInt64},
		{"12abc", 12},
		{"", 0},
		{"-", 0},
	}
	for _, tt := range tests {
		if got := ParseInteger([]byte(tt.in)); got != tt.want {
			t.Errorf("ParseInteger(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestParseIntegerDigitLimit 最多消费 20 位数字
func TestParseIntegerDigitLimit(t *testing.T) {
	a := ParseInteger([]byte("123456789012345678901"))
	b := ParseInteger([]byte("12345678901234567890"))
	if a != b {
		t.Errorf("21-digit input = %d, want same as 20-digit %d", a, b)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []string{
		"0", "1", "-1", "3.14", "3.14e2", "1e10", "1E-5", "-2.5e+3",
		".5", "-.25", "123456.789", "0.000001", "1.5e300",
		"2.5e-300", "6.02214076e23", "42.",
	}
	for _, in := range tests {
		want, err := strconv.ParseFloat(in, 64)
		if err != nil {
			t.Fatalf("strconv.ParseFloat(%q): %v", in, err)
		}
		got := ParseFloat([]byte(in))
		if !closeEnough(got, want) {
			t.Errorf("ParseFloat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFloatEdges(t *testing.T) {
	if got := ParseFloat([]byte("3.14e2")); got != 314 {
		t.Errorf("ParseFloat(3.14e2) = %v, want 314", got)
	}
	if got := ParseFloat([]byte("1e999")); !math.IsInf(got, 1) {
		t.Errorf("ParseFloat(1e999) = %v, want +Inf", got)
	}
	if got := ParseFloat([]byte("1e-999")); got != 0 {
		t.Errorf("ParseFloat(1e-999) = %v, want 0", got)
	}
	if got := ParseFloat([]byte("-0.0")); got != 0 || !math.Signbit(got) {
		t.Errorf("ParseFloat(-0.0) = %v, want -0", got)
	}
	// 指数标记后无数字：忽略指数
	if got := ParseFloat([]byte("2.5e")); got != 2.5 {
		t.Errorf("ParseFloat(2.5e) = %v, want 2.5", got)
	}
	// 超过 18 位有效数字的部分折算进指数
	if got := ParseFloat([]byte("12345678901234567890123")); !closeEnough(got, 1.2345678901234567890123e22) {
		t.Errorf("ParseFloat(long mantissa) = %v", got)
	}
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	d := math.Abs(a - b)
	m := math.Max(math.Abs(a), math.Abs(b))
	return d <= m*1e-14
}

func BenchmarkParseFloat(b *testing.B) {
	in := []byte("-12345.6789e-3")
	for i := 0; i < b.N; i++ {
		_ = ParseFloat(in)
	}
}

func BenchmarkParseInteger(b *testing.B) {
	in := []byte("-1234567890123")
	for i := 0; i < b.N; i++ {
		_ = ParseInteger(in)
	}
}
