package json

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
)

func mustParse(t *testing.T, s string) *Value {
	t.Helper()
	v, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", s, err)
	}
	return v
}

func syntaxErr(t *testing.T, err error) *SyntaxError {
	t.Helper()
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SyntaxError", err)
	}
	return se
}

func TestParseObject(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":[true,null,"x"]}`)
	defer v.Release()

	if !v.IsObject() || v.Len() != 2 {
		t.Fatalf("root = %s len %d, want object len 2", v.Type(), v.Len())
	}
	if a := v.Key("a"); !a.IsInteger() || a.Int64() != 1 {
		t.Errorf("a = %s %d, want integer 1", a.Type(), a.Int64())
	}
	b := v.Key("b")
	if !b.IsArray() || b.Len() != 3 {
		t.Fatalf("b = %s len %d, want array len 3", b.Type(), b.Len())
	}
	if !b.Index(0).Bool() {
		t.Error("b[0] should be true")
	}
	if n := b.Index(1); !n.IsNull() || n.IsSentinel() {
		t.Error("b[1] should be a real null")
	}
	if got := b.Index(2).Str(); got != "x" {
		t.Errorf("b[2] = %q, want %q", got, "x")
	}
}

func TestParseTrailingComma(t *testing.T) {
	var root Value
	st := Parse([]byte(`[1,2,]`), &root)
	defer root.Release()
	if st != 6 {
		t.Errorf("status = %d, want 6 (offset 5)", st)
	}

	_, err := ParseString(`{"a":1,}`)
	if se := syntaxErr(t, err); se.Offset != 7 || se.Kind != KindGrammar {
		t.Errorf("err = %v, want grammar error at 7", err)
	}
}

func TestParseTopLevelScalars(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`3.14e2`, 314.0},
		{`42`, int64(42)},
		{`-7`, int64(-7)},
		{`.5`, 0.5},
		{`true`, true},
		{`false`, false},
		{`null`, nil},
		{`"str"`, "str"},
		{`'hello\u0041'`, "helloA"},
		{`  "padded"  `, "padded"},
		{`bare`, "bare"},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.in)
		if got := v.Interface(); got != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
		v.Release()
	}
	v := mustParse(t, `3.14e2`)
	if !v.IsFloat() {
		t.Errorf("3.14e2 type = %s, want float", v.Type())
	}
}

func TestParseUnterminated(t *testing.T) {
	tests := []struct {
		in  string
		off int
	}{
		{`{`, 1},
		{`[1,[2]`, 6},
		{`{"a":`, 5},
		{`"abc`, 4},
		{`   `, 3},
	}
	for _, tt := range tests {
		var root Value
		err := NewParser(nil).Parse([]byte(tt.in), &root)
		se := syntaxErr(t, err)
		if se.Kind != KindUnterminated || se.Offset != tt.off {
			t.Errorf("Parse(%q) err = %v, want unterminated at %d", tt.in, err, tt.off)
		}
		root.Release()
	}
}

func TestParseDepth(t *testing.T) {
	deep := strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth)
	v := mustParse(t, deep)
	v.Release()

	var root Value
	st := Parse([]byte(strings.Repeat("[", MaxDepth+1)), &root)
	root.Release()
	if st != MaxDepth+1 {
		t.Errorf("status = %d, want %d", st, MaxDepth+1)
	}

	p := NewParser(&Config{MaxDepth: 3})
	_, err := p.ParseString(`{"a":{"b":{"c":{"d":1}}}}`)
	if se := syntaxErr(t, err); se.Kind != KindDepthOverflow || se.Offset != 15 {
		t.Errorf("err = %v, want depth overflow at 15", err)
	}
}

func TestParseEmpty(t *testing.T) {
	var root Value
	if st := Parse(nil, &root); st != 1 {
		t.Errorf("status = %d, want 1", st)
	}
	_, err := ParseBytes([]byte{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestParseBuiltRoot(t *testing.T) {
	var root Value
	_ = root.BuildInteger(1)
	if st := Parse([]byte(`2`), &root); st != 1 {
		t.Errorf("status = %d, want 1", st)
	}
	if err := NewParser(nil).Parse([]byte(`2`), &root); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("err = %v, want ErrAlreadyBuilt", err)
	}
	if err := NewParser(nil).Parse([]byte(`2`), Null); !errors.Is(err, ErrSentinel) {
		t.Errorf("err = %v, want ErrSentinel", err)
	}
}

func TestParseGrammarErrors(t *testing.T) {
	tests := []struct {
		in  string
		off int
	}{
		{`}`, 0},
		{`]`, 0},
		{`[1 2]`, 4},
		{`{"a" 1}`, 6},
		{`{"a":1 "b":2}`, 10},
		{`{"a"}`, 4},
		{`[1]]`, 3},
		{`{} x`, 4},
		{`[,1]`, 1},
		{`{:1}`, 1},
		{`[1:2]`, 2},
		{`["a"b]`, 5},
	}
	for _, tt := range tests {
		_, err := ParseString(tt.in)
		se := syntaxErr(t, err)
		if se.Kind != KindGrammar || se.Offset != tt.off {
			t.Errorf("Parse(%q) err = %v, want grammar error at %d", tt.in, err, tt.off)
		}
	}
}

func TestParseEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"a\nb\tc"`, "a\nb\tc"},
		{`"\"\\\/\b\f\r"`, "\"\\/\b\f\r"},
		{`'it\'s'`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{`"\u00e9"`, "é"},
		{`"\u4e2d\u6587"`, "中文"},
		{`"\ud83d\ude00"`, "😀"},
		{`"\u0000"`, "\x00"},
	}
	for _, tt := range tests {
		v := mustParse(t, tt.in)
		if got := v.Str(); got != tt.want {
			t.Errorf("Parse(%s) = %q, want %q", tt.in, got, tt.want)
		}
		v.Release()
	}
}

func TestParseBadEscapes(t *testing.T) {
	tests := []struct {
		in  string
		off int
	}{
		{`"\x"`, 2},
		{`"\u12"`, 6},
		{`"\u12zz"`, 5},
		{`"\ud83d"`, 7},
		{`"\ud83dx\ude00"`, 7},
		{`"abc\`, 5},
	}
	for _, tt := range tests {
		_, err := ParseString(tt.in)
		se := syntaxErr(t, err)
		if se.Kind != KindEscape || se.Offset != tt.off {
			t.Errorf("Parse(%s) err = %v, want escape error at %d", tt.in, err, tt.off)
		}
	}
}

// TestParseBareWords 值位置上的非字面量裸字按字符串接受
func TestParseBareWords(t *testing.T) {
	v := mustParse(t, `[abc, 1e, 12a, 1.2.3, nulls]`)
	defer v.Release()
	want := []string{"abc", "1e", "12a", "1.2.3", "nulls"}
	if v.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", v.Len(), len(want))
	}
	for i, w := range want {
		el := v.Index(i)
		if !el.IsString() || el.Str() != w {
			t.Errorf("[%d] = %s %q, want string %q", i, el.Type(), el.Str(), w)
		}
	}
}

func TestParseStrictNumbers(t *testing.T) {
	p := NewParser(StrictConfig())
	tests := []struct {
		in  string
		off int
	}{
		{`[1e]`, 2},
		{`[12a]`, 3},
		{`[1.2.3]`, 4},
		{`1e+`, 2},
	}
	for _, tt := range tests {
		_, err := p.ParseString(tt.in)
		se := syntaxErr(t, err)
		if se.Kind != KindMalformedNumber || se.Offset != tt.off {
			t.Errorf("strict Parse(%q) err = %v, want malformed number at %d", tt.in, err, tt.off)
		}
	}
	v, err := p.ParseString(`[1, -2.5, 3e4, .5, abc]`)
	if err != nil {
		t.Fatalf("strict valid input: %v", err)
	}
	defer v.Release()
	if v.Index(2).Float64() != 3e4 || v.Index(4).Str() != "abc" {
		t.Errorf("strict parse = %v", v.Interface())
	}
}

func TestParseTokenOverflow(t *testing.T) {
	p := NewParser(&Config{MaxTokenLength: 4})
	if _, err := p.ParseString(`["abcd"]`); err != nil {
		t.Fatalf("4-byte token: %v", err)
	}
	_, err := p.ParseString(`["abcde"]`)
	if se := syntaxErr(t, err); se.Kind != KindTokenOverflow || se.Offset != 6 {
		t.Errorf("err = %v, want token overflow at 6", err)
	}

	big := `"` + strings.Repeat("x", MaxTokenLength+1) + `"`
	_, err = ParseString(big)
	if se := syntaxErr(t, err); se.Kind != KindTokenOverflow {
		t.Errorf("err = %v, want token overflow", err)
	}
}

// TestParseDuplicateKeys 重复键：后出现的值覆盖
func TestParseDuplicateKeys(t *testing.T) {
	v := mustParse(t, `{"a":{"x":1},"b":2,"a":"last"}`)
	defer v.Release()
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
	if got := v.GetString("a"); got != "last" {
		t.Errorf("a = %q, want %q", got, "last")
	}
}

// TestParseNumericKeys 数字 token 作为键
func TestParseNumericKeys(t *testing.T) {
	v := mustParse(t, `{1:"one", 2.5:"x", key:true}`)
	defer v.Release()
	if got := v.GetString("1"); got != "one" {
		t.Errorf(`"1" = %q, want "one"`, got)
	}
	if got := v.GetString("2.5"); got != "x" {
		t.Errorf(`"2.5" = %q, want "x"`, got)
	}
	if !v.GetBool("key") {
		t.Error("bare key missing")
	}
}

func TestParseWhitespace(t *testing.T) {
	indent := strings.Repeat(" ", 45)
	doc := "{\n" + indent + `"a"` + " :\t[\r\n" + indent + "1 ,\n" + indent + "2\n" + indent + "]\n}\n"
	v := mustParse(t, doc)
	defer v.Release()
	if got := v.Get("a").Len(); got != 2 {
		t.Errorf("a.Len() = %d, want 2", got)
	}
	if got := v.GetInt64("a", "1"); got != 2 {
		t.Errorf("a[1] = %d, want 2", got)
	}
}

func TestParseFailureDiscards(t *testing.T) {
	v, err := ParseString(`{"a":[1,2,3],"b":}`)
	if v != nil || err == nil {
		t.Fatalf("ParseString = %v, %v; want nil value and error", v, err)
	}
}

func TestParserReuse(t *testing.T) {
	p := NewParser(nil)
	for i := 0; i < 3; i++ {
		if _, err := p.ParseString(`[1,`); err == nil {
			t.Fatal("expected error")
		}
		v, err := p.ParseString(`{"n":[1,2,{"m":3}]}`)
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		if got := v.GetInt64("n", "2", "m"); got != 3 {
			t.Errorf("round %d: n[2].m = %d, want 3", i, got)
		}
		v.Release()
	}
}

// ─── 与 go-json 对照 ───

var oracleDocs = []string{
	`{}`,
	`[]`,
	`{"a":{}}`,
	`[[],[[]],{}]`,
	`{"user":{"name":"yak","age":30,"tags":["a","b"],"active":true,"score":9.5}}`,
	`[1,-2,3.5,-0.25,1e3,2E-2,0,123456789012]`,
	`{"s":"line\nbreak","u":"é中","q":"\"quoted\"","e":""}`,
	`{"nested":[{"id":1,"v":[null,false,{"deep":["x"]}]},{"id":2}]}`,
	`  { "spaced" : [ 1 , 2 ] , "k" : null }  `,
	`"😀 emoji"`,
}

// normalize 数字统一为 float64，便于与 go-json 的默认解码比较
func normalize(v any) any {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalize(x[k])
		}
		return x
	}
	return v
}

func TestParseMatchesGoJSON(t *testing.T) {
	for _, doc := range oracleDocs {
		var want any
		if err := gojson.Unmarshal([]byte(doc), &want); err != nil {
			t.Fatalf("gojson.Unmarshal(%q): %v", doc, err)
		}
		v := mustParse(t, doc)
		got := normalize(v.Interface())
		v.Release()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Parse(%q)\n got  %#v\n want %#v", doc, got, want)
		}
	}
}

// TestParseRoundTrip 解析 → go-json 编码 → 再解析，结果一致
func TestParseRoundTrip(t *testing.T) {
	for _, doc := range oracleDocs {
		v := mustParse(t, doc)
		first := v.Interface()
		v.Release()

		enc, err := gojson.Marshal(first)
		if err != nil {
			t.Fatalf("gojson.Marshal: %v", err)
		}
		w := mustParse(t, string(enc))
		second := w.Interface()
		w.Release()
		if !reflect.DeepEqual(normalize(first), normalize(second)) {
			t.Errorf("round trip of %q\n first  %#v\n second %#v", doc, first, second)
		}
	}
}

func TestErrorWindow(t *testing.T) {
	src := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	snip, caret := ErrorWindow(src, 20)
	if snip != "3456789abcdefghijklm" || caret != 17 {
		t.Errorf("ErrorWindow(20) = %q,%d", snip, caret)
	}
	snip, caret = ErrorWindow([]byte("[1,2,]"), 5)
	if snip != "[1,2,]" || caret != 5 {
		t.Errorf("ErrorWindow(5) = %q,%d", snip, caret)
	}
	snip, caret = ErrorWindow([]byte("{"), 1)
	if snip != "{" || caret != 1 {
		t.Errorf("ErrorWindow(eof) = %q,%d", snip, caret)
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	err := &SyntaxError{Offset: 5, Kind: KindGrammar}
	if got, want := err.Error(), "json: unexpected token at offset 5"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if Status(nil) != 0 || Status(err) != 6 || Status(ErrAlreadyBuilt) != 1 {
		t.Error("Status mismatch")
	}
}

// ─── Benchmarks ───

var benchDoc = []byte(`{"user":{"id":12345,"name":"yak","email":"yak@example.com","tags":["admin","dev","ops"],` +
	`"profile":{"age":30,"score":98.6,"active":true,"bio":null}},"items":[` +
	`{"sku":"A-1","qty":2,"price":19.99},{"sku":"B-2","qty":1,"price":5.5},{"sku":"C-3","qty":10,"price":0.25}]}`)

func BenchmarkParse(b *testing.B) {
	p := NewParser(nil)
	b.SetBytes(int64(len(benchDoc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var root Value
		if err := p.Parse(benchDoc, &root); err != nil {
			b.Fatal(err)
		}
		root.Release()
	}
}

func BenchmarkGoJSONUnmarshal(b *testing.B) {
	b.SetBytes(int64(len(benchDoc)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := gojson.Unmarshal(benchDoc, &v); err != nil {
			b.Fatal(err)
		}
	}
}
