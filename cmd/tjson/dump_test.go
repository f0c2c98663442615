package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/uniyakcom/tjson/json"
)

func TestPrintTree(t *testing.T) {
	root, err := json.ParseString(`[1,"a",[true,null],2.5]`)
	if err != nil {
		t.Fatal(err)
	}
	defer root.Release()

	var buf bytes.Buffer
	printTree(&buf, root, "", false)
	want := "[\n  1,\n  \"a\",\n  [\n    true,\n    null\n  ],\n  2.500000\n]"
	if buf.String() != want {
		t.Errorf("printTree =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrintTreeObject(t *testing.T) {
	root, err := json.ParseString(`{"k":{"x":-1}}`)
	if err != nil {
		t.Fatal(err)
	}
	defer root.Release()

	var buf bytes.Buffer
	printTree(&buf, root, "", false)
	want := "{\n  \"k\":{\n    \"x\":-1\n  }\n}"
	if buf.String() != want {
		t.Errorf("printTree =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrintError(t *testing.T) {
	color.NoColor = true
	src := []byte(`{"list":[1,2,3,],"other":true}`)
	_, err := json.ParseBytes(src)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	var buf bytes.Buffer
	printError(&buf, src, err)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output = %q", buf.String())
	}
	caret := strings.Index(lines[2], "^")
	if caret < 0 || lines[1][caret] != ']' {
		t.Errorf("caret under %q, want ']'\n%s", lines[1][caret:caret+1], buf.String())
	}
}

func TestWalk(t *testing.T) {
	root, err := json.ParseString(`{"a":[1,{"b":2}],"c":"x"}`)
	if err != nil {
		t.Fatal(err)
	}
	defer root.Release()
	var s docStats
	walk(root, 1, &s)
	if s.values != 6 || s.objects != 2 || s.arrays != 1 || s.depth != 4 {
		t.Errorf("walk = %+v", s)
	}
}
