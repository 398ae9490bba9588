package fileutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeModelJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		A int `json:"a"`
	}

	cases := []struct {
		name string
		in   string
		want int
	}{
		{"plain", `{"a":1}`, 1},
		{"whitespace", "\n  {\"a\":2}  \n", 2},
		{"fenced", "```json\n{\"a\":3}\n```", 3},
		{"prose", "Sure! Here you go: {\"a\":4} hope that helps", 4},
	}
	for _, tc := range cases {
		var p payload
		if err := DecodeModelJSON(tc.in, &p); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if p.A != tc.want {
			t.Fatalf("%s: a=%d", tc.name, p.A)
		}
	}

	var arr []int
	if err := DecodeModelJSON("result: [1,2,3]", &arr); err != nil {
		t.Fatalf("array: %v", err)
	}
	if len(arr) != 3 {
		t.Fatalf("arr=%v", arr)
	}

	var p payload
	if err := DecodeModelJSON("   ", &p); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty err=%v", err)
	}
	if err := DecodeModelJSON("no json here", &p); err == nil || !strings.Contains(err.Error(), "no JSON object found") {
		t.Fatalf("garbage err=%v", err)
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	t.Parallel()

	if got := Truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("got=%q", got)
	}
	got := Truncate("héllo wörld", 2)
	if got != "h…" {
		t.Fatalf("got=%q", got)
	}
}

func TestWriteNewFileAtomicRespectsOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "out.md")
	if err := WriteNewFileAtomic(p, []byte("one"), false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteNewFileAtomic(p, []byte("two"), false); err == nil {
		t.Fatalf("expected refusal without overwrite")
	}
	if err := WriteNewFileAtomic(p, []byte("three"), true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "three" {
		t.Fatalf("content=%q", string(b))
	}
	entries, _ := os.ReadDir(filepath.Dir(p))
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, got %d entries", len(entries))
	}
}

func TestAppendJSONL(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "index.jsonl")
	type row struct {
		ID string `json:"id"`
	}
	if err := AppendJSONL(p, []row{{ID: "a"}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendJSONL(p, []row{{ID: "b"}, {ID: "c"}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	b, _ := os.ReadFile(p)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 || lines[2] != `{"id":"c"}` {
		t.Fatalf("lines=%q", lines)
	}
}

func TestReadYAMLFileRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	type cfg struct {
		Mode string `yaml:"mode"`
	}
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(good, []byte("mode: BRIDGE_MODE\n"), 0o644)
	_ = os.WriteFile(bad, []byte("mode: X\nmood: Y\n"), 0o644)

	var c cfg
	if err := ReadYAMLFile(good, &c); err != nil || c.Mode != "BRIDGE_MODE" {
		t.Fatalf("good: cfg=%+v err=%v", c, err)
	}
	if err := ReadYAMLFile(bad, &c); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
