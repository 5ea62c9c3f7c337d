package languages

import (
	"strings"
	"testing"
)

// TestRegistryClassOf 验证后缀大小写不敏感，且多个后缀共享同一规则集。
func TestRegistryClassOf(t *testing.T) {
	registry := NewRegistry()

	cases := map[string]string{
		".TS":   "c-style",
		"go":    "c-style",
		".rs":   "c-style",
		".py":   "python",
		".rb":   "ruby",
		".html": "markup",
		".less": "stylesheet",
		".sh":   "shell",
		".md":   "plain",
	}
	for ext, expected := range cases {
		id, ok := registry.ClassOf(ext)
		if !ok || id != expected {
			t.Fatalf("ClassOf(%s) = %q, %v; want %q", ext, id, ok, expected)
		}
	}

	if _, ok := registry.ClassOf(".txt"); ok {
		t.Fatalf("expected .txt to be unknown")
	}
	if rules := registry.RulesFor(".txt"); rules != nil {
		t.Fatalf("expected nil rules for unknown extension")
	}
}

// TestRegistryRulesForFile 验证通过文件路径查找规则。
func TestRegistryRulesForFile(t *testing.T) {
	registry := NewRegistry()

	if id := registry.RulesForFile("src/App.TSX").ID(); id != "c-style" {
		t.Fatalf("expected c-style for App.TSX, got %q", id)
	}
	if id := registry.RulesForFile("Makefile").ID(); id != "" {
		t.Fatalf("expected no rules for Makefile, got %q", id)
	}
}

// TestRegistryDefaultExtensionsCovered 确认默认后缀全部有规则集。
func TestRegistryDefaultExtensionsCovered(t *testing.T) {
	registry := NewRegistry()
	for _, ext := range DefaultExtensions() {
		if _, ok := registry.ClassOf(ext); !ok {
			t.Fatalf("missing rule set for default extension %s", ext)
		}
	}
}

// TestRegistryDuplicateExtension 验证同一后缀不能归属两个规则集。
func TestRegistryDuplicateExtension(t *testing.T) {
	_, err := NewRegistryFromRuleSets([]RuleSet{
		{ID: "a", Extensions: []string{".x"}},
		{ID: "b", Extensions: []string{"X"}},
	})
	if err == nil || !strings.Contains(err.Error(), "mapped to both") {
		t.Fatalf("expected duplicate extension error, got %v", err)
	}
}

// TestRegistryInvalidPattern 验证非法正则在构建时即报错。
func TestRegistryInvalidPattern(t *testing.T) {
	_, err := NewRegistryFromRuleSets([]RuleSet{
		{ID: "bad", Extensions: []string{".bad"}, Patterns: []CommentPattern{{Kind: Line, Expr: `(`}}},
	})
	if err == nil {
		t.Fatalf("expected compile error, got nil")
	}
}

// TestRegistryLanguages 验证对外清单按名称排序且后缀已规范化。
func TestRegistryLanguages(t *testing.T) {
	languages := NewRegistry().Languages()
	if len(languages) != 7 {
		t.Fatalf("unexpected rule set count: %d", len(languages))
	}
	for i := 1; i < len(languages); i++ {
		if languages[i-1].Name > languages[i].Name {
			t.Fatalf("languages not sorted: %s > %s", languages[i-1].Name, languages[i].Name)
		}
	}
}

// TestNormalizeExtensions 验证后缀规范化与去重。
func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{"py", ".PY", " go ", "", ".Rs"})
	want := []string{".py", ".go", ".rs"}

	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
