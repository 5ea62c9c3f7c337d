package languages

import (
	"fmt"
	"regexp"
)

// PatternKind 区分注释模式的作用范围。
type PatternKind int

const (
	// Block 表示跨行块注释，作用于整段文本。
	Block PatternKind = iota
	// Line 表示单行注释，作用于单行文本（整行或行尾）。
	Line
)

// String 返回模式类型名称。
func (k PatternKind) String() string {
	if k == Block {
		return "block"
	}
	return "line"
}

// CommentPattern 是一条注释匹配规则。
type CommentPattern struct {
	Kind PatternKind
	Expr string
}

// RuleSet 是一组共享注释规则的语言定义。
// 多个后缀可以映射到同一个 RuleSet（例如 js/ts/java/go 共用 C 风格注释）。
type RuleSet struct {
	ID         string
	Extensions []string
	Patterns   []CommentPattern
}

// DefaultRuleSets 返回内置的注释规则表。
// 每次调用都返回新的切片，调用方可以放心修改。
func DefaultRuleSets() []RuleSet {
	return []RuleSet{
		{
			ID:         "python",
			Extensions: []string{".py"},
			Patterns: []CommentPattern{
				{Kind: Line, Expr: `#.*`},
				{Kind: Block, Expr: `""".*?"""`},
				{Kind: Block, Expr: `'''.*?'''`},
			},
		},
		{
			ID: "c-style",
			Extensions: []string{
				".js", ".jsx", ".ts", ".tsx", ".java", ".c", ".cpp", ".h", ".hpp",
				".cs", ".go", ".php", ".swift", ".kt", ".rs", ".scala",
			},
			Patterns: []CommentPattern{
				{Kind: Line, Expr: `//.*`},
				{Kind: Block, Expr: `/\*.*?\*/`},
			},
		},
		{
			ID:         "ruby",
			Extensions: []string{".rb"},
			Patterns: []CommentPattern{
				{Kind: Line, Expr: `#.*`},
				{Kind: Block, Expr: `=begin.*?=end`},
			},
		},
		{
			ID:         "markup",
			Extensions: []string{".html"},
			Patterns: []CommentPattern{
				{Kind: Block, Expr: `<!--.*?-->`},
			},
		},
		{
			ID:         "stylesheet",
			Extensions: []string{".css", ".scss", ".sass", ".less"},
			Patterns: []CommentPattern{
				{Kind: Block, Expr: `/\*.*?\*/`},
				{Kind: Line, Expr: `//.*`},
			},
		},
		{
			ID:         "shell",
			Extensions: []string{".sh"},
			Patterns: []CommentPattern{
				{Kind: Line, Expr: `#.*`},
			},
		},
		{
			// markdown/json/yaml 没有传统意义上的代码注释。
			ID:         "plain",
			Extensions: []string{".md", ".json", ".yml", ".yaml"},
		},
	}
}

// DefaultExtensions 返回默认统计的后缀列表（带点号、小写）。
func DefaultExtensions() []string {
	return []string{
		".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".c", ".cpp", ".h", ".hpp",
		".cs", ".go", ".rb", ".php", ".swift", ".kt", ".rs", ".scala", ".sh",
		".html", ".css", ".scss", ".sass", ".less", ".json", ".yml", ".yaml", ".md",
	}
}

// Rules 是编译后的注释规则，构建后只读，可被多个 goroutine 共享。
type Rules struct {
	id     string
	blocks []*regexp.Regexp
	// lines 与 wholeLines 一一对应：前者用于查找行内注释，后者用于整行匹配。
	lines      []*regexp.Regexp
	wholeLines []*regexp.Regexp
}

// compileRuleSet 编译一组注释规则。
// 块注释开启 (?s)，使 . 可以匹配换行；整行规则额外加锚点做全量匹配。
func compileRuleSet(set RuleSet) (*Rules, error) {
	rules := &Rules{id: set.ID}
	for _, pattern := range set.Patterns {
		switch pattern.Kind {
		case Block:
			expr, err := regexp.Compile(`(?s)` + pattern.Expr)
			if err != nil {
				return nil, fmt.Errorf("compile block pattern %q of %s: %w", pattern.Expr, set.ID, err)
			}
			rules.blocks = append(rules.blocks, expr)
		case Line:
			expr, err := regexp.Compile(pattern.Expr)
			if err != nil {
				return nil, fmt.Errorf("compile line pattern %q of %s: %w", pattern.Expr, set.ID, err)
			}
			whole, err := regexp.Compile(`^(?:` + pattern.Expr + `)$`)
			if err != nil {
				return nil, fmt.Errorf("compile line pattern %q of %s: %w", pattern.Expr, set.ID, err)
			}
			rules.lines = append(rules.lines, expr)
			rules.wholeLines = append(rules.wholeLines, whole)
		default:
			return nil, fmt.Errorf("unknown pattern kind %d in %s", pattern.Kind, set.ID)
		}
	}
	return rules, nil
}

// ID 返回规则集名称。nil 规则返回空字符串。
func (r *Rules) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}
