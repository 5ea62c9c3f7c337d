// Package ignore 负责为一个项目构建忽略规则集合。
// 规则由基础规则、按标记文件启用的生态规则包以及项目内可选的覆盖文件组成。
package ignore

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// PatternSet 是一次分析使用的忽略规则集合，构建后不可变。
//
// 匹配语义与 shell glob 一致，但 * 可以跨越 / ：
// 包含 / 的模式会以一次 glob 测试匹配整个相对路径。
type PatternSet struct {
	patterns   []string
	globs      []glob.Glob
	ecosystems []string
	gitignore  *gitignore.GitIgnore
}

// NewPatternSet 用给定模式构建集合，去重并保持首次出现的顺序。
// 无法编译的模式会被跳过，返回值中的 rejected 列出这些模式。
func NewPatternSet(patterns []string) (set *PatternSet, rejected []string) {
	set = &PatternSet{}
	seen := make(map[string]struct{}, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if _, ok := seen[pattern]; ok {
			continue
		}
		seen[pattern] = struct{}{}

		// 不传分隔符：* 与 ? 可以匹配 /。
		compiled, err := glob.Compile(pattern)
		if err != nil {
			rejected = append(rejected, pattern)
			continue
		}
		set.patterns = append(set.patterns, pattern)
		set.globs = append(set.globs, compiled)
	}
	return set, rejected
}

// Patterns 返回集合中的全部模式（副本）。
func (s *PatternSet) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Ecosystems 返回本次启用的生态名称（副本）。
func (s *PatternSet) Ecosystems() []string {
	return append([]string(nil), s.ecosystems...)
}

// Len 返回模式数量。
func (s *PatternSet) Len() int {
	return len(s.patterns)
}

// Match 判断使用 / 分隔的相对路径是否应被忽略。
// 相对路径与文件名分别独立匹配，任意一个命中即忽略。
func (s *PatternSet) Match(relSlash string) bool {
	if s == nil {
		return false
	}
	relSlash = strings.TrimPrefix(relSlash, "./")
	name := path.Base(relSlash)

	for _, compiled := range s.globs {
		if compiled.Match(relSlash) || compiled.Match(name) {
			return true
		}
	}

	if s.gitignore != nil && s.gitignore.MatchesPath(relSlash) {
		return true
	}
	return false
}
