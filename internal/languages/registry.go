// Package languages 维护后缀到注释规则集的映射，并提供基于模式的注释剥离。
// 注释识别是启发式的，不做任何语法解析。
package languages

import (
	"fmt"
	"path/filepath"
	"sort"
)

// LanguageDescriptor 用于对外展示规则集及后缀信息。
type LanguageDescriptor struct {
	Name       string
	Extensions []string
	Patterns   []CommentPattern
}

// Registry 管理规则集注册与后缀映射。
// 构建完成后只读，可以在多个 worker 间共享。
type Registry struct {
	sets      []RuleSet
	rulesByID map[string]*Rules
	idByExt   map[string]string
}

// NewRegistry 创建并注册所有内置规则集。
func NewRegistry() *Registry {
	registry, err := NewRegistryFromRuleSets(DefaultRuleSets())
	if err != nil {
		// 内置规则是常量，编译失败只可能是代码错误。
		panic(err)
	}
	return registry
}

// NewRegistryFromRuleSets 用自定义规则集构建注册中心。
// 同一个后缀出现在多个规则集中时返回错误。
func NewRegistryFromRuleSets(sets []RuleSet) (*Registry, error) {
	registry := &Registry{
		sets:      make([]RuleSet, 0, len(sets)),
		rulesByID: make(map[string]*Rules, len(sets)),
		idByExt:   make(map[string]string),
	}

	for _, set := range sets {
		if _, exists := registry.rulesByID[set.ID]; exists {
			return nil, fmt.Errorf("duplicate rule set %q", set.ID)
		}
		rules, err := compileRuleSet(set)
		if err != nil {
			return nil, err
		}
		registry.rulesByID[set.ID] = rules

		normalized := NormalizeExtensions(set.Extensions)
		for _, ext := range normalized {
			if owner, taken := registry.idByExt[ext]; taken {
				return nil, fmt.Errorf("extension %s mapped to both %s and %s", ext, owner, set.ID)
			}
			registry.idByExt[ext] = set.ID
		}

		set.Extensions = normalized
		set.Patterns = append([]CommentPattern(nil), set.Patterns...)
		registry.sets = append(registry.sets, set)
	}

	return registry, nil
}

// ClassOf 返回后缀所属规则集名称；未知后缀返回空字符串与 false。
func (r *Registry) ClassOf(ext string) (string, bool) {
	id, ok := r.idByExt[NormalizeExtension(ext)]
	return id, ok
}

// RulesFor 根据后缀查找编译后的规则。未知后缀返回 nil，等价于空规则。
func (r *Registry) RulesFor(ext string) *Rules {
	id, ok := r.ClassOf(ext)
	if !ok {
		return nil
	}
	return r.rulesByID[id]
}

// RulesForFile 根据文件路径的后缀查找规则。
func (r *Registry) RulesForFile(path string) *Rules {
	return r.RulesFor(filepath.Ext(path))
}

// Strip 按后缀对应的规则剥离注释。
func (r *Registry) Strip(content string, ext string) (int, string) {
	return r.RulesFor(ext).Strip(content)
}

// Languages 返回已注册规则集清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.sets))
	for _, set := range r.sets {
		extensions := append([]string(nil), set.Extensions...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Name:       set.ID,
			Extensions: extensions,
			Patterns:   append([]CommentPattern(nil), set.Patterns...),
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
