// Package classify 决定单个文件是否被忽略、是否在统计范围内，以及属于生产代码还是测试代码。
// 测试识别完全基于路径与文件名的启发式规则，不依赖任何语言知识。
package classify

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"tokloc/internal/ignore"
	"tokloc/internal/languages"
	"tokloc/internal/model"
)

var (
	// testDirPatterns 对目录名做整段匹配（带锚点），避免 contests 之类的误判。
	testDirPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?i:tests?|specs?|__tests?__)$`),
		regexp.MustCompile(`^(?i:.*[._-](?:test|spec)[._-].*)$`),
	}

	// testFileSuffix 匹配 xxx_test.<ext> 形式的文件名。
	testFileSuffix = regexp.MustCompile(`_test\.[^.]+$`)
)

// Decision 是对单个文件的分类结论。
type Decision struct {
	InScope  bool
	Category model.Category
}

// Classifier 持有本次分析的后缀白名单，构建后只读。
type Classifier struct {
	extensions map[string]struct{}
}

// NewClassifier 用后缀列表创建分类器；列表为空时使用默认后缀。
func NewClassifier(extensions []string) *Classifier {
	normalized := languages.NormalizeExtensions(extensions)
	if len(normalized) == 0 {
		normalized = languages.DefaultExtensions()
	}

	allowed := make(map[string]struct{}, len(normalized))
	for _, ext := range normalized {
		allowed[ext] = struct{}{}
	}
	return &Classifier{extensions: allowed}
}

// InScope 判断文件名的小写后缀是否在白名单内。
func (c *Classifier) InScope(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := c.extensions[ext]
	return ok
}

// Classify 对使用 / 分隔的相对路径给出范围与分类结论。
func (c *Classifier) Classify(relSlash string) Decision {
	name := path.Base(relSlash)
	return Decision{
		InScope:  c.InScope(name),
		Category: CategoryOf(relSlash),
	}
}

// CategoryOf 根据目录段与文件名判断文件是测试代码还是生产代码。
func CategoryOf(relSlash string) model.Category {
	dir, name := path.Split(relSlash)
	if isTestFileName(name) {
		return model.Test
	}

	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}
		if isTestDirName(segment) {
			return model.Test
		}
	}
	return model.Production
}

// isTestDirName 判断目录名是否为测试目录。
func isTestDirName(segment string) bool {
	for _, pattern := range testDirPatterns {
		if pattern.MatchString(segment) {
			return true
		}
	}
	return false
}

// isTestFileName 判断文件名本身是否带测试标记（大小写不敏感）。
func isTestFileName(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "test_"):
		return true
	case testFileSuffix.MatchString(lower):
		return true
	case strings.Contains(lower, ".test."), strings.Contains(lower, ".spec."):
		return true
	default:
		return false
	}
}

// RelSlash 计算相对 root 的路径并统一为 / 分隔，保证模式在各平台一致。
// 无法计算相对路径时退回原路径。
func RelSlash(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		rel = target
	}
	return filepath.ToSlash(rel)
}

// ShouldIgnore 判断文件是否命中忽略规则。
// 相对路径与文件名分别独立匹配，任意一个命中即忽略。
func ShouldIgnore(target, root string, patterns *ignore.PatternSet) bool {
	return patterns.Match(RelSlash(root, target))
}
