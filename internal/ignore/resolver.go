package ignore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Resolver 根据项目根目录构建 PatternSet。
// 所有字段在构建后只读；零值字段会在 NewResolver 中填充默认值。
type Resolver struct {
	Common           []string
	Ecosystems       []Ecosystem
	OverrideFile     string
	RespectGitignore bool
	Logger           zerolog.Logger
}

// NewResolver 创建带内置规则的解析器。
func NewResolver() *Resolver {
	return &Resolver{
		Common:       CommonPatterns(),
		Ecosystems:   DefaultEcosystems(),
		OverrideFile: DefaultOverrideFile,
		Logger:       zerolog.Nop(),
	}
}

// Resolve 构建项目的忽略规则集合。
//
// 该函数不会返回错误：
// - 根目录无法读取时不启用任何生态
// - 覆盖文件缺失或读取失败时只使用基础规则与生态规则
func (r *Resolver) Resolve(projectRoot string) *PatternSet {
	patterns := append([]string(nil), r.Common...)

	entries := r.rootEntries(projectRoot)
	var activated []string
	for _, eco := range r.Ecosystems {
		if !hasMarker(entries, eco.Markers) {
			continue
		}
		activated = append(activated, eco.Name)
		patterns = append(patterns, eco.Patterns...)
	}

	patterns = append(patterns, r.readOverride(projectRoot)...)

	set, rejected := NewPatternSet(patterns)
	for _, pattern := range rejected {
		r.Logger.Debug().Str("pattern", pattern).Msg("skip invalid ignore pattern")
	}
	set.ecosystems = activated

	if r.RespectGitignore {
		set.gitignore = r.loadGitignore(projectRoot)
	}

	r.Logger.Debug().
		Strs("ecosystems", activated).
		Int("patterns", set.Len()).
		Msg("ignore patterns resolved")
	return set
}

// rootEntries 读取根目录下的条目名称，仅用于标记文件存在性检查。
func (r *Resolver) rootEntries(projectRoot string) []string {
	dirEntries, err := os.ReadDir(projectRoot)
	if err != nil {
		r.Logger.Debug().Err(err).Str("root", projectRoot).Msg("read project root for markers")
		return nil
	}
	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		names = append(names, entry.Name())
	}
	return names
}

// hasMarker 判断根目录条目中是否存在任意一个标记。
func hasMarker(entries []string, markers []string) bool {
	for _, marker := range markers {
		isPattern := strings.ContainsAny(marker, "*?[")
		for _, name := range entries {
			if !isPattern {
				if name == marker {
					return true
				}
				continue
			}
			if ok, _ := path.Match(marker, name); ok {
				return true
			}
		}
	}
	return false
}

// readOverride 读取覆盖文件，忽略空行与 # 开头的注释行。
// 读取中途失败时整份覆盖文件作废。
func (r *Resolver) readOverride(projectRoot string) []string {
	if r.OverrideFile == "" {
		return nil
	}
	overridePath := filepath.Join(projectRoot, r.OverrideFile)

	file, err := os.Open(overridePath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.Logger.Debug().Err(err).Str("path", overridePath).Msg("override ignore file unreadable")
		}
		return nil
	}
	defer func() {
		_ = file.Close()
	}()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		r.Logger.Debug().Err(err).Str("path", overridePath).Msg("override ignore file malformed")
		return nil
	}
	return patterns
}

// loadGitignore 尝试编译根目录下的 .gitignore，失败返回 nil。
func (r *Resolver) loadGitignore(projectRoot string) *gitignore.GitIgnore {
	gi, err := gitignore.CompileIgnoreFile(filepath.Join(projectRoot, ".gitignore"))
	if err != nil {
		r.Logger.Debug().Err(err).Msg("no usable .gitignore")
		return nil
	}
	return gi
}
