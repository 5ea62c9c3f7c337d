// Package model 定义 tokloc 的核心数据模型。
// 这些结构会被扫描器、输出层和命令层共同使用。
package model

import "slices"

// MaxTopFiles 是每个分类下保留的最大文件排行数量。
const MaxTopFiles = 10

// Category 表示文件所属的分类：生产代码或测试代码。
type Category string

const (
	// Production 表示生产代码。
	Production Category = "production"
	// Test 表示测试代码。
	Test Category = "test"
)

// FileRecord 表示单个被统计文件的结果。
//
// 注意：
// - Lines 是去掉注释与空行后的逻辑行数
// - Tokens 基于原始文件内容计算，不受注释剥离影响
type FileRecord struct {
	Path      string   `json:"path" yaml:"path"`
	Extension string   `json:"extension" yaml:"extension"`
	Lines     int64    `json:"lines" yaml:"lines"`
	Tokens    int64    `json:"tokens" yaml:"tokens"`
	Category  Category `json:"category" yaml:"category"`
}

// ExtensionStats 表示某个后缀在一个分类下的聚合结果。
type ExtensionStats struct {
	Files  int64 `json:"files" yaml:"files"`
	Lines  int64 `json:"lines" yaml:"lines"`
	Tokens int64 `json:"tokens" yaml:"tokens"`
}

// Add 将另一个后缀统计叠加到当前对象。
func (s *ExtensionStats) Add(other ExtensionStats) {
	s.Files += other.Files
	s.Lines += other.Lines
	s.Tokens += other.Tokens
}

// CategoryStats 是单个分类的累加器。
// 扫描过程中逐个文件叠加，扫描结束后只读。
type CategoryStats struct {
	Files       int64                      `json:"files" yaml:"files"`
	Lines       int64                      `json:"lines" yaml:"lines"`
	Tokens      int64                      `json:"tokens" yaml:"tokens"`
	ByExtension map[string]*ExtensionStats `json:"by_extension" yaml:"by_extension"`
	TopFiles    []FileRecord               `json:"top_files" yaml:"top_files"`
}

// NewCategoryStats 创建一个空的分类累加器。
func NewCategoryStats() *CategoryStats {
	return &CategoryStats{
		ByExtension: make(map[string]*ExtensionStats),
		TopFiles:    make([]FileRecord, 0, MaxTopFiles+1),
	}
}

// Add 把一个文件结果叠加到分类统计中。
//
// 排行榜约束：
// - 插入后按 token 数降序重排，token 相同时保持插入先后顺序（稳定排序）
// - 只保留前 MaxTopFiles 个
func (s *CategoryStats) Add(record FileRecord) {
	s.Files++
	s.Lines += record.Lines
	s.Tokens += record.Tokens

	if s.ByExtension == nil {
		s.ByExtension = make(map[string]*ExtensionStats)
	}
	ext, ok := s.ByExtension[record.Extension]
	if !ok {
		ext = &ExtensionStats{}
		s.ByExtension[record.Extension] = ext
	}
	ext.Add(ExtensionStats{Files: 1, Lines: record.Lines, Tokens: record.Tokens})

	s.TopFiles = append(s.TopFiles, record)
	slices.SortStableFunc(s.TopFiles, func(a, b FileRecord) int {
		switch {
		case a.Tokens > b.Tokens:
			return -1
		case a.Tokens < b.Tokens:
			return 1
		default:
			return 0
		}
	})
	if len(s.TopFiles) > MaxTopFiles {
		s.TopFiles = s.TopFiles[:MaxTopFiles]
	}
}

// SkippedFile 记录被跳过的文件及原因。
// 设计为“跳过不阻断全量扫描”，二进制、不可读文件都会落在这里。
type SkippedFile struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// AnalysisResult 是一次分析的完整输出。
// 包含生产/测试两个分类的统计、被跳过文件和本次启用的生态。
type AnalysisResult struct {
	ProjectPath string         `json:"project_path" yaml:"project_path"`
	Ecosystems  []string       `json:"ecosystems" yaml:"ecosystems"`
	Production  *CategoryStats `json:"production" yaml:"production"`
	Test        *CategoryStats `json:"test" yaml:"test"`
	Skipped     []SkippedFile  `json:"skipped" yaml:"skipped"`
}

// NewAnalysisResult 创建一个空的分析结果。
func NewAnalysisResult(projectPath string) *AnalysisResult {
	return &AnalysisResult{
		ProjectPath: projectPath,
		Ecosystems:  make([]string, 0),
		Production:  NewCategoryStats(),
		Test:        NewCategoryStats(),
		Skipped:     make([]SkippedFile, 0),
	}
}

// Fold 按文件分类把结果叠加到对应累加器。
func (r *AnalysisResult) Fold(record FileRecord) {
	r.Stats(record.Category).Add(record)
}

// Stats 返回指定分类的累加器，未知分类按生产代码处理。
func (r *AnalysisResult) Stats(category Category) *CategoryStats {
	if category == Test {
		return r.Test
	}
	return r.Production
}
