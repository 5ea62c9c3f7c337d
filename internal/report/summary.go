// Package report 提供 tokloc 的报告模型与输出能力。
// 报告只做算术汇总，不做任何分类决策。
package report

import (
	"sort"

	"tokloc/internal/model"
)

// ContextWindow 表示一个模型的上下文窗口大小。
type ContextWindow struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Tokens int64  `json:"tokens" yaml:"tokens" mapstructure:"tokens"`
}

// DefaultContextWindows 返回默认的模型上下文窗口表。
func DefaultContextWindows() []ContextWindow {
	return []ContextWindow{
		{Name: "GPT-3.5 (4K)", Tokens: 4_096},
		{Name: "GPT-4 (8K)", Tokens: 8_192},
		{Name: "GPT-3.5 Turbo (16K)", Tokens: 16_385},
		{Name: "GPT-4 (32K)", Tokens: 32_768},
		{Name: "GPT-4 Turbo (128K)", Tokens: 128_000},
		{Name: "Claude (200K)", Tokens: 200_000},
	}
}

// Totals 是某个分类（或合计）的汇总值。
// Percent 表示该分类 token 占合计 token 的百分比。
type Totals struct {
	Files   int64   `json:"files" yaml:"files"`
	Lines   int64   `json:"lines" yaml:"lines"`
	Tokens  int64   `json:"tokens" yaml:"tokens"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// ExtensionRow 是按后缀拆分的一行数据。
type ExtensionRow struct {
	Extension string  `json:"extension" yaml:"extension"`
	Files     int64   `json:"files" yaml:"files"`
	Lines     int64   `json:"lines" yaml:"lines"`
	Tokens    int64   `json:"tokens" yaml:"tokens"`
	Percent   float64 `json:"percent" yaml:"percent"`
}

// WindowUsage 表示合计 token 占某个上下文窗口的百分比（封顶 100）。
type WindowUsage struct {
	Name    string  `json:"name" yaml:"name"`
	Window  int64   `json:"window" yaml:"window"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Summary 是交给输出层的只读报告模型。
type Summary struct {
	ProjectPath    string              `json:"project_path" yaml:"project_path"`
	Ecosystems     []string            `json:"ecosystems" yaml:"ecosystems"`
	Production     Totals              `json:"production" yaml:"production"`
	Test           Totals              `json:"test" yaml:"test"`
	Combined       Totals              `json:"combined" yaml:"combined"`
	Extensions     []ExtensionRow      `json:"extensions" yaml:"extensions"`
	TopProduction  []model.FileRecord  `json:"top_production" yaml:"top_production"`
	TopTest        []model.FileRecord  `json:"top_test" yaml:"top_test"`
	ContextWindows []WindowUsage       `json:"context_windows" yaml:"context_windows"`
	Skipped        []model.SkippedFile `json:"skipped" yaml:"skipped"`
}

// Build 根据分析结果计算报告模型。windows 为空时使用默认窗口表。
func Build(result *model.AnalysisResult, windows []ContextWindow) Summary {
	if len(windows) == 0 {
		windows = DefaultContextWindows()
	}

	production := totalsOf(result.Production)
	test := totalsOf(result.Test)
	combined := Totals{
		Files:  production.Files + test.Files,
		Lines:  production.Lines + test.Lines,
		Tokens: production.Tokens + test.Tokens,
	}
	production.Percent = Share(production.Tokens, combined.Tokens)
	test.Percent = Share(test.Tokens, combined.Tokens)
	if combined.Tokens > 0 {
		combined.Percent = 100
	}

	summary := Summary{
		ProjectPath:    result.ProjectPath,
		Ecosystems:     append([]string(nil), result.Ecosystems...),
		Production:     production,
		Test:           test,
		Combined:       combined,
		Extensions:     mergeExtensions(combined.Tokens, result.Production, result.Test),
		TopProduction:  topFilesOf(result.Production),
		TopTest:        topFilesOf(result.Test),
		ContextWindows: make([]WindowUsage, 0, len(windows)),
		Skipped:        append([]model.SkippedFile(nil), result.Skipped...),
	}
	for _, window := range windows {
		summary.ContextWindows = append(summary.ContextWindows, WindowUsage{
			Name:    window.Name,
			Window:  window.Tokens,
			Percent: Usage(combined.Tokens, window.Tokens),
		})
	}
	return summary
}

// Usage 计算 min(100, tokens / window * 100)。窗口非正数时返回 0。
func Usage(tokens int64, window int64) float64 {
	if window <= 0 {
		return 0
	}
	return min(100, float64(tokens)/float64(window)*100)
}

// Share 计算 part 占 total 的百分比，total 为 0 时返回 0。
func Share(part int64, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// totalsOf 读取单个分类的总计，nil 视为空分类。
func totalsOf(stats *model.CategoryStats) Totals {
	if stats == nil {
		return Totals{}
	}
	return Totals{Files: stats.Files, Lines: stats.Lines, Tokens: stats.Tokens}
}

// topFilesOf 复制单个分类的排行榜。
func topFilesOf(stats *model.CategoryStats) []model.FileRecord {
	if stats == nil {
		return []model.FileRecord{}
	}
	return append([]model.FileRecord{}, stats.TopFiles...)
}

// mergeExtensions 合并两个分类的后缀统计，按 token 降序、后缀升序排列。
func mergeExtensions(totalTokens int64, categories ...*model.CategoryStats) []ExtensionRow {
	merged := make(map[string]*model.ExtensionStats)
	for _, stats := range categories {
		if stats == nil {
			continue
		}
		for ext, item := range stats.ByExtension {
			target, ok := merged[ext]
			if !ok {
				target = &model.ExtensionStats{}
				merged[ext] = target
			}
			target.Add(*item)
		}
	}

	rows := make([]ExtensionRow, 0, len(merged))
	for ext, item := range merged {
		rows = append(rows, ExtensionRow{
			Extension: ext,
			Files:     item.Files,
			Lines:     item.Lines,
			Tokens:    item.Tokens,
			Percent:   Share(item.Tokens, totalTokens),
		})
	}

	sort.Slice(rows, func(i int, j int) bool {
		if rows[i].Tokens != rows[j].Tokens {
			return rows[i].Tokens > rows[j].Tokens
		}
		return rows[i].Extension < rows[j].Extension
	})
	return rows
}
