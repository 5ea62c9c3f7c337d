package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"tokloc/internal/model"
)

// Format 表示报告输出格式。
type Format string

const (
	// FormatTable 是控制台表格输出。
	FormatTable Format = "table"
	// FormatJSON 是 JSON 输出。
	FormatJSON Format = "json"
	// FormatYAML 是 YAML 输出。
	FormatYAML Format = "yaml"
)

// ParseFormat 解析用户输入的格式名称。
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatTable, "":
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, allowed values: table, json, yaml", raw)
	}
}

// Print 按格式把报告写到 writer。
func Print(writer io.Writer, format Format, summary Summary) error {
	switch format {
	case FormatJSON:
		return PrintJSON(writer, summary)
	case FormatYAML:
		return PrintYAML(writer, summary)
	default:
		return PrintTable(writer, summary)
	}
}

// PrintTable 使用表格展示分析结果。
func PrintTable(writer io.Writer, summary Summary) error {
	renderer := lipgloss.NewRenderer(writer)
	title := renderer.NewStyle().Bold(true)
	cell := renderer.NewStyle().Padding(0, 1)
	header := cell.Foreground(lipgloss.Color("252")).Bold(true)

	newTable := func(headers ...string) *table.Table {
		return table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("238"))).
			Headers(headers...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return cell
			})
	}

	sections := make([]string, 0, 6)
	sections = append(sections, title.Render("PROJECT CODE ANALYSIS SUMMARY"))
	sections = append(sections, "Project: "+summary.ProjectPath)
	if len(summary.Ecosystems) > 0 {
		sections = append(sections, "Ecosystems: "+strings.Join(summary.Ecosystems, ", "))
	}

	totals := newTable("CATEGORY", "FILES", "LINES OF CODE", "TOKENS", "% OF TOKENS").
		Row(totalsRow("Production", summary.Production)...).
		Row(totalsRow("Test", summary.Test)...).
		Row(totalsRow("Total", summary.Combined)...)
	sections = append(sections, totals.Render())

	windows := newTable("MODEL", "CONTEXT WINDOW", "USAGE")
	for _, usage := range summary.ContextWindows {
		windows.Row(usage.Name, humanize.Comma(usage.Window), percent(usage.Percent))
	}
	sections = append(sections, title.Render("Context Window Usage"), windows.Render())

	extensions := newTable("EXTENSION", "FILES", "LINES OF CODE", "TOKENS", "% OF TOTAL")
	for _, row := range summary.Extensions {
		extensions.Row(
			row.Extension,
			humanize.Comma(row.Files),
			humanize.Comma(row.Lines),
			humanize.Comma(row.Tokens),
			percent(row.Percent),
		)
	}
	sections = append(sections, title.Render("Breakdown by File Type"), extensions.Render())

	sections = append(sections, title.Render("Top Production Files"), topFilesTable(newTable, summary.TopProduction).Render())
	sections = append(sections, title.Render("Top Test Files"), topFilesTable(newTable, summary.TopTest).Render())

	if len(summary.Skipped) > 0 {
		sections = append(sections, fmt.Sprintf("Skipped files: %s", humanize.Comma(int64(len(summary.Skipped)))))
	}

	_, err := fmt.Fprintln(writer, strings.Join(sections, "\n\n"))
	return err
}

// topFilesTable 渲染排行榜表格。
func topFilesTable(newTable func(...string) *table.Table, files []model.FileRecord) *table.Table {
	tbl := newTable("#", "PATH", "LINES OF CODE", "TOKENS")
	for i, item := range files {
		tbl.Row(strconv.Itoa(i+1), item.Path, humanize.Comma(item.Lines), humanize.Comma(item.Tokens))
	}
	return tbl
}

// totalsRow 把分类汇总格式化为表格行。
func totalsRow(name string, totals Totals) []string {
	return []string{
		name,
		humanize.Comma(totals.Files),
		humanize.Comma(totals.Lines),
		humanize.Comma(totals.Tokens),
		percent(totals.Percent),
	}
}

// percent 保留一位小数。
func percent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

// PrintJSON 把报告按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, summary Summary) error {
	content, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// PrintYAML 把报告按 YAML 输出到任意 writer。
func PrintYAML(writer io.Writer, summary Summary) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return encoder.Close()
}

// WriteFile 将报告按格式导出到指定路径，表格格式按 JSON 导出。
// 如果目录不存在会自动创建。
func WriteFile(path string, format Format, summary Summary) error {
	var builder strings.Builder
	var err error
	if format == FormatYAML {
		err = PrintYAML(&builder, summary)
	} else {
		err = PrintJSON(&builder, summary)
	}
	if err != nil {
		return err
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, []byte(builder.String()), 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
