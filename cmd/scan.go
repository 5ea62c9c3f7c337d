package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tokloc/internal/ignore"
	"tokloc/internal/report"
	"tokloc/internal/scanner"
	"tokloc/internal/tokenizer"
)

// scanOptions 存放 scan 命令的可配置参数。
// 未显式传入的 flag 使用配置文件中的值。
type scanOptions struct {
	format     string
	output     string
	workers    int
	extensions []string
	exclude    []string
	encoding   string
	ignoreFile string
	gitignore  bool
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	tokloc scan
//	tokloc scan ./project --format json --output report.json
//	tokloc scan ./project -e py -e go -x vendor
func newScanCmd(state *cliState) *cobra.Command {
	options := scanOptions{format: string(report.FormatTable)}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "分析项目目录并输出代码行数与 token 统计",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := "."
			if len(args) == 1 {
				projectPath = args[0]
			}

			format, err := report.ParseFormat(options.format)
			if err != nil {
				return err
			}

			analysis := state.config.Analysis
			flags := cmd.Flags()
			if flags.Changed("extensions") {
				analysis.Extensions = options.extensions
			}
			if flags.Changed("exclude") {
				analysis.ExcludeDirs = options.exclude
			}
			if flags.Changed("workers") {
				if options.workers <= 0 {
					return errors.New("workers must be greater than 0")
				}
				analysis.Workers = options.workers
			}
			if flags.Changed("encoding") {
				analysis.Encoding = options.encoding
			}
			if flags.Changed("ignore-file") {
				analysis.IgnoreFile = options.ignoreFile
			}
			if flags.Changed("gitignore") {
				analysis.RespectGitignore = options.gitignore
			}

			counter, err := state.newCounter(analysis.Encoding)
			if err != nil {
				return err
			}
			counter, err = tokenizer.NewCached(counter, analysis.TokenCacheSize)
			if err != nil {
				return err
			}

			resolver := ignore.NewResolver()
			resolver.OverrideFile = analysis.IgnoreFile
			resolver.RespectGitignore = analysis.RespectGitignore
			resolver.Logger = state.logger

			service := scanner.NewService(
				state.registry,
				counter,
				analysis.Workers,
				scanner.WithLogger(state.logger),
				scanner.WithResolver(resolver),
			)
			result, err := service.Analyze(cmd.Context(), projectPath, scanner.Options{
				Extensions:  analysis.Extensions,
				ExcludeDirs: analysis.ExcludeDirs,
			})
			if err != nil {
				return err
			}

			for _, skipped := range result.Skipped {
				state.logger.Info().Str("path", skipped.Path).Str("reason", skipped.Reason).Msg("file skipped")
			}

			summary := report.Build(result, state.config.ContextWindows)
			if err := report.Print(cmd.OutOrStdout(), format, summary); err != nil {
				return err
			}

			outputPath := strings.TrimSpace(options.output)
			if outputPath == "" {
				return nil
			}
			if err := report.WriteFile(outputPath, format, summary); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Report exported to %s\n", outputPath)
			return nil
		},
	}

	flags := scanCmd.Flags()
	flags.StringVarP(&options.format, "format", "f", options.format, "输出格式: table, json 或 yaml")
	flags.StringVarP(&options.output, "output", "o", "", "报告导出路径，table 格式按 json 导出")
	flags.IntVarP(&options.workers, "workers", "w", 0, "并发 worker 数量，默认 CPU 核数")
	flags.StringSliceVarP(&options.extensions, "extensions", "e", nil, "统计的文件后缀，例如 py,go")
	flags.StringSliceVarP(&options.exclude, "exclude", "x", nil, "不进入的目录名")
	flags.StringVar(&options.encoding, "encoding", tokenizer.DefaultEncoding, "tiktoken 编码名称")
	flags.StringVar(&options.ignoreFile, "ignore-file", ignore.DefaultOverrideFile, "项目根目录下的忽略规则文件名")
	flags.BoolVar(&options.gitignore, "gitignore", false, "同时遵循项目根目录的 .gitignore")

	return scanCmd
}
