package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tokloc/internal/languages"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示内置注释规则集、对应文件后缀以及注释模式。
func newLanguageCmd(registry *languages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示注释规则集及后缀",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "RULE SET\tEXTENSIONS\tCOMMENT PATTERNS"); err != nil {
				return err
			}

			for _, item := range registry.Languages() {
				patterns := make([]string, 0, len(item.Patterns))
				for _, pattern := range item.Patterns {
					patterns = append(patterns, pattern.Kind.String()+" "+pattern.Expr)
				}
				if len(patterns) == 0 {
					patterns = append(patterns, "-")
				}

				if _, err := fmt.Fprintf(writer, "%s\t%s\t%s\n",
					item.Name,
					strings.Join(item.Extensions, ", "),
					strings.Join(patterns, "  "),
				); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
