// Package cmd 提供 tokloc 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tokloc/internal/config"
	"tokloc/internal/languages"
	"tokloc/internal/logger"
	"tokloc/internal/tokenizer"
)

// counterFactory 根据编码名称创建 token 计数器。
type counterFactory func(encoding string) (tokenizer.Counter, error)

// cliState 保存命令之间共享的运行期状态。
// 全局 flag 在 PersistentPreRunE 中合并进 config。
type cliState struct {
	configPath string
	debug      bool
	verbose    bool
	quiet      bool

	registry   *languages.Registry
	newCounter counterFactory

	config *config.Config
	logger zerolog.Logger
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(version, languages.NewRegistry(), newTiktokenCounter)
	return rootCmd.ExecuteContext(ctx)
}

// newTiktokenCounter 创建 tiktoken 计数器。
func newTiktokenCounter(encoding string) (tokenizer.Counter, error) {
	return tokenizer.NewTiktoken(encoding)
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *languages.Registry, newCounter counterFactory) *cobra.Command {
	state := &cliState{
		registry:   registry,
		newCounter: newCounter,
		logger:     zerolog.Nop(),
	}

	rootCmd := &cobra.Command{
		Use:   "tokloc",
		Short: "统计项目的有效代码行数与 LLM token 数",
		Long: "tokloc 会剥离注释后统计有效代码行，并使用 tiktoken 计算 token 数，\n" +
			"按生产代码与测试代码分别汇总，给出各模型上下文窗口的占用比例。",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&state.configPath, "config", "c", "", "配置文件路径，默认自动查找 .tokloc.yaml")
	flags.BoolVar(&state.debug, "debug", false, "启用调试日志")
	flags.BoolVarP(&state.verbose, "verbose", "V", false, "输出详细日志")
	flags.BoolVarP(&state.quiet, "quiet", "q", false, "禁止所有日志输出")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(state))

	return rootCmd
}

// load 读取 .env 与配置文件，合并全局 flag 并创建日志记录器。
func (s *cliState) load(cmd *cobra.Command) error {
	config.LoadDotEnv()

	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.App.Debug = s.debug
	}
	if flags.Changed("verbose") {
		cfg.App.Verbose = s.verbose
	}
	if flags.Changed("quiet") {
		cfg.App.Quiet = s.quiet
	}
	if cfg.App.Quiet && cfg.App.Verbose {
		return errors.New("quiet and verbose cannot be enabled together")
	}

	s.config = cfg
	s.logger = logger.New(cfg.Log, cfg.App, cmd.ErrOrStderr())
	return nil
}
