// Package config 提供 tokloc 的配置加载。
// 配置来源优先级：命令行参数 > 环境变量（TOKLOC_ 前缀，可写在 .env）> 配置文件 > 默认值。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tokloc/internal/ignore"
	"tokloc/internal/languages"
	"tokloc/internal/report"
	"tokloc/internal/scanner"
	"tokloc/internal/tokenizer"
)

// EnvPrefix 是环境变量前缀。
const EnvPrefix = "TOKLOC"

// Config 应用配置结构
type Config struct {
	Log            LogConfig              `mapstructure:"log"`
	App            AppConfig              `mapstructure:"app"`
	Analysis       AnalysisConfig         `mapstructure:"analysis"`
	ContextWindows []report.ContextWindow `mapstructure:"context_windows"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // 日志级别: trace, debug, info, warn, error, fatal, panic
	JSON       bool   `mapstructure:"json"`        // 是否使用 JSON 格式输出
	Mode       string `mapstructure:"mode"`        // 输出模式: console, file, both
	FilePath   string `mapstructure:"file_path"`   // 文件路径（当 mode 为 file 或 both 时使用）
	MaxSize    int    `mapstructure:"max_size"`    // 日志文件最大大小（MB）
	MaxBackups int    `mapstructure:"max_backups"` // 保留的备份文件数量
	MaxAge     int    `mapstructure:"max_age"`     // 文件保留天数
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Debug   bool   `mapstructure:"debug"`
	Verbose bool   `mapstructure:"verbose"`
	Quiet   bool   `mapstructure:"quiet"` // 是否安静模式，禁止所有日志输出
}

// AnalysisConfig 分析配置
type AnalysisConfig struct {
	Extensions       []string `mapstructure:"extensions"`
	ExcludeDirs      []string `mapstructure:"exclude_dirs"`
	Workers          int      `mapstructure:"workers"`
	Encoding         string   `mapstructure:"encoding"`
	IgnoreFile       string   `mapstructure:"ignore_file"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
	TokenCacheSize   int      `mapstructure:"token_cache_size"`
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.file_path", ".tokloc/tokloc.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetDefault("app.name", "tokloc")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.verbose", false)
	v.SetDefault("app.quiet", false)

	v.SetDefault("analysis.extensions", languages.DefaultExtensions())
	v.SetDefault("analysis.exclude_dirs", scanner.DefaultExcludeDirs())
	v.SetDefault("analysis.workers", runtime.NumCPU())
	v.SetDefault("analysis.encoding", tokenizer.DefaultEncoding)
	v.SetDefault("analysis.ignore_file", ignore.DefaultOverrideFile)
	v.SetDefault("analysis.respect_gitignore", false)
	v.SetDefault("analysis.token_cache_size", 4096)

	v.SetDefault("context_windows", report.DefaultContextWindows())
}

// findConfigFile 在常见位置查找配置文件，找不到返回空字符串。
func findConfigFile() string {
	searchPaths := []string{
		".",
		"$HOME/.config/tokloc",
	}
	if runtime.GOOS == "windows" {
		searchPaths = append(searchPaths, "$APPDATA/tokloc")
	}

	configNames := []string{".tokloc", "tokloc"}
	extensions := []string{"yaml", "yml", "json", "toml"}

	for _, dir := range searchPaths {
		for _, name := range configNames {
			for _, ext := range extensions {
				candidate := os.ExpandEnv(filepath.Join(dir, name+"."+ext))
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					return candidate
				}
			}
		}
	}
	return ""
}

// LoadDotEnv 把 .env 中的变量加载进进程环境，文件不存在时静默忽略。
// 已存在的环境变量不会被覆盖。
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

// Load 加载配置。configPath 为空时自动查找配置文件。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file %s: %w", configPath, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config.App.Quiet && config.App.Verbose {
		return nil, errors.New("quiet and verbose cannot be enabled together")
	}
	return &config, nil
}
