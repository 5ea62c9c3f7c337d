// Package logger 基于 zerolog 构建日志记录器，支持控制台、文件（lumberjack 轮转）或两者同时输出。
// 控制台日志写到 stderr，避免与报告输出混在一起。
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"tokloc/internal/config"
)

// New 根据配置创建日志记录器。
// 级别优先级：quiet > debug > verbose > config.Level
func New(logConfig config.LogConfig, appConfig config.AppConfig, console io.Writer) zerolog.Logger {
	if appConfig.Quiet {
		return zerolog.Nop()
	}
	if console == nil {
		console = os.Stderr
	}

	level := ParseLevel(logConfig.Level)
	if appConfig.Debug {
		level = zerolog.DebugLevel
	} else if appConfig.Verbose {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	switch strings.ToLower(logConfig.Mode) {
	case "file":
		writers = append(writers, createFileWriter(logConfig, console))
	case "both":
		writers = append(writers, createConsoleWriter(console, logConfig.JSON))
		writers = append(writers, createFileWriter(logConfig, console))
	default:
		writers = append(writers, createConsoleWriter(console, logConfig.JSON))
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = zerolog.MultiLevelWriter(writers...)
	}

	builder := zerolog.New(output).Level(level).With().Timestamp()
	if appConfig.Debug {
		builder = builder.Caller().Str("app", appConfig.Name)
	}
	return builder.Logger()
}

// createConsoleWriter 创建控制台输出写入器
func createConsoleWriter(out io.Writer, useJSON bool) io.Writer {
	if useJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// createFileWriter 创建文件输出写入器，目录无法创建时退回控制台。
func createFileWriter(logConfig config.LogConfig, fallback io.Writer) io.Writer {
	logDir := filepath.Dir(logConfig.FilePath)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fallback
	}

	return &lumberjack.Logger{
		Filename:   logConfig.FilePath,
		MaxSize:    logConfig.MaxSize,    // megabytes
		MaxBackups: logConfig.MaxBackups, // 保留备份数量
		MaxAge:     logConfig.MaxAge,     // days
		Compress:   true,
	}
}

// ParseLevel 解析日志级别，无法识别时返回 Info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
