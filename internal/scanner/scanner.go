// Package scanner 提供项目分析的调度能力。
// 该层负责定位项目根目录、目录遍历、任务分发、并发执行和结果聚合，不负责注释剥离细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tokloc/internal/classify"
	"tokloc/internal/ignore"
	"tokloc/internal/languages"
	"tokloc/internal/model"
	"tokloc/internal/tokenizer"
)

// ErrNotDirectory 表示给定的项目路径存在但不是目录。
var ErrNotDirectory = errors.New("project path is not a directory")

// Options 是单次分析的可选覆盖项，零值表示使用默认值。
type Options struct {
	// Extensions 覆盖统计的后缀列表，允许写 py 或 .py。
	Extensions []string
	// ExcludeDirs 覆盖不进入的目录名列表。
	ExcludeDirs []string
}

// DefaultExcludeDirs 返回默认不进入的目录名。以 . 开头的目录始终不进入。
func DefaultExcludeDirs() []string {
	return []string{
		".git", "node_modules", "venv", ".venv", "env", ".env",
		"dist", "build", "target", "out", "bin", "obj",
	}
}

// Service 是分析服务对象。
type Service struct {
	registry *languages.Registry
	counter  tokenizer.Counter
	resolver *ignore.Resolver
	workers  int
	logger   zerolog.Logger
}

// Option 用于定制 Service。
type Option func(*Service)

// WithLogger 注入日志记录器。
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithResolver 替换忽略规则解析器。
func WithResolver(resolver *ignore.Resolver) Option {
	return func(s *Service) {
		s.resolver = resolver
	}
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	absolutePath string
	displayPath  string
	extension    string
	category     model.Category
}

// workerResult 表示 worker 的执行产物，两个字段至多一个非空。
type workerResult struct {
	record  *model.FileRecord
	skipped *model.SkippedFile
}

// NewService 创建分析服务。
func NewService(registry *languages.Registry, counter tokenizer.Counter, workers int, opts ...Option) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	service := &Service{
		registry: registry,
		counter:  counter,
		resolver: ignore.NewResolver(),
		workers:  workers,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Analyze 分析项目目录并返回生产/测试两类统计。
//
// 约束说明：
// - 路径不存在或不是目录时立即返回错误，不做任何分析
// - 找到包含 .git 的祖先目录时改为分析该目录
// - 单个文件不可读、是二进制或清理后为空时只记录到 Skipped，不中断
// - 文件按相对路径升序叠加，排行榜并列时按路径先后决定
func (s *Service) Analyze(ctx context.Context, projectPath string, opts Options) (*model.AnalysisResult, error) {
	root, err := s.prepareRoot(projectPath)
	if err != nil {
		return nil, err
	}

	patterns := s.resolver.Resolve(root)
	classifier := classify.NewClassifier(opts.Extensions)
	excluded := opts.ExcludeDirs
	if excluded == nil {
		excluded = DefaultExcludeDirs()
	}

	result := model.NewAnalysisResult(root)
	result.Ecosystems = patterns.Ecosystems()
	s.logger.Info().
		Str("root", root).
		Strs("ecosystems", result.Ecosystems).
		Int("workers", s.workers).
		Msg("analyzing project")

	tasks := make(chan scanTask, s.workers*4)
	results := make(chan workerResult, s.workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(ctx, tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		walker := &treeWalker{
			ctx:        ctx,
			root:       root,
			patterns:   patterns,
			classifier: classifier,
			excluded:   toSet(excluded),
			tasks:      tasks,
			results:    results,
			logger:     s.logger,
		}
		walkErrChan <- walker.walk()
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	records := make([]model.FileRecord, 0)
	for item := range results {
		if item.record != nil {
			records = append(records, *item.record)
		}
		if item.skipped != nil {
			result.Skipped = append(result.Skipped, *item.skipped)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return nil, walkErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	foldRecords(result, records)
	s.logger.Info().
		Int64("production_files", result.Production.Files).
		Int64("test_files", result.Test.Files).
		Int("skipped", len(result.Skipped)).
		Msg("analysis finished")
	return result, nil
}

// prepareRoot 校验输入路径并定位项目根目录。
func (s *Service) prepareRoot(projectPath string) (string, error) {
	trimmedPath := strings.TrimSpace(projectPath)
	if trimmedPath == "" {
		return "", errors.New("project path is empty")
	}

	absolutePath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absolutePath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", absolutePath, ErrNotDirectory)
	}

	if gitRoot, ok := FindProjectRoot(absolutePath); ok {
		if gitRoot != absolutePath {
			s.logger.Info().Str("git_root", gitRoot).Msg("found git root")
		}
		return gitRoot, nil
	}
	return absolutePath, nil
}

// runWorker 执行文件读取、注释剥离与 token 计数。
func (s *Service) runWorker(ctx context.Context, tasks <-chan scanTask, results chan<- workerResult) {
	for task := range tasks {
		// 取消后继续消费任务直到通道关闭，避免生产者阻塞。
		if ctx.Err() != nil {
			continue
		}
		results <- s.analyzeFile(task)
	}
}

// analyzeFile 分析单个文件。
// token 数基于原始内容计算，注释剥离只影响逻辑行数。
func (s *Service) analyzeFile(task scanTask) workerResult {
	data, err := os.ReadFile(task.absolutePath)
	if err != nil {
		return s.skip(task.displayPath, "unreadable: "+err.Error())
	}
	if classify.LooksBinary(data) {
		return s.skip(task.displayPath, "binary")
	}

	// 非法 UTF-8 字节直接丢弃。
	content := strings.ToValidUTF8(string(data), "")

	lines, _ := s.registry.Strip(content, task.extension)
	if lines == 0 {
		return s.skip(task.displayPath, "no logical lines")
	}

	return workerResult{
		record: &model.FileRecord{
			Path:      task.displayPath,
			Extension: task.extension,
			Lines:     int64(lines),
			Tokens:    int64(s.counter.Count(content)),
			Category:  task.category,
		},
	}
}

// skip 生成跳过记录并打印调试日志。
func (s *Service) skip(path string, reason string) workerResult {
	s.logger.Debug().Str("path", path).Str("reason", reason).Msg("skip file")
	return workerResult{skipped: &model.SkippedFile{Path: path, Reason: reason}}
}

// foldRecords 按相对路径排序后串行叠加，保证排行榜并列顺序与调度无关。
func foldRecords(result *model.AnalysisResult, records []model.FileRecord) {
	sort.Slice(records, func(i int, j int) bool {
		return records[i].Path < records[j].Path
	})
	for _, record := range records {
		result.Fold(record)
	}

	sort.Slice(result.Skipped, func(i int, j int) bool {
		return result.Skipped[i].Path < result.Skipped[j].Path
	})
}

// FindProjectRoot 从给定目录向上查找包含 .git 的最近祖先目录。
// .git 可以是目录，也可以是 worktree 使用的文件。
func FindProjectRoot(start string) (string, bool) {
	current := filepath.Clean(start)
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// toSet 把目录名列表转为集合。
func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// treeWalker 负责遍历目录并把需要分析的文件推入任务队列。
type treeWalker struct {
	ctx        context.Context
	root       string
	patterns   *ignore.PatternSet
	classifier *classify.Classifier
	excluded   map[string]struct{}
	tasks      chan<- scanTask
	results    chan<- workerResult
	logger     zerolog.Logger
}

// walk 遍历根目录。子目录读取失败只记录跳过，根目录失败直接返回错误。
func (w *treeWalker) walk() error {
	return filepath.WalkDir(w.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := w.ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			if path == w.root {
				return walkErr
			}
			relativePath := classify.RelSlash(w.root, path)
			w.logger.Debug().Err(walkErr).Str("path", relativePath).Msg("walk error")
			w.results <- workerResult{skipped: &model.SkippedFile{Path: relativePath, Reason: "unreadable: " + walkErr.Error()}}
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path == w.root {
				return nil
			}
			name := entry.Name()
			if _, skip := w.excluded[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := classify.RelSlash(w.root, path)
		decision := w.classifier.Classify(relativePath)
		if !decision.InScope {
			return nil
		}
		if classify.ShouldIgnore(path, w.root, w.patterns) {
			w.logger.Trace().Str("path", relativePath).Msg("ignored by pattern")
			return nil
		}

		w.tasks <- scanTask{
			absolutePath: path,
			displayPath:  relativePath,
			extension:    strings.ToLower(filepath.Ext(path)),
			category:     decision.Category,
		}
		return nil
	})
}
