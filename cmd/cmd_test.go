package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokloc/internal/languages"
	"tokloc/internal/report"
	"tokloc/internal/tokenizer"
)

// wordCounter 以空白分隔的单词数作为 token 数。
func wordCounter(string) (tokenizer.Counter, error) {
	return tokenizer.CounterFunc(func(text string) int {
		return len(strings.Fields(text))
	}), nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newFixture 创建带 .git 的临时项目和一个显式配置文件。
func newFixture(t *testing.T) (root string, configPath string) {
	t.Helper()

	root = t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main\n")
	writeFile(t, filepath.Join(root, "app", "main.py"), "# entry\nprint('hello world')\nx = 1\n")
	writeFile(t, filepath.Join(root, "tests", "test_main.py"), "assert x == 1\n")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "index.js"), "module.exports = 1\n")

	configPath = filepath.Join(t.TempDir(), "tokloc.yaml")
	writeFile(t, configPath, "app:\n  quiet: true\ncontext_windows:\n  - name: Tiny\n    tokens: 100\n")
	return root, configPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd("test", languages.NewRegistry(), wordCounter)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScanJSON(t *testing.T) {
	root, configPath := newFixture(t)

	stdout, _, err := run(t, "scan", root, "--config", configPath, "--format", "json")
	require.NoError(t, err)

	var summary report.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))

	assert.Equal(t, root, summary.ProjectPath)
	assert.Equal(t, int64(1), summary.Production.Files)
	assert.Equal(t, int64(2), summary.Production.Lines)
	assert.Equal(t, int64(1), summary.Test.Files)
	assert.Equal(t, "tests/test_main.py", summary.TopTest[0].Path)
	require.Len(t, summary.ContextWindows, 1)
	assert.Equal(t, "Tiny", summary.ContextWindows[0].Name)
}

func TestScanTableWithOutput(t *testing.T) {
	root, configPath := newFixture(t)
	output := filepath.Join(t.TempDir(), "out", "report.yaml")

	stdout, stderr, err := run(t, "scan", root, "-c", configPath, "--format", "yaml", "-o", output)
	require.NoError(t, err)

	assert.Contains(t, stdout, "production:")
	assert.Contains(t, stderr, "Report exported to "+output)
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(content))
}

func TestScanExtensionFlag(t *testing.T) {
	root, configPath := newFixture(t)
	writeFile(t, filepath.Join(root, "web", "app.js"), "const a = 1\n")

	stdout, _, err := run(t, "scan", root, "-c", configPath, "-f", "json", "-e", "js")
	require.NoError(t, err)

	var summary report.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, int64(1), summary.Production.Files)
	assert.Equal(t, int64(0), summary.Test.Files)
	assert.Equal(t, "web/app.js", summary.TopProduction[0].Path)
}

func TestScanRejectsBadInput(t *testing.T) {
	root, configPath := newFixture(t)

	_, _, err := run(t, "scan", root, "-c", configPath, "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, _, err = run(t, "scan", root, "-c", configPath, "--workers", "0")
	assert.ErrorContains(t, err, "workers must be greater than 0")

	_, _, err = run(t, "scan", filepath.Join(root, "app", "main.py"), "-c", configPath)
	assert.Error(t, err)
}

func TestRootRejectsQuietVerbose(t *testing.T) {
	_, configPath := newFixture(t)

	_, _, err := run(t, "version", "-c", configPath, "--verbose")
	assert.ErrorContains(t, err, "quiet and verbose")
}

func TestVersionAndLanguage(t *testing.T) {
	_, configPath := newFixture(t)

	stdout, _, err := run(t, "version", "-c", configPath)
	require.NoError(t, err)
	assert.Equal(t, "tokloc version test\n", stdout)

	stdout, _, err = run(t, "language", "-c", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "RULE SET")
	assert.Contains(t, stdout, "python")
	assert.Contains(t, stdout, ".py")
}
