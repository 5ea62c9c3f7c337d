package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokloc/internal/ignore"
	"tokloc/internal/model"
)

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		rel  string
		want model.Category
	}{
		{"utils.go", model.Production},
		{"utils_test.go", model.Test},
		{"pkg/utils_test.go", model.Test},
		{"test_models.py", model.Test},
		{"Test_Models.py", model.Test},
		{"src/button.test.tsx", model.Test},
		{"src/button.spec.ts", model.Test},
		{"tests/helpers.py", model.Test},
		{"TESTS/helpers.py", model.Test},
		{"app/Tests/Unit/Foo.php", model.Test},
		{"src/__tests__/app.js", model.Test},
		{"src/__test__/app.js", model.Test},
		{"spec/models/user.rb", model.Test},
		{"specs/user.rb", model.Test},
		{"e2e/my.test.fixtures/page.html", model.Test},
		{"data/load_test_cases/input.json", model.Test},
		{"contests/main.py", model.Production},
		{"latest/main.py", model.Production},
		{"testing/main.go", model.Production},
		{"src/attestation.go", model.Production},
		{"src/contest.py", model.Production},
		{"protest_test", model.Production},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CategoryOf(tc.rel), tc.rel)
	}
}

func TestClassifierInScope(t *testing.T) {
	classifier := NewClassifier(nil)

	assert.True(t, classifier.InScope("main.go"))
	assert.True(t, classifier.InScope("Main.PY"))
	assert.False(t, classifier.InScope("notes.txt"))
	assert.False(t, classifier.InScope("Makefile"))

	custom := NewClassifier([]string{"txt", ".GO"})
	assert.True(t, custom.InScope("notes.txt"))
	assert.True(t, custom.InScope("main.go"))
	assert.False(t, custom.InScope("main.py"))
}

func TestClassifierClassify(t *testing.T) {
	decision := NewClassifier(nil).Classify("src/main_test.py")

	assert.True(t, decision.InScope)
	assert.Equal(t, model.Test, decision.Category)
}

func TestShouldIgnore(t *testing.T) {
	set, _ := ignore.NewPatternSet([]string{"dist/*", "*.min.js"})
	root := filepath.Join(string(filepath.Separator), "work", "project")

	assert.True(t, ShouldIgnore(filepath.Join(root, "dist", "bundle.js"), root, set))
	assert.True(t, ShouldIgnore(filepath.Join(root, "web", "vendor", "app.min.js"), root, set))
	assert.False(t, ShouldIgnore(filepath.Join(root, "src", "app.js"), root, set))
}

func TestLooksBinary(t *testing.T) {
	assert.False(t, LooksBinary([]byte("plain text\n")))
	assert.True(t, LooksBinary([]byte("ab\x00cd")))

	late := append([]byte(strings.Repeat("a", BinarySniffLength)), 0)
	assert.False(t, LooksBinary(late))
}

func TestIsBinary(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(textPath, []byte("package a\n"), 0o644))
	binPath := filepath.Join(dir, "b.go")
	require.NoError(t, os.WriteFile(binPath, []byte{'p', 0, 'q'}, 0o644))

	assert.False(t, IsBinary(textPath))
	assert.True(t, IsBinary(binPath))
	assert.True(t, IsBinary(filepath.Join(dir, "missing.go")))
}
