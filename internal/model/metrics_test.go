package model

import (
	"strconv"
	"testing"
)

// TestCategoryStatsAddTotals 验证文件、行数、token 以及后缀维度的累加。
func TestCategoryStatsAddTotals(t *testing.T) {
	stats := NewCategoryStats()
	stats.Add(FileRecord{Path: "a.py", Extension: ".py", Lines: 40, Tokens: 500, Category: Production})
	stats.Add(FileRecord{Path: "b.py", Extension: ".py", Lines: 2, Tokens: 7, Category: Production})
	stats.Add(FileRecord{Path: "c.go", Extension: ".go", Lines: 10, Tokens: 120, Category: Production})

	if stats.Files != 3 || stats.Lines != 52 || stats.Tokens != 627 {
		t.Fatalf("unexpected totals: files=%d lines=%d tokens=%d", stats.Files, stats.Lines, stats.Tokens)
	}

	py := stats.ByExtension[".py"]
	if py == nil || py.Files != 2 || py.Lines != 42 || py.Tokens != 507 {
		t.Fatalf("unexpected .py stats: %+v", py)
	}
	goStats := stats.ByExtension[".go"]
	if goStats == nil || goStats.Files != 1 || goStats.Tokens != 120 {
		t.Fatalf("unexpected .go stats: %+v", goStats)
	}
}

// TestCategoryStatsTopFilesBounded 验证排行榜不超过 10 个且始终降序。
func TestCategoryStatsTopFilesBounded(t *testing.T) {
	stats := NewCategoryStats()
	for i := 0; i < 25; i++ {
		tokens := int64((i * 7) % 13)
		stats.Add(FileRecord{Path: "f" + strconv.Itoa(i), Extension: ".go", Lines: 1, Tokens: tokens})

		if len(stats.TopFiles) > MaxTopFiles {
			t.Fatalf("top files exceeded limit: %d", len(stats.TopFiles))
		}
		for j := 1; j < len(stats.TopFiles); j++ {
			if stats.TopFiles[j-1].Tokens < stats.TopFiles[j].Tokens {
				t.Fatalf("top files not sorted after insert %d: %+v", i, stats.TopFiles)
			}
		}
	}

	if len(stats.TopFiles) != MaxTopFiles {
		t.Fatalf("expected %d top files, got %d", MaxTopFiles, len(stats.TopFiles))
	}
	if stats.Files != 25 {
		t.Fatalf("expected 25 files counted, got %d", stats.Files)
	}
}

// TestCategoryStatsTopFilesStableTies 验证 token 相同时保留先插入的文件。
func TestCategoryStatsTopFilesStableTies(t *testing.T) {
	stats := NewCategoryStats()
	for i := 0; i < 12; i++ {
		stats.Add(FileRecord{Path: "tie" + strconv.Itoa(i), Extension: ".js", Lines: 1, Tokens: 5})
	}

	for i, item := range stats.TopFiles {
		if item.Path != "tie"+strconv.Itoa(i) {
			t.Fatalf("expected encounter order at %d, got %s", i, item.Path)
		}
	}
}

// TestAnalysisResultFold 验证按分类路由到对应累加器。
func TestAnalysisResultFold(t *testing.T) {
	result := NewAnalysisResult("/tmp/project")
	result.Fold(FileRecord{Path: "src/main.py", Extension: ".py", Lines: 40, Tokens: 500, Category: Production})
	result.Fold(FileRecord{Path: "src/main_test.py", Extension: ".py", Lines: 10, Tokens: 120, Category: Test})

	if result.Production.Files != 1 || result.Production.Lines != 40 || result.Production.Tokens != 500 {
		t.Fatalf("unexpected production stats: %+v", result.Production)
	}
	if result.Test.Files != 1 || result.Test.Lines != 10 || result.Test.Tokens != 120 {
		t.Fatalf("unexpected test stats: %+v", result.Test)
	}
}
