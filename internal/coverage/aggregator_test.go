package coverage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pypar/internal/domain"
)

func set(file string, lines ...int) domain.CoverageSet {
	s := make(domain.CoverageSet)
	for _, line := range lines {
		s.Add(file, line)
	}
	return s
}

func TestAggregator_Merge(t *testing.T) {
	agg := NewAggregator(map[string][]int{
		"a.py": {1, 2, 5, 8},
		"b.py": {1},
	})

	agg.Merge(set("a.py", 1, 2))
	assert.Equal(t, []int{1, 2}, agg.Covered("a.py"))

	// Merging is a union; re-reporting a line changes nothing.
	agg.Merge(set("a.py", 2, 5))
	assert.Equal(t, []int{1, 2, 5}, agg.Covered("a.py"))
	assert.Empty(t, agg.Covered("b.py"))
}

func TestAggregator_DropsUnknownLinesAndFiles(t *testing.T) {
	agg := NewAggregator(map[string][]int{"a.py": {1, 2}})

	agg.Merge(set("a.py", 1, 99))
	agg.Merge(set("ghost.py", 1))

	assert.Equal(t, []int{1}, agg.Covered("a.py"), "covered lines stay a subset of executable lines")
	assert.Nil(t, agg.Covered("ghost.py"))
}

func TestAggregator_ConcurrentMerges(t *testing.T) {
	executable := map[string][]int{"a.py": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	agg := NewAggregator(executable)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(line int) {
			defer wg.Done()
			agg.Merge(set("a.py", line))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, agg.Covered("a.py"))
}

func TestAggregator_Report(t *testing.T) {
	agg := NewAggregator(map[string][]int{
		"src/b.py": {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		"src/a.py": {1, 2},
		"src/c.py": {},
	})
	agg.Merge(set("src/b.py", 1, 2, 3, 4, 5, 6, 7))
	agg.Merge(set("src/a.py", 1, 2))

	report := agg.Report()
	require.Len(t, report.Files, 3)

	t.Run("rows are sorted by file path", func(t *testing.T) {
		assert.Equal(t, "src/a.py", report.Files[0].File)
		assert.Equal(t, "src/b.py", report.Files[1].File)
		assert.Equal(t, "src/c.py", report.Files[2].File)
	})

	t.Run("per-file rows", func(t *testing.T) {
		b := report.Files[1]
		assert.Equal(t, 10, b.Lines)
		assert.Equal(t, 3, b.Missed)
		assert.Equal(t, 70.0, b.Percent)

		a := report.Files[0]
		assert.Equal(t, 0, a.Missed)
		assert.Equal(t, 100.0, a.Percent)
	})

	t.Run("file with no executable lines is fully covered", func(t *testing.T) {
		c := report.Files[2]
		assert.Equal(t, 0, c.Lines)
		assert.Equal(t, 100.0, c.Percent)
	})

	t.Run("totals row", func(t *testing.T) {
		assert.Equal(t, "total", report.Total.File)
		assert.Equal(t, 12, report.Total.Lines)
		assert.Equal(t, 3, report.Total.Missed)
		assert.Equal(t, 75.0, report.Total.Percent)
	})
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 33.3, percent(1, 3))
	assert.Equal(t, 66.7, percent(2, 3))
	assert.Equal(t, 0.0, percent(0, 7))
	assert.Equal(t, 100.0, percent(0, 0))
}
