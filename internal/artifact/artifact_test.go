package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "print current date",
			expected: "print_current_date",
		},
		{
			name:     "uppercase converted",
			input:    "Print Current Date",
			expected: "print_current_date",
		},
		{
			name:     "special characters removed",
			input:    "scrape example.com (top 10)!",
			expected: "scrape_examplecom_top_10",
		},
		{
			name:     "multiple spaces collapsed",
			input:    "fetch   stock    prices",
			expected: "fetch_stock_prices",
		},
		{
			name:     "truncated to fifty characters",
			input:    "a very long task description that keeps going and going and going forever",
			expected: "a_very_long_task_description_that_keeps_going_and_",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  hello world  ",
			expected: "hello_world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestSlug_LengthNeverExceedsMax(t *testing.T) {
	long := Slug("this is an extremely verbose instruction with many many many words in it indeed")
	assert.LessOrEqual(t, len(long), maxSlugLength)
}

func TestPath(t *testing.T) {
	path := Path("/tmp/work", "print current date")
	assert.Equal(t, filepath.Join("/tmp/work", "generated_print_current_date.py"), path)
}

func TestMode_IsValid(t *testing.T) {
	assert.True(t, ModeGenerated.IsValid())
	assert.True(t, ModeAutoDebugged.IsValid())
	assert.False(t, Mode("bogus").IsValid())
}

func TestWrite_HeaderFormat(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, "print current date")

	err := Write(path, "print current date", ModeGenerated, "print('hi')\n")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# TASK: print current date\n# MODE: Generated\nprint('hi')\n", string(data))
}

func TestWrite_OverwritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, "print current date")

	require.NoError(t, Write(path, "print current date", ModeGenerated, "print(1)\n"))
	require.NoError(t, Write(path, "print current date", ModeAutoDebugged, "print(2)\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# TASK: print current date\n# MODE: Auto-Debugged\nprint(2)\n", string(data))

	// Only one artifact for the task exists in the directory.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
