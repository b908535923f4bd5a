package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otta/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(t.TempDir(), config.PathsConfig{})
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("out.csv",
		[]string{"A", "B"},
		[][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "out.csv"))
	require.NoError(t, err)

	// BOM first, then headers and rows.
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	assert.Equal(t, "A,B\n1,2\n3,4\n", content)
}

func TestAppendToCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, writer.AppendToCSV("out.csv", [][]string{{"2"}}))

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "out.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "1\n2\n"))
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	target := filepath.Join(t.TempDir(), "nested", "abs.csv")
	err := writer.WriteCSV(target, WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, err = os.Stat(target)
	assert.NoError(t, err, "absolute paths bypass the reports directory")
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"A", "B"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	require.NoError(t, stream.Close())

	data, err := os.ReadFile(filepath.Join(paths.ReportsDir, "stream.csv"))
	require.NoError(t, err)
	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	assert.Equal(t, "A,B\n1,2\n3,4\n", content)
}
