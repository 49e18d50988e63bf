package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoeda/domain/core"
	"autoeda/domain/dataset"
	"autoeda/ports"
)

// writeListing materializes named file contents in a temp dir and returns
// them in declaration order
func writeListing(t *testing.T, files []struct{ name, body string }) []ports.DatasetFile {
	t.Helper()
	dir := t.TempDir()
	listed := make([]ports.DatasetFile, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		require.NoError(t, os.WriteFile(path, []byte(f.body), 0644))
		listed = append(listed, ports.DatasetFile{Name: f.name, Path: path})
	}
	return listed
}

func TestReadSingle(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"a.csv", "x,y\n1,2\n"},
		{"b.csv", "x\n3\n"},
	})

	frame, err := ReadSingle(files, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, frame.ColumnNames())
	assert.Equal(t, 1, frame.NumRows())
}

func TestReadSingleUnknownFile(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"a.csv", "x\n1\n"},
	})

	_, err := ReadSingle(files, "missing.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownFile)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestMergeUnionsColumns(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"a.csv", "x,y\n1,2\n3,4\n5,6\n"},
		{"b.csv", "x,z\n7,8\n9,10\n"},
	})

	merged, issues, err := Merge(files)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.Equal(t, []string{"x", "y", "z", dataset.MergeSourceColumn}, merged.ColumnNames())
	assert.Equal(t, 5, merged.NumRows())

	x, _ := merged.Column("x")
	for i, want := range []string{"1", "3", "5", "7", "9"} {
		assert.Equal(t, want, x.Cells[i].Raw)
	}

	y, _ := merged.Column("y")
	assert.Equal(t, 2, y.MissingCount(), "y is absent from b.csv rows")
	assert.True(t, y.Cells[3].Missing)
	assert.True(t, y.Cells[4].Missing)

	z, _ := merged.Column("z")
	assert.Equal(t, 3, z.MissingCount(), "z is absent from a.csv rows")
	assert.Equal(t, "8", z.Cells[3].Raw)

	origin, _ := merged.Column(dataset.MergeSourceColumn)
	for i, want := range []string{"a.csv", "a.csv", "a.csv", "b.csv", "b.csv"} {
		assert.Equal(t, want, origin.Cells[i].Raw)
	}
	assert.Equal(t, dataset.KindText, origin.Kind)
	assert.Equal(t, dataset.KindNumeric, x.Kind)
}

func TestMergeSkipsUnreadableFiles(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"good.csv", "x\n1\n2\n"},
		{"bad.csv", "x,y\n1\n"},
	})

	merged, issues, err := Merge(files)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "bad.csv", issues[0].File)
	assert.ErrorIs(t, issues[0].Err, core.ErrMalformedContent)

	assert.Equal(t, 2, merged.NumRows())
	assert.Equal(t, []string{"x", dataset.MergeSourceColumn}, merged.ColumnNames())
}

func TestMergeAllFilesUnreadable(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"one.csv", "x,y\n1\n"},
		{"two.csv", ""},
	})

	_, issues, err := Merge(files)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoReadableFiles)
	assert.Len(t, issues, 2)
}

func TestMergeReservedColumnCollision(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"a.csv", "x\n1\n"},
		{"tagged.csv", "x," + dataset.MergeSourceColumn + "\n1,origin\n"},
	})

	_, _, err := Merge(files)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedContent)
	assert.Contains(t, err.Error(), dataset.MergeSourceColumn)
}

func TestReadEachAllFiles(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"a.csv", "x\n1\n"},
		{"b.csv", "y\n2\n3\n"},
	})

	outputs, issues, err := ReadEach(files, nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, outputs, 2)
	assert.Equal(t, "a", outputs[0].Name)
	assert.Equal(t, "b", outputs[1].Name)
	assert.Equal(t, 2, outputs[1].Frame.NumRows())
}

func TestReadEachSelection(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"a.csv", "x\n1\n"},
		{"b.csv", "y\n2\n"},
		{"c.csv", "z\n3\n"},
	})

	outputs, issues, err := ReadEach(files, []string{"c.csv", "nope.csv", "a.csv"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "nope.csv", issues[0].File)
	assert.ErrorIs(t, issues[0].Err, core.ErrUnknownFile)

	require.Len(t, outputs, 2)
	assert.Equal(t, "c", outputs[0].Name, "selection order wins over listing order")
	assert.Equal(t, "a", outputs[1].Name)
}

func TestReadEachIsolatesFailures(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"good.csv", "x\n1\n"},
		{"bad.csv", "x,y\n1\n"},
	})

	outputs, issues, err := ReadEach(files, nil)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "good", outputs[0].Name)
	require.Len(t, issues, 1)
	assert.Equal(t, "bad.csv", issues[0].File)
}

func TestReadEachNothingReadable(t *testing.T) {
	files := writeListing(t, []struct{ name, body string }{
		{"bad.csv", ""},
	})

	_, _, err := ReadEach(files, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoReadableFiles)
}
