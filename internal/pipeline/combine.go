package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"autoeda/adapters/tabular"
	"autoeda/domain/core"
	"autoeda/domain/dataset"
	"autoeda/ports"
)

// Output is one resolved dataset together with its derived name
type Output struct {
	Name  string
	Frame *dataset.Frame
}

// FileIssue records one file that could not be read in a multi-file mode.
// Issues are reported alongside the surviving outputs, never escalated.
type FileIssue struct {
	File string
	Err  error
}

func readListed(f ports.DatasetFile) (*dataset.Frame, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return tabular.Read(data, filepath.Ext(f.Name))
}

// ReadSingle reads exactly the named file from the listing
func ReadSingle(files []ports.DatasetFile, name string) (*dataset.Frame, error) {
	for _, f := range files {
		if f.Name == name {
			return readListed(f)
		}
	}
	return nil, core.NewUnknownFileError(name)
}

// Merge reads every file and concatenates the results row-wise in listing
// order, tagging each row's origin file in dataset.MergeSourceColumn. The
// column set is the union across readable files in first-seen order; cells
// for a column absent from a file are filled with the missing marker.
// Files that fail to read are skipped and reported; only when every file
// fails does the merge fail, with core.ErrNoReadableFiles. A file that
// already contains the origin-tag column aborts the merge immediately.
func Merge(files []ports.DatasetFile) (*dataset.Frame, []FileIssue, error) {
	type part struct {
		file  string
		frame *dataset.Frame
	}

	var parts []part
	var issues []FileIssue
	for _, f := range files {
		frame, err := readListed(f)
		if err != nil {
			issues = append(issues, FileIssue{File: f.Name, Err: err})
			continue
		}
		if frame.HasColumn(dataset.MergeSourceColumn) {
			return nil, nil, core.NewMalformedContentError("merge",
				fmt.Sprintf("%s already contains the reserved column %s", f.Name, dataset.MergeSourceColumn))
		}
		parts = append(parts, part{file: f.Name, frame: frame})
	}
	if len(parts) == 0 {
		return nil, issues, fmt.Errorf("%w: none of the %d files could be read", core.ErrNoReadableFiles, len(files))
	}

	var names []string
	seen := make(map[string]bool)
	for _, p := range parts {
		for _, name := range p.frame.ColumnNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	merged, err := dataset.New(append(names, dataset.MergeSourceColumn))
	if err != nil {
		return nil, issues, err
	}
	for _, p := range parts {
		for i := 0; i < p.frame.NumRows(); i++ {
			row := make([]dataset.Cell, 0, len(names)+1)
			for _, name := range names {
				col, ok := p.frame.Column(name)
				if !ok {
					row = append(row, dataset.MissingCell())
					continue
				}
				row = append(row, col.Cells[i])
			}
			row = append(row, dataset.Value(p.file))
			if err := merged.AppendRow(row); err != nil {
				return nil, issues, err
			}
		}
	}
	merged.InferKinds()
	return merged, issues, nil
}

// ReadEach reads each selected file independently, one output per file. An
// empty selection means every file in the listing. Failures are isolated:
// a file that cannot be read is reported and skipped, and only when
// nothing at all could be read does the call fail, with
// core.ErrNoReadableFiles.
func ReadEach(files []ports.DatasetFile, selected []string) ([]Output, []FileIssue, error) {
	chosen := files
	var issues []FileIssue
	if len(selected) > 0 {
		byName := make(map[string]ports.DatasetFile, len(files))
		for _, f := range files {
			byName[f.Name] = f
		}
		picked := make([]ports.DatasetFile, 0, len(selected))
		for _, name := range selected {
			f, ok := byName[name]
			if !ok {
				issues = append(issues, FileIssue{File: name, Err: core.NewUnknownFileError(name)})
				continue
			}
			picked = append(picked, f)
		}
		chosen = picked
	}

	var outputs []Output
	for _, f := range chosen {
		frame, err := readListed(f)
		if err != nil {
			issues = append(issues, FileIssue{File: f.Name, Err: err})
			continue
		}
		outputs = append(outputs, Output{Name: dataset.FileBaseName(f.Name), Frame: frame})
	}
	if len(outputs) == 0 {
		return nil, issues, fmt.Errorf("%w: none of the selected files could be read", core.ErrNoReadableFiles)
	}
	return outputs, issues, nil
}
