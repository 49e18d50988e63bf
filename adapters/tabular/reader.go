// Package tabular parses raw file bytes into frames. Dispatch is purely by
// the declared extension; the bytes are never sniffed to guess a format.
package tabular

import (
	"fmt"
	"unicode/utf8"

	"autoeda/domain/core"
	"autoeda/domain/dataset"
)

// Read parses data into a frame according to the declared extension. The
// match is a case-sensitive suffix check: ".csv" and ".txt" parse as
// delimited text, ".xlsx" and ".xls" as spreadsheets, ".json" as an array
// of flat records. Anything else fails with core.ErrUnsupportedFormat.
//
// Read is a pure transform: no I/O, no side effects. Column kinds are
// inferred before the frame is returned.
func Read(data []byte, ext string) (*dataset.Frame, error) {
	switch ext {
	case ".csv", ".txt":
		return readDelimited(data)
	case ".xlsx":
		return readWorkbook(data)
	case ".xls":
		// excelize reads only OOXML workbooks; the legacy binary format
		// needs a capability we do not ship
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not supported, save as .xlsx", core.ErrMissingCapability)
	case ".json":
		return readRecords(data)
	default:
		return nil, core.NewUnsupportedFormatError(ext)
	}
}

// missingTokens are the raw values every reader maps to the missing marker
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

func cellFromRaw(raw string) dataset.Cell {
	if _, ok := missingTokens[raw]; ok {
		return dataset.MissingCell()
	}
	return dataset.Value(raw)
}

// headerName fills empty header cells with a positional name
func headerName(raw string, idx int) string {
	if raw == "" {
		return fmt.Sprintf("column_%d", idx+1)
	}
	return raw
}

func validUTF8(data []byte) bool {
	return utf8.Valid(data)
}
