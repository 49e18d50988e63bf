package tabular

import (
	"bytes"
	"encoding/csv"

	"autoeda/domain/core"
	"autoeda/domain/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDelimited parses comma-separated text. The first record is the
// header; every record must have the same field count.
func readDelimited(data []byte) (*dataset.Frame, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, core.NewMalformedContentError("csv", "empty input")
	}
	if !validUTF8(data) {
		return nil, core.NewMalformedContentError("csv", "invalid text encoding")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewMalformedContentError("csv", err.Error())
	}
	if len(records) == 0 {
		return nil, core.NewMalformedContentError("csv", "missing header row")
	}

	names := make([]string, len(records[0]))
	for i, raw := range records[0] {
		names[i] = headerName(raw, i)
	}
	frame, err := dataset.New(names)
	if err != nil {
		return nil, core.NewMalformedContentError("csv", err.Error())
	}

	for _, record := range records[1:] {
		cells := make([]dataset.Cell, len(record))
		for i, raw := range record {
			cells[i] = cellFromRaw(raw)
		}
		if err := frame.AppendRow(cells); err != nil {
			return nil, core.NewMalformedContentError("csv", err.Error())
		}
	}

	frame.InferKinds()
	return frame, nil
}

// readWorkbookRows builds a frame from spreadsheet rows, padding short
// rows with the missing marker. Shared by the workbook reader, which gets
// naturally ragged rows back from excelize.
func readWorkbookRows(rows [][]string) (*dataset.Frame, error) {
	if len(rows) == 0 {
		return nil, core.NewMalformedContentError("xlsx", "missing header row")
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, core.NewMalformedContentError("xlsx", "sheet has no cells")
	}

	names := make([]string, width)
	for i := 0; i < width; i++ {
		raw := ""
		if i < len(rows[0]) {
			raw = rows[0][i]
		}
		names[i] = headerName(raw, i)
	}
	frame, err := dataset.New(names)
	if err != nil {
		return nil, core.NewMalformedContentError("xlsx", err.Error())
	}

	for _, row := range rows[1:] {
		cells := make([]dataset.Cell, width)
		for i := 0; i < width; i++ {
			if i < len(row) {
				cells[i] = cellFromRaw(row[i])
			} else {
				cells[i] = dataset.MissingCell()
			}
		}
		if err := frame.AppendRow(cells); err != nil {
			return nil, core.NewMalformedContentError("xlsx", err.Error())
		}
	}

	frame.InferKinds()
	return frame, nil
}
