package tabular

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"autoeda/domain/core"
	"autoeda/domain/dataset"
)

// readWorkbook parses an OOXML workbook. Only the first sheet is read;
// its first row is the header and short rows pad out with the missing
// marker.
func readWorkbook(data []byte) (*dataset.Frame, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, core.NewMalformedContentError("xlsx", "not a readable workbook")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewMalformedContentError("xlsx", "workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewMalformedContentError("xlsx", err.Error())
	}

	return readWorkbookRows(rows)
}
