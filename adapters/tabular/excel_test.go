package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"autoeda/domain/core"
	"autoeda/domain/dataset"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"name", "score"},
		{"alice", 91.5},
		{"bob", 78},
	})

	frame, err := Read(data, ".xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score"}, frame.ColumnNames())
	assert.Equal(t, 2, frame.NumRows())

	score, _ := frame.Column("score")
	assert.Equal(t, dataset.KindNumeric, score.Kind)
}

func TestReadXLSXPadsShortRows(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"a", "b", "c"},
		{"1"},
		{"2", "3", "4"},
	})

	frame, err := Read(data, ".xlsx")
	require.NoError(t, err)

	b, _ := frame.Column("b")
	assert.True(t, b.Cells[0].Missing)
	assert.Equal(t, "3", b.Cells[1].Raw)
}

func TestReadXLSXMalformed(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := Read([]byte("definitely not a zip"), ".xlsx")
		assert.ErrorIs(t, err, core.ErrMalformedContent)
	})

	t.Run("empty sheet", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		_, err = Read(buf.Bytes(), ".xlsx")
		assert.ErrorIs(t, err, core.ErrMalformedContent)
	})
}
