package dataset

import (
	"bytes"
	"encoding/binary"

	"autoeda/domain/core"
)

// Fingerprint computes the content identity of the frame. Column names and
// cells feed the hash in order, with missing cells distinguished from empty
// strings, so two frames fingerprint equal exactly when their visible
// content is identical.
func (f *Frame) Fingerprint() core.Fingerprint {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(len(f.cols)))
	for _, col := range f.cols {
		buf.WriteString(col.Name)
		buf.WriteByte(0x1f)
	}
	for _, col := range f.cols {
		for _, cell := range col.Cells {
			if cell.Missing {
				buf.WriteByte(0x00)
				continue
			}
			buf.WriteByte(0x01)
			buf.WriteString(cell.Raw)
			buf.WriteByte(0x1f)
		}
	}
	return core.NewFingerprint(buf.Bytes())
}
