package tabular

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"autoeda/domain/core"
	"autoeda/domain/dataset"
)

// readRecords parses a JSON array of flat objects. Columns are the union
// of keys in first-seen order; keys absent from a record fill with the
// missing marker. Values must be scalars.
func readRecords(data []byte) (*dataset.Frame, error) {
	if !validUTF8(data) {
		return nil, core.NewMalformedContentError("json", "invalid text encoding")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, core.NewMalformedContentError("json", "invalid document")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, core.NewMalformedContentError("json", "top-level value must be an array of records")
	}

	var keys []string
	known := make(map[string]struct{})
	var records []map[string]dataset.Cell

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, core.NewMalformedContentError("json", "truncated record")
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, core.NewMalformedContentError("json", "records must be objects")
		}

		record := make(map[string]dataset.Cell)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, core.NewMalformedContentError("json", "truncated record")
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, core.NewMalformedContentError("json", "record key is not a string")
			}

			valTok, err := dec.Token()
			if err != nil {
				return nil, core.NewMalformedContentError("json", "truncated record")
			}
			cell, err := scalarCell(valTok)
			if err != nil {
				return nil, err
			}

			record[key] = cell
			if _, seen := known[key]; !seen {
				known[key] = struct{}{}
				keys = append(keys, key)
			}
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, core.NewMalformedContentError("json", "truncated record")
		}
		records = append(records, record)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, core.NewMalformedContentError("json", "truncated document")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, core.NewMalformedContentError("json", "trailing data after records")
	}
	if len(records) == 0 {
		return nil, core.NewMalformedContentError("json", "no records")
	}

	frame, err := dataset.New(keys)
	if err != nil {
		return nil, core.NewMalformedContentError("json", err.Error())
	}
	for _, record := range records {
		cells := make([]dataset.Cell, len(keys))
		for i, key := range keys {
			if cell, ok := record[key]; ok {
				cells[i] = cell
			} else {
				cells[i] = dataset.MissingCell()
			}
		}
		if err := frame.AppendRow(cells); err != nil {
			return nil, core.NewMalformedContentError("json", err.Error())
		}
	}

	frame.InferKinds()
	return frame, nil
}

func scalarCell(tok json.Token) (dataset.Cell, error) {
	switch v := tok.(type) {
	case nil:
		return dataset.MissingCell(), nil
	case string:
		return cellFromRaw(v), nil
	case bool:
		if v {
			return dataset.Value("true"), nil
		}
		return dataset.Value("false"), nil
	case json.Number:
		return dataset.Value(v.String()), nil
	default:
		// json.Delim: the record holds a nested array or object
		return dataset.Cell{}, core.NewMalformedContentError("json", "record values must be scalars")
	}
}
