// Package parquetio writes frames as Parquet files.
package parquetio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"
)

func parquetSchemaJSON(s j.Schema) (string, error) {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=listing, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case j.KindFloat:
			tag += "DOUBLE"
		case j.KindInt:
			tag += "INT64"
		case j.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// record renders row r as the JSON object the parquet JSON writer expects.
// Null cells are omitted.
func record(f *j.Frame, r int) (string, error) {
	rec := make(map[string]any, f.Cols())
	for _, col := range f.Columns() {
		if col.IsNull(r) {
			continue
		}
		switch c := col.(type) {
		case *j.FloatColumn:
			rec[c.Name()], _ = c.Get(r)
		case *j.IntColumn:
			rec[c.Name()], _ = c.Get(r)
		case *j.BoolColumn:
			rec[c.Name()], _ = c.Get(r)
		default:
			rec[c.Name()], _ = j.Format(col, r)
		}
	}
	b, err := json.Marshal(rec)
	return string(b), err
}

// WriteAll writes a Frame to a Parquet file using the parquet-go JSON writer.
func WriteAll(path string, f *j.Frame) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	schema, err := parquetSchemaJSON(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(schema, fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	defer func() {
		if serr := writer.WriteStop(); serr != nil && err == nil {
			err = fmt.Errorf("parquet write stop: %w", serr)
		}
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for r := 0; r < f.Rows(); r++ {
		rec, err := record(f, r)
		if err != nil {
			return err
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	return nil
}
