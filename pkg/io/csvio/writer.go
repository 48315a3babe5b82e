package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	iox "github.com/wdm0006/listingjanitor/pkg/io/ioutils"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// Write writes a Frame with a header row. Nulls are written as empty fields.
func Write(out io.Writer, f *j.Frame, opt WriterOptions) error {
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	if err := w.Write(f.Schema().Names()); err != nil {
		return err
	}
	cols := f.Columns()
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c], _ = j.Format(col, r)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAll writes a Frame to path, creating parent directories. A .gz or
// .zst suffix compresses the output.
func WriteAll(path string, f *j.Frame, opt WriterOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
