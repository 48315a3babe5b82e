package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	csvio "github.com/wdm0006/listingjanitor/pkg/io/csvio"
	iox "github.com/wdm0006/listingjanitor/pkg/io/ioutils"
	parquetio "github.com/wdm0006/listingjanitor/pkg/io/parquetio"
	xlsxio "github.com/wdm0006/listingjanitor/pkg/io/xlsxio"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// TimestampLayout is appended to saved file names.
const TimestampLayout = "20060102_150405"

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatXLSX    = "xlsx"
)

// Saver writes cleaned frames under OutputRoot, mirroring their location
// below InputRoot, as <name>_<timestamp><ext>. Older versions of the same
// name are deleted first.
type Saver struct {
	InputRoot  string
	OutputRoot string
	Format     string // csv (default), parquet or xlsx
	Writer     csvio.WriterOptions
	Now        func() time.Time
}

var versionSuffix = regexp.MustCompile(`^_\d{8}_\d{6}$`)

// Target returns the path a frame loaded from src is saved to.
func (s Saver) Target(src string) string {
	rel, err := filepath.Rel(s.InputRoot, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	stem, ext := iox.SplitExt(rel)
	switch s.Format {
	case FormatParquet:
		ext = ".parquet"
	case FormatXLSX:
		ext = ".xlsx"
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	name := fmt.Sprintf("%s_%s%s", filepath.Base(stem), now().Format(TimestampLayout), ext)
	return filepath.Join(s.OutputRoot, filepath.Dir(stem), name)
}

// Save writes f and returns the written path.
func (s Saver) Save(ctx context.Context, f *j.Frame, src string) (string, error) {
	target := s.Target(src)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	if err := removeVersions(ctx, target); err != nil {
		return "", err
	}
	var err error
	switch s.Format {
	case "", FormatCSV:
		err = csvio.WriteAll(target, f, s.Writer)
	case FormatParquet:
		err = parquetio.WriteAll(target, f)
	case FormatXLSX:
		err = xlsxio.WriteAll(target, f)
	default:
		err = fmt.Errorf("unsupported output format %q", s.Format)
	}
	if err != nil {
		return "", fmt.Errorf("save %s: %w", target, err)
	}
	j.Logger(ctx).Info("cleaned data saved", "path", target)
	return target, nil
}

// removeVersions deletes earlier timestamped copies of target's base name.
func removeVersions(ctx context.Context, target string) error {
	dir := filepath.Dir(target)
	stem, ext := iox.SplitExt(filepath.Base(target))
	base := stem[:len(stem)-len("_")-len(TimestampLayout)]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, base) || !strings.HasSuffix(name, ext) {
			continue
		}
		if !versionSuffix.MatchString(strings.TrimSuffix(strings.TrimPrefix(name, base), ext)) {
			continue
		}
		old := filepath.Join(dir, name)
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("remove old version %s: %w", old, err)
		}
		j.Logger(ctx).Info("deleted old file", "path", old)
	}
	return nil
}
