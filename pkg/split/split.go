// Package split regroups raw listing exports into one file per category and
// year.
package split

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wdm0006/listingjanitor/pkg/batch"
	csvio "github.com/wdm0006/listingjanitor/pkg/io/csvio"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

const (
	Rent = "rent"
	Sale = "sale"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Categorize sorts files into rent and sale by name.
func Categorize(files []string) map[string][]string {
	out := map[string][]string{Rent: nil, Sale: nil}
	for _, f := range files {
		if strings.Contains(filepath.Base(f), Rent) {
			out[Rent] = append(out[Rent], f)
		} else {
			out[Sale] = append(out[Sale], f)
		}
	}
	return out
}

// YearOf returns the first four-digit number in the file name.
func YearOf(path string) (string, bool) {
	y := yearPattern.FindString(filepath.Base(path))
	return y, y != ""
}

// LoadByYear reads files and stacks those sharing a year. Files without a
// year in their name, or that fail to load, are logged and left out.
func LoadByYear(ctx context.Context, files []string, opt csvio.ReaderOptions) (map[string]*j.Frame, error) {
	log := j.Logger(ctx)
	parts := map[string][]*j.Frame{}
	for _, path := range files {
		year, ok := YearOf(path)
		if !ok {
			log.Warn("could not determine year in file", "file", path)
			continue
		}
		f, err := csvio.ReadFile(path, opt)
		if err != nil {
			log.Error("error loading file", "file", path, "error", err)
			continue
		}
		parts[year] = append(parts[year], f)
		log.Info("successfully loaded file", "file", path, "year", year, "rows", f.Rows())
	}
	out := make(map[string]*j.Frame, len(parts))
	for year, frames := range parts {
		f, err := j.Concat(frames...)
		if err != nil {
			return nil, fmt.Errorf("concat %s: %w", year, err)
		}
		out[year] = f
	}
	return out, nil
}

// Save writes each year to <out>/<category>_<year>/<category>_data_<year>_<ts>.csv,
// clearing whatever the year folder held before. It returns the written paths
// sorted by year.
func Save(ctx context.Context, byYear map[string]*j.Frame, out, category string, now time.Time) ([]string, error) {
	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)

	log := j.Logger(ctx)
	var written []string
	for _, year := range years {
		dir := filepath.Join(out, fmt.Sprintf("%s_%s", category, year))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", dir, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return written, err
		}
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
				return written, err
			}
		}
		if len(entries) > 0 {
			log.Info("existing files removed", "folder", dir, "count", len(entries))
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_data_%s_%s.csv", category, year, now.Format(batch.TimestampLayout)))
		if err := csvio.WriteAll(path, byYear[year], csvio.WriterOptions{}); err != nil {
			return written, fmt.Errorf("save %s: %w", path, err)
		}
		log.Info("data saved", "category", category, "year", year, "path", path, "rows", byYear[year].Rows())
		written = append(written, path)
	}
	return written, nil
}

// Run splits every CSV directly inside in and saves the result under out.
func Run(ctx context.Context, in, out string, opt csvio.ReaderOptions) ([]string, error) {
	files, err := batch.List(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var written []string
	cats := Categorize(files)
	for _, cat := range []string{Rent, Sale} {
		byYear, err := LoadByYear(ctx, cats[cat], opt)
		if err != nil {
			return written, err
		}
		paths, err := Save(ctx, byYear, out, cat, now)
		written = append(written, paths...)
		if err != nil {
			return written, fmt.Errorf("save %s data: %w", cat, err)
		}
	}
	return written, nil
}
