package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	iox "github.com/wdm0006/listingjanitor/pkg/io/ioutils"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
)

// ErrEmpty is returned for input without a single record.
var ErrEmpty = errors.New("csvio: empty input")

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
	// StrictTypes fails with a TypeConversionError on a value that does not
	// parse as its column kind. Otherwise such cells load as null.
	StrictTypes bool
	// Kinds pins column kinds by header name, overriding inference.
	Kinds map[string]j.Kind
}

type Reader struct {
	r   *csv.Reader
	opt ReaderOptions
	buf [][]string
	row int // data rows consumed by ReadAll
	// repair/warning counters
	shortRecords int
	longRecords  int
	badValues    int
}

// Open opens a possibly compressed CSV file ("-" for stdin). The returned
// closer releases the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(rc)
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.ReuseRecord = true
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}, rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.ReuseRecord = true
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

// ReadFile opens path, infers its schema and loads it.
func ReadFile(path string, opt ReaderOptions) (*j.Frame, error) {
	r, c, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	schema, _, err := r.InferSchema()
	if err != nil {
		return nil, err
	}
	return r.ReadAll(schema)
}

func (r *Reader) read() ([]string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rec))
	copy(out, rec)
	return out, nil
}

// InferSchema reads header (if present) and samples rows to determine column
// kinds. Columns named in ReaderOptions.Kinds keep the pinned kind.
func (r *Reader) InferSchema() (j.Schema, []string, error) {
	var names []string
	rec, err := r.read()
	if err == io.EOF {
		return j.Schema{}, nil, ErrEmpty
	}
	if err != nil {
		return j.Schema{}, nil, err
	}
	var sample [][]string
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
		sample = append(sample, rec)
	}

	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for len(sample) < max {
		rr, err := r.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return j.Schema{}, nil, err
		}
		sample = append(sample, rr)
	}

	kinds := inferKinds(sample, len(names))
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for i := range names {
		k := kinds[i]
		if pinned, ok := r.opt.Kinds[names[i]]; ok {
			k = pinned
		}
		schema.Columns[i] = j.ColumnSchema{Name: names[i], Type: k, Nullable: true}
	}
	// retain sampled rows for subsequent ReadAll
	r.buf = append(r.buf, sample...)
	return schema, names, nil
}

// ReadAll loads the rest of the CSV into a Frame.
func (r *Reader) ReadAll(schema j.Schema) (*j.Frame, error) {
	f := j.NewFrame(schema)
	for {
		var rec []string
		if len(r.buf) > 0 {
			rec, r.buf = r.buf[0], r.buf[1:]
		} else {
			var err error
			rec, err = r.read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *j.Frame, schema j.Schema, rec []string) error {
	row := f.Rows()
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", r.row, len(schema.Columns), len(rec))
		}
	}
	if len(rec) < len(schema.Columns) {
		r.shortRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv short record at row %d: need %d fields, got %d", r.row, len(schema.Columns), len(rec))
		}
	}
	f.AppendNullRow()
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			break
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if val == "" {
			continue
		}
		v, err := parseValue(cs.Type, val)
		if err != nil {
			if r.opt.StrictTypes {
				return &j.TypeConversionError{Column: cs.Name, Row: r.row, Value: val, Want: cs.Type, Err: err}
			}
			r.badValues++
			continue
		}
		if err := f.SetCell(row, cs.Name, v); err != nil {
			return err
		}
	}
	r.row++
	return nil
}

func parseValue(k j.Kind, val string) (any, error) {
	switch k {
	case j.KindFloat:
		return strconv.ParseFloat(val, 64)
	case j.KindInt:
		if x, err := strconv.ParseInt(val, 10, 64); err == nil {
			return x, nil
		}
		// exports write nullable integer columns as 3.0
		x, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, err
		}
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("%s is not a whole number", val)
		}
		return int64(x), nil
	case j.KindBool:
		return strconv.ParseBool(strings.ToLower(val))
	case j.KindTime:
		return time.Parse(time.RFC3339, val)
	default:
		return val, nil
	}
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func inferKinds(rows [][]string, ncol int) []j.Kind {
	kinds := make([]j.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, str := 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			if numre.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
				continue
			}
			str++
		}
		switch {
		case num > 0 && str == 0 && integer == num:
			kinds[c] = j.KindInt
		case num > 0 && str == 0:
			kinds[c] = j.KindFloat
		default:
			kinds[c] = j.KindString
		}
	}
	return kinds
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// only the header line decides; free text in later rows skews counts
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	var parts []string
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	if r.badValues > 0 {
		parts = append(parts, fmt.Sprintf("bad_values=%d", r.badValues))
	}
	return strings.Join(parts, ", ")
}
