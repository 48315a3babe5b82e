package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	csvio "github.com/wdm0006/listingjanitor/pkg/io/csvio"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/profile"
)

// Result describes one input file.
type Result struct {
	Path    string
	Output  string
	Rows    int
	Skipped bool
	Err     error
	Missing profile.Report
	Elapsed time.Duration
}

// Summary collects the results of a run.
type Summary struct {
	RunID   string
	Results []Result
}

func (s Summary) Processed() int {
	n := 0
	for _, r := range s.Results {
		if !r.Skipped && r.Err == nil {
			n++
		}
	}
	return n
}

func (s Summary) Skipped() int {
	n := 0
	for _, r := range s.Results {
		if r.Skipped {
			n++
		}
	}
	return n
}

func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Runner cleans files independently: every file gets a fresh pipeline and
// its own statistics.
type Runner struct {
	// Pipeline builds the steps for one file.
	Pipeline func() *j.Pipeline
	Reader   csvio.ReaderOptions
	Saver    Saver
	// Verify, when set, checks each cleaned frame before it is saved.
	Verify func(ctx context.Context, f *j.Frame) error
	Logger *slog.Logger
}

// Run processes files in order. Files that cannot be read or hold no rows are
// skipped, files whose cleaning fails are recorded as failed, and the run
// moves on either way. Only cancellation stops it early.
func (r *Runner) Run(ctx context.Context, files []string) (Summary, error) {
	log := r.Logger
	if log == nil {
		log = j.Logger(ctx)
	}
	sum := Summary{RunID: uuid.NewString()}
	log = log.With("run_id", sum.RunID)
	log.Info("run started", "files", len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res := r.runFile(j.WithLogger(ctx, log.With("file", path)), path)
		sum.Results = append(sum.Results, res)
	}

	for _, res := range sum.Results {
		switch {
		case res.Err != nil:
			log.Error("failed", "file", res.Path, "error", res.Err)
		case res.Skipped:
			log.Warn("skipped", "file", res.Path)
		default:
			log.Info("successfully processed", "file", res.Path, "output", res.Output, "rows", res.Rows)
		}
	}
	log.Info("run finished", "processed", sum.Processed(), "skipped", sum.Skipped(), "failed", sum.Failed())
	return sum, nil
}

func (r *Runner) runFile(ctx context.Context, path string) Result {
	log := j.Logger(ctx)
	start := time.Now()
	res := Result{Path: path}

	log.Info("loading data")
	f, err := csvio.ReadFile(path, r.Reader)
	if err != nil && !errors.Is(err, j.ErrTypeConversion) {
		log.Warn("failed to load file, skipping", "error", err)
		res.Skipped = true
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}
	if f.Rows() == 0 {
		log.Warn("no data found, skipping")
		res.Skipped = true
		return res
	}

	out, err := r.Pipeline().Run(ctx, f)
	if err != nil {
		res.Err = err
		return res
	}
	res.Rows = out.Rows()
	res.Missing = profile.Missing(out)
	log.Info("report on missing values", "missing", res.Missing)

	if r.Verify != nil {
		if err := r.Verify(ctx, out); err != nil {
			res.Err = err
			return res
		}
	}
	res.Output, res.Err = r.Saver.Save(ctx, out, path)
	res.Elapsed = time.Since(start)
	return res
}
