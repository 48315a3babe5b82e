package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/wdm0006/listingjanitor/pkg/batch"
	csvio "github.com/wdm0006/listingjanitor/pkg/io/csvio"
	j "github.com/wdm0006/listingjanitor/pkg/janitor"
	"github.com/wdm0006/listingjanitor/pkg/listing"
	"github.com/wdm0006/listingjanitor/pkg/profile"
	"github.com/wdm0006/listingjanitor/pkg/split"
)

var (
	version = "0.1.0-dev"
)

const usage = `usage: listingjanitor <command> [flags]

commands:
  clean    impute missing listing attributes and save the cleaned files
  split    split raw exports into rent/sale files per year
  report   print missing values per column of a CSV file
  version  print version and exit
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "clean":
		err = runClean(ctx, os.Args[2:])
	case "split":
		err = runSplit(ctx, os.Args[2:])
	case "report":
		err = runReport(os.Args[2:], os.Stdout)
	case "version", "-version", "--version":
		fmt.Println("listingjanitor", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and applies command line overrides on top of it.
func setup(fs *flag.FlagSet, args []string) (*Config, *slog.Logger, io.Closer, error) {
	configPath := fs.String("config", "", "Path to config file (JSON, TOML or YAML)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")
	envFile := fs.String("env-file", ".env", "Dotenv file with LISTINGJANITOR_* overrides")
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	if err := loadEnvFile(*envFile); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := Load(*configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	fs.Visit(func(f *flag.Flag) { applyFlag(cfg, f) })
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	log, closer, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(log)
	return cfg, log, closer, nil
}

func applyFlag(cfg *Config, f *flag.Flag) {
	v := f.Value.String()
	switch f.Name {
	case "in":
		cfg.Input.Path = v
	case "out":
		cfg.Output.Path = v
	case "format":
		cfg.Output.Format = v
	case "verify":
		cfg.Pipeline.Verify, _ = strconv.ParseBool(v)
	case "strict":
		cfg.Pipeline.Strict, _ = strconv.ParseBool(v)
	}
}

func readerOptions(cfg *Config) csvio.ReaderOptions {
	return csvio.ReaderOptions{
		HasHeader:   true,
		Delimiter:   delimiter(cfg.Input.Delimiter),
		SampleRows:  100,
		StrictTypes: cfg.Input.StrictTypes,
		Kinds:       listing.Kinds(),
	}
}

func runClean(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.String("in", "", "Input CSV file or folder")
	fs.String("out", "", "Output folder")
	fs.String("format", "", "Output format: csv, parquet or xlsx")
	fs.Bool("verify", false, "Check cleaned frames before saving")
	fs.Bool("strict", false, "With -verify, also require build years and distances")
	cfg, log, closer, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	files, root, err := inputFiles(cfg.Input.Path)
	if err != nil {
		return err
	}
	custom, err := buildSteps(cfg.Steps)
	if err != nil {
		return err
	}
	newPipeline := func() *j.Pipeline {
		if custom != nil {
			// Steps keep no state between runs, so the parsed pipeline is reused.
			return custom
		}
		return listing.NewPipeline(listing.Options{
			BooleanColumns: cfg.Pipeline.BooleanColumns,
			ElevatorFloors: cfg.Pipeline.ElevatorFloors,
		})
	}

	r := &batch.Runner{
		Pipeline: newPipeline,
		Reader:   readerOptions(cfg),
		Saver: batch.Saver{
			InputRoot:  root,
			OutputRoot: cfg.Output.Path,
			Format:     cfg.Output.Format,
			Writer:     csvio.WriterOptions{Delimiter: delimiter(cfg.Output.Delimiter)},
		},
		Logger: log,
	}
	if cfg.Pipeline.Verify {
		r.Verify = listing.Verifier{Strict: cfg.Pipeline.Strict}.Verify
	}

	sum, err := r.Run(ctx, files)
	printSummary(os.Stdout, sum)
	if err != nil {
		return err
	}
	if n := sum.Failed(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(sum.Results))
	}
	return nil
}

// inputFiles resolves path to the CSV files to clean and the root their
// output locations are mirrored from.
func inputFiles(path string) (files []string, root string, err error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", &batch.FolderNotFoundError{Path: path}
		}
		return nil, "", err
	}
	if !st.IsDir() {
		return []string{path}, filepath.Dir(path), nil
	}
	files, err = batch.Discover(path)
	return files, path, err
}

func printSummary(w io.Writer, sum batch.Summary) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"File", "Status", "Rows", "Output"})
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range sum.Results {
		status := "ok"
		switch {
		case r.Err != nil:
			status = "failed"
		case r.Skipped:
			status = "skipped"
		}
		tw.Append([]string{r.Path, status, strconv.Itoa(r.Rows), r.Output})
	}
	tw.SetFooter([]string{"run " + sum.RunID, "", strconv.Itoa(sum.Processed()) + " ok", ""})
	tw.Render()
}

func runSplit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.String("in", "", "Folder holding raw exports")
	fs.String("out", "", "Output folder")
	cfg, log, closer, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	opt := readerOptions(cfg)
	opt.Kinds = nil
	written, err := split.Run(j.WithLogger(ctx, log), cfg.Input.Path, cfg.Output.Path, opt)
	for _, p := range written {
		fmt.Println(p)
	}
	return err
}

func runReport(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	delim := fs.String("delimiter", "", "Field delimiter; sniffed when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("report: expected one CSV file, got %d arguments", fs.NArg())
	}
	f, err := csvio.ReadFile(fs.Arg(0), csvio.ReaderOptions{HasHeader: true, Delimiter: delimiter(*delim)})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, profile.Missing(f).Text())
	return err
}
