package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/Matidigital/Contapyme-sub001/internal/config"
	"github.com/Matidigital/Contapyme-sub001/internal/f29"
	"github.com/Matidigital/Contapyme-sub001/internal/pdf"
)

// options holds the command line settings of one invocation
type options struct {
	format      string
	knownValues string
	tolerance   int64
	sequential  bool
	plainText   bool
	maxFileSize int64
	verbose     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	opts, path, err := parseArgs(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return 2
	}

	logOutput := io.Discard
	if opts.verbose {
		logOutput = stderr
	}

	catalog := f29.DefaultCatalog()
	known, err := pdf.LoadKnownValues(opts.knownValues, catalog)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	engine := f29.NewEngine(
		f29.WithCatalog(catalog),
		f29.WithLogger(log.New(logOutput, "[F29Engine] ", log.LstdFlags)),
		f29.WithKnownValues(known),
		f29.WithConcurrency(!opts.sequential),
		f29.WithTolerance(opts.tolerance),
	)

	doc, err := loadDocument(path, opts, catalog)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if doc.TextError != "" && opts.verbose {
		fmt.Fprintf(stderr, "Warning: no text layer (%s), using raw bytes only\n", doc.TextError)
	}

	report, err := engine.Extract(context.Background(), doc.Input())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result := &pdf.ExtractResult{
		Path:       doc.Path,
		Pages:      doc.Pages,
		Size:       doc.Size,
		FormFields: len(doc.FormFields),
		TextLength: len(doc.Text),
		Report:     report,
	}

	if err := writeResult(stdout, result, catalog, opts.format); err != nil {
		fmt.Fprintf(stderr, "Error outputting results: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (*options, string, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("f29-extract", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	fs.StringVar(&opts.format, "format", "text", "Output format: text, json")
	fs.StringVar(&opts.knownValues, "knownvalues", "", "YAML file with known amounts per field")
	fs.Int64Var(&opts.tolerance, "tolerance", config.DefaultTolerance, "Tolerance in pesos for consistency warnings")
	fs.BoolVar(&opts.sequential, "sequential", false, "Run strategies one after another")
	fs.BoolVar(&opts.plainText, "text", false, "Treat the input as already extracted text instead of a PDF")
	fs.Int64Var(&opts.maxFileSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum input size in bytes")
	fs.BoolVarP(&opts.verbose, "verbose", "V", false, "Log strategy activity to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	if fs.NArg() != 1 {
		return nil, "", errors.New("exactly one input file is required")
	}
	if opts.format != "text" && opts.format != "json" {
		return nil, "", fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.tolerance < 0 {
		return nil, "", errors.New("tolerance cannot be negative")
	}
	if opts.maxFileSize <= 0 {
		return nil, "", errors.New("maximum file size must be positive")
	}

	return opts, fs.Arg(0), nil
}

// loadDocument reads a PDF through the reader, or a text file verbatim
func loadDocument(path string, opts *options, catalog *f29.Catalog) (*pdf.Document, error) {
	if !opts.plainText {
		return pdf.NewReader(opts.maxFileSize, pdf.NewFormExtractor(catalog)).Load(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.Size() > opts.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), opts.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &pdf.Document{Path: path, Text: string(data), Size: info.Size()}, nil
}

func writeResult(w io.Writer, result *pdf.ExtractResult, catalog *f29.Catalog, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	report := result.Report
	fmt.Fprintf(w, "File: %s\n", result.Path)
	fmt.Fprintf(w, "Run: %s (%s)\n\n", report.RunID, report.Elapsed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tFIELD\tVALUE\tSTRATEGY")
	for _, spec := range catalog.Fields() {
		field, ok := report.Fields[spec.ID]
		if !ok {
			continue
		}
		value := field.Value.String()
		if spec.Kind == f29.KindAmount && !field.Value.IsText() {
			value = f29.FormatAmount(field.Value.Amount)
		}
		code := spec.Code
		if code == "" {
			code = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", code, spec.Description, value, field.Strategy)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  %s: %s is %s, expected %s (%s)\n", warning.Rule, warning.Field,
				f29.FormatAmount(warning.Observed), f29.FormatAmount(warning.Expected),
				strings.Join(warning.Against, " + "))
		}
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  f29-extract [OPTIONS] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "  --format        Output format: text (default), json")
	fmt.Fprintln(w, "  --text          Input is extracted text, not a PDF")
	fmt.Fprintln(w, "  --knownvalues   YAML file with known amounts per field")
	fmt.Fprintln(w, "  --tolerance     Consistency tolerance in pesos (default 1000)")
	fmt.Fprintln(w, "  --sequential    Run strategies one after another")
	fmt.Fprintln(w, "  --maxfilesize   Maximum input size in bytes")
	fmt.Fprintln(w, "  -V, --verbose   Log strategy activity to stderr")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  f29-extract declaracion-202405.pdf")
	fmt.Fprintln(w, "  f29-extract --format json --knownvalues known.yaml declaracion.pdf")
	fmt.Fprintln(w, "  f29-extract --text ocr-output.txt")
}
