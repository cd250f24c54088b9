package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cirgest/internal/bureau"
	"github.com/dgallion1/cirgest/internal/config"
	"github.com/dgallion1/cirgest/internal/export"
	"github.com/dgallion1/cirgest/internal/parser"
)

const version = "1.0.0"

// typeList collects repeated --type flags.
type typeList []string

func (t *typeList) String() string     { return strings.Join(*t, ",") }
func (t *typeList) Set(v string) error { *t = append(*t, v); return nil }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("cirgest", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var types typeList
	fs.Var(&types, "type", "Borrower type: Applicant or Co-Applicant (once for all files, or once per file)")
	outputFlag := fs.String("output", "", "Output workbook path (defaults to CIRGEST_WORKBOOK_NAME)")
	csvFlag := fs.Bool("csv", false, "Also write accounts.csv and summary.csv next to the workbook")
	verboseFlag := fs.Bool("verbose", false, "Log per-file progress to stderr")
	versionFlag := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Credit report to workbook converter

Extracts the account list of each credit information report and writes one
worksheet per report plus a Summary sheet.

Usage:
  cirgest [flags] <report.pdf> [report2.pdf ...]

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Examples:
  cirgest john.pdf
  cirgest --type Applicant --type Co-Applicant john.pdf jane.pdf
  cirgest --output obligations.xlsx --csv *.pdf
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "cirgest v%s\n", version)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	inputs := fs.Args()
	borrowerTypes, err := resolveTypes(types, len(inputs))
	if err != nil {
		return err
	}

	opts := parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	docs := make([]bureau.Document, 0, len(inputs))
	for i, path := range inputs {
		text, err := decodeFile(path, opts)
		if err != nil {
			log.Error("skipping file", "file", path, "error", err)
			continue
		}
		log.Info("decoded", "file", path, "bytes", len(text))
		docs = append(docs, bureau.Document{Text: text, BorrowerType: borrowerTypes[i], SourceID: filepath.Base(path)})
	}
	if len(docs) == 0 {
		return errors.New("no input file could be decoded")
	}

	batch := bureau.ProcessBatch(docs, bureau.Options{
		MaxTextBytes: cfg.MaxTextBytes,
		MaxChunks:    cfg.MaxChunks,
		Workers:      cfg.BatchWorkers,
	})

	output := *outputFlag
	if output == "" {
		output = cfg.WorkbookName
	}
	if err := writeFile(output, func(w io.Writer) error { return export.WriteWorkbook(w, batch) }); err != nil {
		return err
	}
	written := []string{output}

	if *csvFlag {
		dir := filepath.Dir(output)
		accounts := filepath.Join(dir, "accounts.csv")
		summary := filepath.Join(dir, "summary.csv")
		if err := writeFile(accounts, func(w io.Writer) error { return export.WriteAccountsCSV(w, batch) }); err != nil {
			return err
		}
		if err := writeFile(summary, func(w io.Writer) error { return export.WriteSummaryCSV(w, batch) }); err != nil {
			return err
		}
		written = append(written, accounts, summary)
	}

	printSummary(stdout, batch)
	for _, p := range written {
		fmt.Fprintf(stdout, "Wrote %s\n", p)
	}
	return nil
}

// resolveTypes expands the --type flags to one borrower type per input.
func resolveTypes(flags []string, n int) ([]bureau.BorrowerType, error) {
	out := make([]bureau.BorrowerType, n)
	switch len(flags) {
	case 0, 1:
		bt := bureau.Applicant
		if len(flags) == 1 {
			var err error
			if bt, err = bureau.ParseBorrowerType(flags[0]); err != nil {
				return nil, err
			}
		}
		for i := range out {
			out[i] = bt
		}
	case n:
		for i, f := range flags {
			bt, err := bureau.ParseBorrowerType(f)
			if err != nil {
				return nil, err
			}
			out[i] = bt
		}
	default:
		return nil, fmt.Errorf("got %d --type flags for %d files", len(flags), n)
	}
	return out, nil
}

func decodeFile(path string, opts parser.Options) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	tree, err := parser.ParseFile(f, path, opts)
	if err != nil {
		return "", err
	}
	return tree.Text(), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func printSummary(w io.Writer, batch bureau.Batch) {
	fmt.Fprintf(w, "%-32s %-5s %-10s %-12s %s\n", "Customer", "Score", "Date", "Type", "Accounts")
	for _, d := range batch.Documents {
		s := d.Summary
		fmt.Fprintf(w, "%-32s %-5s %-10s %-12s %d\n", s.CustomerName, s.Score, s.ReportDate, s.BorrowerType, len(d.Records))
	}
}
