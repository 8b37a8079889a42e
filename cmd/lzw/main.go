package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/ZaninAndrea/microlzw/internal/archive"
	"github.com/ZaninAndrea/microlzw/pkg/lzw"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	inputFile  string
	outputFile string
	mode       string
	length     uint
	unbounded  bool
	onFull     string
	fixed      bool
	baseline   bool
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("lzw", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.inputFile, "input-file", "", "file to read")
	fs.StringVar(&cfg.outputFile, "output-file", "", "file to write")
	fs.StringVar(&cfg.mode, "mode", "", "compress or decompress")
	fs.UintVar(&cfg.length, "length", uint(lzw.DefaultCodeWidth), "maximum code width in bits, between 8 and 16")
	fs.BoolVar(&cfg.unbounded, "unbounded", false, "let the dictionary grow without limit")
	fs.StringVar(&cfg.onFull, "on-full", "reset", "what a full dictionary does: reset or freeze")
	fs.BoolVar(&cfg.fixed, "fixed", false, "write every code with the maximum width")
	fs.BoolVar(&cfg.baseline, "baseline", false, "also report LZ4 and zstd sizes of the input")
	fs.BoolVar(&cfg.verbose, "v", false, "log codec statistics")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.inputFile == "" || cfg.outputFile == "" {
		return cfg, errors.New("both -input-file and -output-file are required")
	}
	if cfg.mode != "compress" && cfg.mode != "decompress" {
		return cfg, errors.Errorf("unknown mode %q, use compress or decompress", cfg.mode)
	}
	return cfg, nil
}

func (cfg config) policy() (lzw.Policy, error) {
	p := lzw.Policy{Width: lzw.WidthGrowing}
	if cfg.fixed {
		p.Width = lzw.WidthFixed
	}
	if cfg.unbounded {
		p.MaxWidth = lzw.Unbounded
		return p, nil
	}

	if cfg.length > 255 {
		return p, errors.Errorf("invalid -length %d", cfg.length)
	}
	p.MaxWidth = uint8(cfg.length)
	switch cfg.onFull {
	case "reset":
		p.OnFull = lzw.Reset
	case "freeze":
		p.OnFull = lzw.Freeze
	default:
		return p, errors.Errorf("unknown -on-full %q, use reset or freeze", cfg.onFull)
	}
	return p, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := archive.Options{Baseline: cfg.baseline}
	if cfg.verbose {
		opts.Logger = log.New(stderr, "[lzw] ", log.LstdFlags)
	}

	if cfg.mode == "decompress" {
		report, err := archive.DecompressFile(cfg.inputFile, cfg.outputFile, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error failed to decompress: %v\n", err)
			return 1
		}
		printReport(stdout, "Decompression finished", report, false)
		return 0
	}

	opts.Policy, err = cfg.policy()
	if err != nil {
		fmt.Fprintf(stderr, "Error failed to compress: %v\n", err)
		return 1
	}
	report, err := archive.CompressFile(cfg.inputFile, cfg.outputFile, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error failed to compress: %v\n", err)
		return 1
	}
	printReport(stdout, "Compression finished", report, true)
	return 0
}

func printReport(w io.Writer, title string, report archive.Report, withRatio bool) {
	fmt.Fprintln(w, "-------------------------------------")
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Input file size: %d bytes\n", report.InputBytes)
	fmt.Fprintf(w, "Output file size: %d bytes\n", report.OutputBytes)
	if withRatio {
		ratio := report.Ratio()
		fmt.Fprintf(w, "Compression ratio: %.3f (%.2f %%)\n", ratio, ratio*100)
	}
	if report.Baseline != nil {
		fmt.Fprintf(w, "LZ4 size: %d bytes\n", report.Baseline.LZ4)
		fmt.Fprintf(w, "Zstd size: %d bytes\n", report.Baseline.Zstd)
	}
	fmt.Fprintf(w, "Elapsed: %.3f (s)\n", report.Elapsed.Seconds())
}
