// Package archive compresses and decompresses whole files with pkg/lzw.
//
// Input and output go through 32 KiB buffers. The output file is created only
// after the policy has been validated, and it is removed again if anything
// fails, so a failed run never leaves a partial file behind.
package archive

import (
	"bufio"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ZaninAndrea/microlzw/pkg/lzw"
)

const BUFFER_SIZE int = 32 * 1024

type Options struct {
	// Policy is used when compressing. Decompression reads it from the header.
	Policy lzw.Policy

	// Baseline also measures what LZ4 and zstd make of the input.
	Baseline bool

	// Logger receives progress lines. Nil keeps the package silent.
	Logger *log.Logger
}

func DefaultOptions() Options {
	return Options{Policy: lzw.DefaultPolicy()}
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

type Report struct {
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration

	// Policy is the policy the stream was written with.
	Policy lzw.Policy
	Stats  lzw.Stats

	// Baseline is set when Options.Baseline was requested on compression.
	Baseline *Baseline
}

// Ratio returns input size over output size, 0 when the output is empty.
func (r Report) Ratio() float64 {
	if r.OutputBytes == 0 {
		return 0
	}
	return float64(r.InputBytes) / float64(r.OutputBytes)
}

// CompressFile compresses inputPath into outputPath.
func CompressFile(inputPath, outputPath string, opts Options) (Report, error) {
	start := time.Now()
	if err := opts.Policy.Validate(); err != nil {
		return Report{}, err
	}

	report, err := transform(inputPath, outputPath, opts, func(dst io.Writer, src io.Reader) (lzw.Stats, lzw.Policy, error) {
		stats, err := lzw.Compress(dst, src, opts.Policy)
		return stats, opts.Policy, err
	})
	if err != nil {
		return Report{}, err
	}

	if opts.Baseline {
		baseline, err := MeasureBaseline(inputPath)
		if err != nil {
			return Report{}, err
		}
		report.Baseline = &baseline
		opts.logf("baseline: lz4 %d bytes, zstd %d bytes", baseline.LZ4, baseline.Zstd)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// DecompressFile decompresses inputPath into outputPath.
func DecompressFile(inputPath, outputPath string, opts Options) (Report, error) {
	start := time.Now()

	report, err := transform(inputPath, outputPath, opts, func(dst io.Writer, src io.Reader) (lzw.Stats, lzw.Policy, error) {
		dec, err := lzw.NewDecoder(src)
		if err != nil {
			return lzw.Stats{}, lzw.Policy{}, err
		}
		_, err = dec.WriteTo(dst)
		return dec.Stats(), dec.Policy(), err
	})
	if err != nil {
		return Report{}, err
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

type codec func(dst io.Writer, src io.Reader) (lzw.Stats, lzw.Policy, error)

func transform(inputPath, outputPath string, opts Options, run codec) (Report, error) {
	inputFile, err := os.Open(inputPath)
	if err != nil {
		return Report{}, ioError("open", err)
	}
	defer inputFile.Close()

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return Report{}, ioError("create", err)
	}

	src := &countingReader{r: inputFile}
	dst := &countingWriter{w: outputFile}
	buffered := bufio.NewWriterSize(dst, BUFFER_SIZE)

	stats, policy, err := run(buffered, bufio.NewReaderSize(src, BUFFER_SIZE))
	if err == nil {
		if flushErr := buffered.Flush(); flushErr != nil {
			err = ioError("write", flushErr)
		}
	}
	if closeErr := outputFile.Close(); err == nil && closeErr != nil {
		err = ioError("close", closeErr)
	}
	if err != nil {
		if removeErr := os.Remove(outputPath); removeErr != nil {
			opts.logf("could not remove partial output %s: %v", outputPath, removeErr)
		}
		return Report{}, err
	}

	opts.logf("%s: %d codes, %d insertions, %d resets, peak width %d",
		policy, stats.Codes, stats.Insertions, stats.Resets, stats.PeakWidth)

	return Report{
		InputBytes:  src.Offset(),
		OutputBytes: dst.Offset(),
		Policy:      policy,
		Stats:       stats,
	}, nil
}

// ioError reports a file system failure with the same taxonomy as pkg/lzw.
func ioError(op string, err error) error {
	return &lzw.Error{Kind: lzw.KindIO, Op: op, Err: errors.WithStack(err)}
}
