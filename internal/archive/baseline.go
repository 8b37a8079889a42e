package archive

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Baseline holds the compressed sizes other codecs reach on the same input.
type Baseline struct {
	LZ4  int64
	Zstd int64
}

// MeasureBaseline compresses the file at path with LZ4 and zstd, discarding the
// output and keeping only the sizes.
func MeasureBaseline(path string) (Baseline, error) {
	file, err := os.Open(path)
	if err != nil {
		return Baseline{}, ioError("open", err)
	}
	defer file.Close()

	return measureBaseline(bufio.NewReaderSize(file, BUFFER_SIZE))
}

func measureBaseline(r io.Reader) (Baseline, error) {
	lz4Size := &countingWriter{w: io.Discard}
	zstdSize := &countingWriter{w: io.Discard}

	lz4Writer := lz4.NewWriter(lz4Size)
	zstdWriter, err := zstd.NewWriter(zstdSize, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return Baseline{}, errors.Wrap(err, "zstd encoder")
	}

	if _, err := io.Copy(io.MultiWriter(lz4Writer, zstdWriter), r); err != nil {
		zstdWriter.Close()
		return Baseline{}, ioError("baseline", err)
	}
	if err := lz4Writer.Close(); err != nil {
		zstdWriter.Close()
		return Baseline{}, errors.Wrap(err, "lz4 baseline")
	}
	if err := zstdWriter.Close(); err != nil {
		return Baseline{}, errors.Wrap(err, "zstd baseline")
	}

	return Baseline{LZ4: lz4Size.Offset(), Zstd: zstdSize.Offset()}, nil
}
