package archive

import "io"

// countingWriter tracks how many bytes reached the underlying writer.
type countingWriter struct {
	w      io.Writer
	offset int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.offset += int64(n)
	return n, err
}

func (cw *countingWriter) Offset() int64 {
	return cw.offset
}

// countingReader tracks how many bytes were pulled from the underlying reader.
type countingReader struct {
	r      io.Reader
	offset int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.offset += int64(n)
	return n, err
}

func (cr *countingReader) Offset() int64 {
	return cr.offset
}
