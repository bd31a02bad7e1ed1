// io.go provides file reading and buffered output writing for the compiler
// driver. The concurrency model of the pipeline is single-threaded and
// cooperative (see the SSA constructor design notes), so unlike the
// channel-fed writer this is adapted from, output is buffered directly in a
// strings.Builder and flushed once.

package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Writer buffers textual output (diagnostics, IR listings, token streams)
// before a single flush to file or stdout.
type Writer struct {
	sb strings.Builder
	f  *os.File
}

// NewWriter returns a Writer that flushes to stdout.
func NewWriter() *Writer {
	return &Writer{}
}

// NewFileWriter returns a Writer that flushes to the given file.
func NewFileWriter(f *os.File) *Writer {
	return &Writer{f: f}
}

// Write writes a format string to the Writer's buffer.
func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// WriteString writes a plain string to the Writer's buffer.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Flush writes the buffered contents to the underlying file or stdout and
// resets the buffer.
func (w *Writer) Flush() error {
	var bw *bufio.Writer
	if w.f != nil {
		bw = bufio.NewWriter(w.f)
	} else {
		bw = bufio.NewWriter(os.Stdout)
	}
	if _, err := bw.WriteString(w.sb.String()); err != nil {
		return err
	}
	w.sb.Reset()
	return bw.Flush()
}

// Close flushes any remaining output.
func (w *Writer) Close() error {
	return w.Flush()
}

// ReadSource reads the source file named by opt.Src.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) == 0 {
		return "", fmt.Errorf("no source file given")
	}
	b, err := os.ReadFile(opt.Src)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", opt.Src, err)
	}
	return string(b), nil
}
