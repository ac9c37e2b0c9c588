// internal/sink/sink.go

// Package sink writes the export output: either a timestamped compressed VCF
// file under a directory, or a caller-supplied stream. Exactly one of the two
// modes is chosen at construction.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"vcfdump/internal/errs"
	"vcfdump/internal/vcf"
)

// Sink emits one header followed by records in the order given. File-mode
// output is staged in a hidden temp file and only renamed to its final
// timestamped name on a successful Close, so an aborted run never leaves a
// final-named artifact behind.
type Sink struct {
	// file mode
	dir       string
	finalPath string
	tmpPath   string
	file      *os.File
	gz        *gzip.Writer

	// stream mode
	stream *bufio.Writer

	dict          *vcf.SequenceDictionary
	out           io.Writer
	sampleCount   int
	headerWritten bool
	closed        bool
}

// NewFileSink prepares a sink that will write
// <species>_exported_<timestamp>.vcf.gz under dir. Nothing touches the
// filesystem until WriteHeader.
func NewFileSink(dir, species string) (*Sink, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: 'outputDir' is required", errs.ErrInvalidArgument)
	}
	if species == "" {
		return nil, fmt.Errorf("%w: 'species' is required", errs.ErrInvalidArgument)
	}
	name := fmt.Sprintf("%s_exported_%s.vcf.gz", species, time.Now().Format("2006-01-02T15:04:05"))
	return &Sink{
		dir:       dir,
		finalPath: filepath.Join(dir, name),
	}, nil
}

// NewStreamSink wraps a caller-supplied stream. No file is created and no
// compression is applied: the bytes go where the caller pointed.
func NewStreamSink(w io.Writer) *Sink {
	return &Sink{stream: bufio.NewWriter(w)}
}

// SetDictionary supplies the optional sequence dictionary rendered into the
// header's contig lines. Call before WriteHeader; a nil dictionary means the
// header goes out without contig metadata.
func (s *Sink) SetDictionary(d *vcf.SequenceDictionary) { s.dict = d }

// Path returns the resolved output file path, empty in stream mode.
func (s *Sink) Path() string { return s.finalPath }

// WriteHeader opens the underlying resource and writes the header block.
// It must be called exactly once, before any Add.
func (s *Sink) WriteHeader(h *vcf.Header) error {
	if s.headerWritten {
		return fmt.Errorf("%w: header already written", errs.ErrIO)
	}
	if s.stream != nil {
		s.out = s.stream
	} else {
		f, err := os.CreateTemp(s.dir, "."+uuid.NewString()+"-*.tmp")
		if err != nil {
			return fmt.Errorf("%w: create output: %v", errs.ErrIO, err)
		}
		s.file = f
		s.tmpPath = f.Name()
		s.gz = gzip.NewWriter(f)
		s.out = s.gz
	}
	if err := vcf.WriteHeader(s.out, h, s.dict); err != nil {
		return fmt.Errorf("%w: write header: %v", errs.ErrIO, err)
	}
	s.sampleCount = len(h.Samples)
	s.headerWritten = true
	return nil
}

// Add appends one record. No internal reordering: callers hand records in
// the order they must appear.
func (s *Sink) Add(rec vcf.Record) error {
	if !s.headerWritten {
		return fmt.Errorf("%w: record before header", errs.ErrIO)
	}
	if err := rec.WriteTo(s.out, s.sampleCount); err != nil {
		return fmt.Errorf("%w: write record: %v", errs.ErrIO, err)
	}
	return nil
}

// Close flushes and, in file mode, publishes the temp file under its final
// name. Call at most once, and only on a run that completed.
func (s *Sink) Close() error {
	if s.closed {
		return fmt.Errorf("%w: sink already closed", errs.ErrIO)
	}
	s.closed = true
	if s.stream != nil {
		if err := s.stream.Flush(); err != nil {
			return fmt.Errorf("%w: flush: %v", errs.ErrIO, err)
		}
		return nil
	}
	if s.file == nil {
		// Header was never written; nothing to publish.
		return nil
	}
	// A failed Close must not leak the staged temp file: closed is already
	// set, so a later Discard would no-op.
	if err := s.gz.Close(); err != nil {
		_ = s.file.Close()
		_ = os.Remove(s.tmpPath)
		return fmt.Errorf("%w: flush: %v", errs.ErrIO, err)
	}
	if err := s.file.Close(); err != nil {
		_ = os.Remove(s.tmpPath)
		return fmt.Errorf("%w: close: %v", errs.ErrIO, err)
	}
	if err := os.Rename(s.tmpPath, s.finalPath); err != nil {
		_ = os.Remove(s.tmpPath)
		return fmt.Errorf("%w: publish output: %v", errs.ErrIO, err)
	}
	return nil
}

// Discard releases the sink after a failed run. The temp file, if any, is
// removed; the final name is never created.
func (s *Sink) Discard() {
	if s.closed {
		return
	}
	s.closed = true
	if s.stream != nil {
		_ = s.stream.Flush()
		return
	}
	if s.file != nil {
		_ = s.gz.Close()
		_ = s.file.Close()
		_ = os.Remove(s.tmpPath)
	}
}
