// Package stream provides the byte-stream layer: opening plain or
// gzip-framed input from files or stdin, writing plain or gzip-framed
// output to files or stdout, and concatenating multiple inputs in order.
// It is pure plumbing — the record codec and evaluator never import it.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the two-byte gzip header used for stdin auto-detection.
var gzipMagic = [2]byte{0x1f, 0x8b}

// Source is one opened, decompressed-if-needed input stream.
type Source struct {
	r      io.Reader
	closer io.Closer
}

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) { return s.r.Read(p) }

// Close releases any file handle and gzip reader owned by this Source.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Open opens path for reading. path == "" or "-" reads stdin. Gzip framing
// is auto-detected: by the ".gz" suffix for a named file, and by peeking
// the 1F 8B magic bytes for stdin (which has no name to inspect).
func Open(path string) (*Source, error) {
	if path == "" || path == "-" {
		return openStdin()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return &Source{r: f, closer: f}, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	return &Source{r: gz, closer: multiCloser{gz, f}}, nil
}

func openStdin() (*Source, error) {
	br := bufio.NewReader(os.Stdin)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("stream: read stdin: %w", err)
	}
	if len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("stream: open stdin: %w", err)
		}
		return &Source{r: gz, closer: gz}, nil
	}
	return &Source{r: br}, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MultiSource concatenates a sequence of input paths (or a single stdin
// source when paths is empty) into one io.Reader, preserving the order
// records are emitted in (spec §5 ordering guarantee). It owns every
// opened Source and closes them all via Close.
type MultiSource struct {
	io.Reader
	sources []*Source
}

// OpenMulti opens every path in paths in order (or stdin if paths is
// empty) and returns a MultiSource reading from them back to back.
func OpenMulti(paths []string) (*MultiSource, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	ms := &MultiSource{}
	readers := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		src, err := Open(p)
		if err != nil {
			ms.Close()
			return nil, err
		}
		ms.sources = append(ms.sources, src)
		readers = append(readers, src)
	}
	ms.Reader = io.MultiReader(readers...)
	return ms, nil
}

// Close closes every underlying Source, returning the first error seen.
func (ms *MultiSource) Close() error {
	var first error
	for _, s := range ms.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Sink is one opened, compressed-if-needed output stream.
type Sink struct {
	w      io.Writer
	closer io.Closer
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close flushes and closes any gzip writer and file handle owned by this
// Sink.
func (s *Sink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Create opens path for writing, gzip-framing it at level when path ends
// in ".gz". path == "" or "-" writes to stdout; stdout is never
// gzip-framed, since it has no name to carry a ".gz" suffix.
func Create(path string, level int) (*Sink, error) {
	if path == "" || path == "-" {
		return &Sink{w: os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("stream: create %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return &Sink{w: f, closer: f}, nil
	}

	gz, err := gzip.NewWriterLevel(f, level)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stream: create %s: %w", path, err)
	}
	return &Sink{w: gz, closer: multiCloser{gz, f}}, nil
}
