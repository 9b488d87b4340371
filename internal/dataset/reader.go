package dataset

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes bounds a single line in line-delimited input.
const maxLineBytes = 64 * 1024 * 1024

// Open inspects the file at path and returns an iterator over its records.
// A leading `[` selects the JSON array reader; anything else is treated as
// line-delimited JSON. Files ending in .gz are gunzipped transparently.
func Open(path string) (Iterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapError(CodeFormatDetection, fmt.Errorf("open %s: %w", path, err))
	}

	var rc io.ReadCloser = f
	if strings.HasSuffix(path, ".gz") {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			_ = f.Close()
			return nil, wrapError(CodeFormatDetection, fmt.Errorf("gunzip %s: %w", path, gzErr))
		}
		rc = &gzipReadCloser{gz: gz, file: f}
	}

	br := bufio.NewReader(rc)
	first, err := peekFirstByte(br)
	if err != nil && err != io.EOF {
		_ = rc.Close()
		return nil, wrapError(CodeFormatDetection, fmt.Errorf("read %s: %w", path, err))
	}
	// An empty file falls through to the line reader, which yields no records.
	if err == nil && first == '[' {
		return newArrayIterator(path, rc, br), nil
	}
	return newLineIterator(path, rc, br), nil
}

// peekFirstByte skips leading whitespace and leaves the reader positioned at
// the first significant byte.
func peekFirstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// arrayIterator streams elements of a single top-level JSON array.
type arrayIterator struct {
	path    string
	closer  io.Closer
	dec     *json.Decoder
	started bool
	done    bool
	cur     Record
	err     error
}

func newArrayIterator(path string, closer io.Closer, r io.Reader) *arrayIterator {
	return &arrayIterator{path: path, closer: closer, dec: json.NewDecoder(r)}
}

func (it *arrayIterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	if !it.started {
		if _, err := it.dec.Token(); err != nil {
			it.err = wrapError(CodeParse, fmt.Errorf("read array start in %s: %w", it.path, err))
			return false
		}
		it.started = true
	}
	if !it.dec.More() {
		if _, err := it.dec.Token(); err != nil {
			it.err = wrapError(CodeParse, fmt.Errorf("read array end in %s: %w", it.path, err))
		}
		it.done = true
		return false
	}

	var elem any
	if err := it.dec.Decode(&elem); err != nil {
		it.err = wrapError(CodeParse, fmt.Errorf("decode array element in %s: %w", it.path, err))
		return false
	}
	rec, ok := elem.(map[string]any)
	if !ok {
		it.err = wrapError(CodeItemType, fmt.Errorf("expected object items in %s, got %T", it.path, elem))
		return false
	}
	it.cur = rec
	return true
}

func (it *arrayIterator) Value() Record { return it.cur }
func (it *arrayIterator) Err() error    { return it.err }
func (it *arrayIterator) Close() error  { return it.closer.Close() }

// lineIterator reads one JSON object per line, skipping blank lines.
type lineIterator struct {
	path    string
	closer  io.Closer
	scanner *bufio.Scanner
	cur     Record
	err     error
}

func newLineIterator(path string, closer io.Closer, r io.Reader) *lineIterator {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineIterator{path: path, closer: closer, scanner: scanner}
}

func (it *lineIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.scanner.Scan() {
		line := bytes.TrimSpace(it.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var elem any
		if err := json.Unmarshal(line, &elem); err != nil {
			it.err = wrapError(CodeParse, fmt.Errorf("decode line %q in %s: %w", string(line), it.path, err))
			return false
		}
		rec, ok := elem.(map[string]any)
		if !ok {
			it.err = wrapError(CodeItemType, fmt.Errorf("expected object items in %s, got %T", it.path, elem))
			return false
		}
		it.cur = rec
		return true
	}
	if err := it.scanner.Err(); err != nil {
		it.err = wrapError(CodeParse, fmt.Errorf("scan %s: %w", it.path, err))
	}
	return false
}

func (it *lineIterator) Value() Record { return it.cur }
func (it *lineIterator) Err() error    { return it.err }
func (it *lineIterator) Close() error  { return it.closer.Close() }

// gzipReadCloser closes both the gzip stream and the underlying file.
type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}
