package colmatch

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// codec decodes (and, when writer is set, encodes) one compression suffix.
type codec struct {
	suffix string
	reader func(io.Reader) (io.ReadCloser, error)
	writer func(io.Writer) (io.WriteCloser, error)
}

// codecs lists the compression suffixes accepted on input and output paths.
// bzip2 is read-only: the standard library ships only a decompressor.
var codecs = []codec{
	{
		suffix: ".gz",
		reader: func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
		writer: func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
	},
	{
		suffix: ".bz2",
		reader: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(bzip2.NewReader(r)), nil },
	},
	{
		suffix: ".xz",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
		writer: func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) },
	},
	{
		suffix: ".zst",
		reader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
		writer: func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) },
	},
}

// codecFor returns the codec named by the suffix of path, or nil for a
// plain file. Matching ignores case.
func codecFor(path string) *codec {
	lower := strings.ToLower(path)
	for i := range codecs {
		if strings.HasSuffix(lower, codecs[i].suffix) {
			return &codecs[i]
		}
	}
	return nil
}

// trimCodecSuffix strips a compression suffix so the data extension can be read.
func trimCodecSuffix(path string) string {
	if c := codecFor(path); c != nil {
		return path[:len(path)-len(c.suffix)]
	}
	return path
}

// canEncode reports whether SaveTable can produce path's compression.
func canEncode(path string) bool {
	c := codecFor(path)
	return c == nil || c.writer != nil
}

// decodedFile closes the decompressor before the file beneath it.
type decodedFile struct {
	io.Reader
	dec  io.Closer
	file *os.File
}

func (d *decodedFile) Close() error {
	return errors.Join(d.dec.Close(), d.file.Close())
}

// openDecoded opens path and decompresses it according to its suffix.
func openDecoded(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided input path
	if err != nil {
		return nil, err
	}

	c := codecFor(path)
	if c == nil {
		return f, nil
	}
	dec, err := c.reader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open %s stream: %w", strings.TrimPrefix(c.suffix, "."), err)
	}
	return &decodedFile{Reader: dec, dec: dec, file: f}, nil
}

// encodedFile flushes the compressor, then syncs and closes the file.
type encodedFile struct {
	io.Writer
	enc  io.Closer
	file *os.File
}

func (e *encodedFile) Close() error {
	var encErr error
	if e.enc != nil {
		encErr = e.enc.Close()
	}
	return errors.Join(encErr, e.file.Sync(), e.file.Close())
}

// createEncoded creates (or truncates) path and compresses writes according
// to its suffix. An unwritable compression fails before the file is touched.
func createEncoded(path string) (io.WriteCloser, error) {
	c := codecFor(path)
	if c != nil && c.writer == nil {
		return nil, fmt.Errorf("%w: %s compression is not supported for writing", ErrUnsupportedFormat, strings.TrimPrefix(c.suffix, "."))
	}

	f, err := os.Create(path) //nolint:gosec // user-provided output path
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &encodedFile{Writer: f, file: f}, nil
	}

	enc, err := c.writer(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &encodedFile{Writer: enc, enc: enc, file: f}, nil
}
