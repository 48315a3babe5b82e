// Package ioutils opens and creates files that may be gzip or zstd
// compressed.
package ioutils

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// Gzip and zstd input is recognised by extension (.gz, .zst) or magic bytes
// and decompressed transparently.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return wrapReader(bufio.NewReader(os.Stdin), func() error { return nil })
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := wrapReader(bufio.NewReader(f), f.Close)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return rc, nil
}

func wrapReader(br *bufio.Reader, closeFn func() error) (io.ReadCloser, error) {
	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeFn() }}, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { zr.Close(); return closeFn() }}, nil
	}
	return readCloser{Reader: br, closeFn: closeFn}, nil
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a writer. Paths ending in .gz or .zst are compressed accordingly.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".gz":
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	case ".zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	bw := bufio.NewWriter(f)
	return writeCloser{Writer: bw, closeFn: func() error {
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}}, nil
}

// SplitExt splits path into its stem and extension, treating a trailing
// compression suffix as part of the extension: "a/b.csv.gz" -> "a/b", ".csv.gz".
func SplitExt(path string) (stem, ext string) {
	comp := ""
	if e := filepath.Ext(path); e == ".gz" || e == ".zst" {
		comp = e
		path = strings.TrimSuffix(path, e)
	}
	e := filepath.Ext(path)
	return strings.TrimSuffix(path, e), e + comp
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if w.closeFn != nil {
		return w.closeFn()
	}
	return errors.New("no closeFn")
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error {
	if bw, ok := n.Writer.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}
