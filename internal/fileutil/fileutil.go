// Package fileutil reads and writes corpus documents, transparently handling
// xz compression and replacing output files atomically.
package fileutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/rnctag/internal/validation"
)

// IsCompressed reports whether path names an xz file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xz")
}

// ReadFile reads path, decompressing it when its name ends in .xz. The
// content type is checked against the name before decoding.
func ReadFile(path string) ([]byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := bufio.NewReader(f)
	peek, _ := head.Peek(512)
	if _, err := validation.ValidateFileType(bytes.NewReader(peek), path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var r io.Reader = head
	if IsCompressed(path) {
		xzr, err := xz.NewReader(head)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		r = xzr
	}
	data, err := io.ReadAll(io.LimitReader(r, validation.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > validation.MaxFileSize {
		return nil, fmt.Errorf("%s: larger than %d bytes", path, validation.MaxFileSize)
	}
	return data, nil
}

// ReadLines returns the lines of a text file.
func ReadLines(path string) ([]string, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

// WriteFile writes data to path through a temporary file in the same
// directory, compressing it when the name ends in .xz. Readers never see a
// partially written document.
func WriteFile(path string, data []byte) error {
	if err := validation.ValidatePath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp, path, data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func write(w io.Writer, path string, data []byte) error {
	if !IsCompressed(path) {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return nil
	}
	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if _, err := xzw.Write(data); err != nil {
		return fmt.Errorf("xz write: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("xz close: %w", err)
	}
	return nil
}

// ResolveOutput returns the file to write for input in. When out is an
// existing directory the input's base name is placed inside it.
func ResolveOutput(in, out string) (string, error) {
	if err := validation.ValidatePath(out); err != nil {
		return "", err
	}
	info, err := os.Stat(out)
	if err != nil || !info.IsDir() {
		return out, nil
	}
	base := filepath.Base(in)
	if err := validation.ValidateFilename(base); err != nil {
		return "", err
	}
	return filepath.Join(out, base), nil
}
