package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/andybalholm/brotli"
)

type brotliFile struct {
	*brotli.Writer
	f *os.File
}

func (b brotliFile) Close() error {
	werr := b.Writer.Close()
	ferr := b.f.Close()
	if werr != nil {
		return werr
	}
	return ferr
}

// CreateFile creates path for writing. Paths ending in ".br" are brotli
// compressed transparently; Close flushes the stream and the file.
func CreateFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create %s: %w", path, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".br") {
		return f, nil
	}
	return brotliFile{Writer: brotli.NewWriterLevel(f, brotli.DefaultCompression), f: f}, nil
}

// WriteFile creates path with CreateFile and hands the writer to fn.
func WriteFile(path string, fn func(io.Writer) error) error {
	w, err := CreateFile(path)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// SafeBaseName names per-student output files. The student id is used when
// present, else the source file name without its extensions. The result is a
// single path element: separators, spaces and control characters become '_'
// and a name of only dots falls back to "student".
func SafeBaseName(studentID, source string) string {
	name := strings.TrimSpace(studentID)
	if name == "" {
		name = filepath.Base(source)
		for ext := filepath.Ext(name); ext != "" && ext != name; ext = filepath.Ext(name) {
			name = strings.TrimSuffix(name, ext)
		}
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	if strings.Trim(name, ".") == "" {
		return "student"
	}
	return name
}
