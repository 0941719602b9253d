package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const defaultPerm os.FileMode = 0o644

// File is a single JSON document on local disk that is always rewritten whole.
//
// All writes are atomic and durable (file sync + atomic rename + dir sync): an
// interrupted write leaves either the previous document or the new one.
type File struct {
	path string
}

func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	return &File{path: filepath.Clean(path)}, nil
}

func (f *File) Path() string {
	return f.path
}

// Exists reports whether the document is present. Errors other than
// "not exist" (permission, I/O) are returned as-is.
func (f *File) Exists() (bool, error) {
	if f == nil {
		return false, errors.New("nil File")
	}
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (f *File) Read() ([]byte, error) {
	if f == nil {
		return nil, errors.New("nil File")
	}
	return os.ReadFile(f.path)
}

// Write replaces the whole document. A symlinked path keeps its link; the
// file it points to is the one replaced.
func (f *File) Write(data []byte) error {
	if f == nil {
		return errors.New("nil File")
	}
	return replaceDocument(f.path, data)
}

// MarshalStable encodes v as two-space indented JSON with a trailing newline.
// Struct fields keep declaration order and HTML characters are not escaped.
func MarshalStable(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeStrict decodes exactly one JSON value from data into dst.
// Unknown object fields are ignored; trailing content is not.
func DecodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("invalid JSON: empty document")
		}
		return err
	}
	// Ensure no trailing junk.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON: trailing content")
	}
	return nil
}

// replaceDocument swaps in data next to the document's real location, so the
// rename stays on one filesystem and never replaces a symlink. The document's
// current mode carries over to the new file.
func replaceDocument(path string, data []byte) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		target = path
	}
	perm := defaultPerm
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(target)
	if err := ensureDirDurable(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	if err := fillAndClose(tmp, data, perm); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return syncDir(dir)
}

func fillAndClose(tmp *os.File, data []byte, perm os.FileMode) error {
	_, err := tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	return err
}

func ensureDirDurable(dir string, perm os.FileMode) error {
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return &os.PathError{Op: "mkdir", Path: dir, Err: errors.New("not a directory")}
		}
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return err
	}
	// A new directory entry is only durable once its parent is synced.
	if err := syncDir(dir); err != nil {
		return err
	}
	if parent := filepath.Dir(dir); parent != dir {
		return syncDir(parent)
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
