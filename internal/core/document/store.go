package document

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads and parses the document stored at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Op: "read", Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &ReadError{Path: path, Op: "parse", Err: err}
	}
	return doc, nil
}

// Save writes header followed by the encoded document to path. Each header
// line is terminated by a newline and a blank line separates the header
// from the body. The file is written to a temporary sibling and renamed
// into place, so readers see either the old or the new content.
func Save(doc *Document, path string, header Header) error {
	body, err := doc.Encode()
	if err != nil {
		return &WriteError{Path: path, Op: "encode", Err: err}
	}
	var buf bytes.Buffer
	for _, line := range header {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if len(header) > 0 {
		buf.WriteByte('\n')
	}
	buf.Write(body)
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return &WriteError{Path: path, Op: "write", Err: errors.New("destination is a directory")}
		}
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &WriteError{Path: path, Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return &WriteError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Op: "rename", Err: err}
	}
	tmpName = ""
	return nil
}
