package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// File is one entry in an export archive.
type File struct {
	Name string
	Data []byte
}

// Archive writes the files into an in-memory zip.
func Archive(files []File) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, file := range files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", file.Name, err)
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", file.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}
