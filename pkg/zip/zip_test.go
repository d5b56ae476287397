package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	payload, err := Archive([]File{
		{Name: "roadmap.md", Data: []byte("# Learn Go\n")},
		{Name: "01-foundations.md", Data: []byte("# Foundations\n")},
	})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("entries: got %d, want 2", len(reader.File))
	}

	rc, err := reader.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(data) != "# Learn Go\n" {
		t.Fatalf("entry content: %q", data)
	}
}

func TestArchiveEmpty(t *testing.T) {
	payload, err := Archive(nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload))); err != nil {
		t.Fatalf("open empty archive: %v", err)
	}
}
