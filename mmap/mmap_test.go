package mmap

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestMapFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	data := []byte("MapFile test data content")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	m, err := MapFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if !bytes.Equal(m.Data(), data) {
		t.Errorf("data mismatch: got %q, want %q", m.Data(), data)
	}

	if m.Len() != int64(len(data)) {
		t.Errorf("length mismatch: got %d, want %d", m.Len(), len(data))
	}
}

func TestMapFileNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := MapFile(filepath.Join(dir, "missing.dat"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMapFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.dat")

	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	// An empty file yields a valid zero-length Map without an OS mapping.
	m, err := MapFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if m.Len() != 0 {
		t.Errorf("length: got %d, want 0", m.Len())
	}
	if m.Data() != nil {
		t.Error("empty map should have nil data")
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	if err := os.WriteFile(path, []byte("close test"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := MapFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	if m.Data() != nil {
		t.Error("data should be nil after close")
	}
	if m.Len() != 0 {
		t.Errorf("length after close: got %d, want 0", m.Len())
	}

	// Double close should be safe
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAdvise(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := MapFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	// These may be no-ops on some platforms but shouldn't error
	if err := m.AdviseSequential(); err != nil {
		t.Errorf("AdviseSequential failed: %v", err)
	}
	if err := m.AdviseRandom(); err != nil {
		t.Errorf("AdviseRandom failed: %v", err)
	}
	if err := m.AdviseWillNeed(); err != nil {
		t.Errorf("AdviseWillNeed failed: %v", err)
	}
}

func TestAdviseEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.dat")

	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	m, err := MapFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	// No pages to advise; must not error
	if err := m.AdviseRandom(); err != nil {
		t.Errorf("AdviseRandom on empty map failed: %v", err)
	}
}
