package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chandl/pkg/fourchan"
)

func TestManagerSaveAndExists(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if manager.Exists("111.jpg") {
		t.Error("expected Exists to return false for missing file")
	}

	testData := []byte("test image data")
	if err := manager.Save(bytes.NewReader(testData), "111.jpg"); err != nil {
		t.Fatalf("failed to save file: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "111.jpg")
	if manager.Path("111.jpg") != expectedPath {
		t.Errorf("unexpected candidate path: %s", manager.Path("111.jpg"))
	}

	content, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("file content does not match saved data")
	}

	if !manager.Exists("111.jpg") {
		t.Error("expected Exists to return true for saved file")
	}
}

func TestManagerCreatesDirectoryTree(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wg", "6872254")

	if _, err := NewManager(dir); err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

// failingReader errors partway through a read, simulating a dropped transfer.
type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestManagerSaveFailureLeavesNoPartialFile(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if err := manager.Save(&failingReader{}, "111.jpg"); err == nil {
		t.Fatal("expected save to fail")
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files after failed save, found %d", len(entries))
	}
}

func TestManagerUnwritableDirectoryIsReportedNotFatal(t *testing.T) {
	file := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// A regular file where the directory should be makes MkdirAll fail.
	manager, err := NewManager(filepath.Join(file, "wg", "123"))
	if err == nil {
		t.Fatal("expected directory creation error")
	}
	if manager == nil {
		t.Fatal("expected a usable manager despite the creation error")
	}

	// Saves then fail individually.
	if err := manager.Save(bytes.NewReader([]byte("data")), "111.jpg"); err == nil {
		t.Error("expected save into missing directory to fail")
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	ref := fourchan.ThreadRef{Board: "wg", ID: 6872254}

	got := Resolve(root, ref, false)
	want := filepath.Join(root, "wg", "6872254")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}

func TestResolveAliasDirectory(t *testing.T) {
	root := t.TempDir()
	ref := fourchan.ThreadRef{Board: "wg", ID: 6872254, Alias: "papes"}

	// Alias ignored while no directory by that name exists
	if got := Resolve(root, ref, false); got != filepath.Join(root, "wg", "6872254") {
		t.Errorf("expected numeric directory, got %s", got)
	}

	// Existing alias directory wins
	aliasDir := filepath.Join(root, "wg", "papes")
	if err := os.MkdirAll(aliasDir, 0755); err != nil {
		t.Fatal(err)
	}
	if got := Resolve(root, ref, false); got != aliasDir {
		t.Errorf("expected alias directory, got %s", got)
	}
}

func TestResolveUseNamesForcesAlias(t *testing.T) {
	root := t.TempDir()
	ref := fourchan.ThreadRef{Board: "wg", ID: 6872254, Alias: "papes"}

	got := Resolve(root, ref, true)
	if got != filepath.Join(root, "wg", "papes") {
		t.Errorf("expected alias directory with useNames, got %s", got)
	}

	// No alias in the URL: useNames has nothing to apply
	noAlias := fourchan.ThreadRef{Board: "wg", ID: 6872254}
	if got := Resolve(root, noAlias, true); got != filepath.Join(root, "wg", "6872254") {
		t.Errorf("expected numeric directory without alias, got %s", got)
	}
}
