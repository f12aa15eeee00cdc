package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fsys := OSFileSystem{}

	if !fsys.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fsys.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_MkdirAllAndRemove(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	info, err := fsys.Stat(dir)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	file := filepath.Join(dir, "put_mirror.dat")
	if err := os.WriteFile(file, []byte("partial"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := fsys.Remove(file); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if fsys.Exists(file) {
		t.Error("expected file to be removed")
	}
}

func TestMemoryFileSystem_TouchAndStat(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.Touch("/data/put.dat", 128)

	info, err := mfs.Stat("/data/put.dat")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 128 {
		t.Errorf("expected size 128, got %d", info.Size())
	}
	if info.Name() != "put.dat" {
		t.Errorf("expected name put.dat, got %q", info.Name())
	}
	if !mfs.Exists("/data") {
		t.Error("expected parent directory to exist")
	}

	_, err = mfs.Stat("/data/missing.dat")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_Remove(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.Touch("out/put_mirror.dat", 1)

	if err := mfs.Remove("out"); !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected non-empty directory error, got %v", err)
	}
	if err := mfs.Remove("out/put_mirror.dat"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := mfs.Remove("out"); err != nil {
		t.Fatalf("Remove dir failed: %v", err)
	}
	if err := mfs.Remove("out"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if len(mfs.Removed) != 2 || mfs.Removed[0] != "out/put_mirror.dat" {
		t.Errorf("unexpected removal log %v", mfs.Removed)
	}
}

func TestMemoryFileSystem_MkdirAll(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, d := range []string{"/a", "/a/b", "/a/b/c"} {
		info, err := mfs.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("expected %s to be a directory (err %v)", d, err)
		}
	}

	mfs.Touch("/a/file", 0)
	if err := mfs.MkdirAll("/a/file", 0755); !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected ErrExist when a file is in the way, got %v", err)
	}
}

func TestFileSystemInterface(t *testing.T) {
	var _ FileSystem = OSFileSystem{}
	var _ FileSystem = NewMemoryFileSystem()
}
