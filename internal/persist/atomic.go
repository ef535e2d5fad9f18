package persist

import (
	"os"
	"path/filepath"
)

// atomicWriteFile writes data to path via a temp file in the same
// directory followed by a rename, so readers never observe a partial
// write. When durable is set, the temp file and its containing directory
// are fsynced before the rename, and the directory again after it.
func atomicWriteFile(path string, data []byte, durable bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &AtomicWriteFailed{Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &AtomicWriteFailed{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &AtomicWriteFailed{Path: path, Err: err}
	}
	if durable {
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			return &AtomicWriteFailed{Path: path, Err: err}
		}
	}
	if err := tmp.Close(); err != nil {
		return &AtomicWriteFailed{Path: path, Err: err}
	}
	if durable {
		if dirHandle, err := os.Open(dir); err == nil {
			dirHandle.Sync()
			dirHandle.Close()
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &AtomicWriteFailed{Path: path, Err: err}
	}
	if durable {
		if dirHandle, err := os.Open(dir); err == nil {
			dirHandle.Sync()
			dirHandle.Close()
		}
	}
	return nil
}
