package persist

import "fmt"

// PathEscape is returned when a session-relative path resolves (lexically
// or via a symlink) outside the session root.
type PathEscape struct {
	Path string
}

func (e *PathEscape) Error() string {
	return fmt.Sprintf("path escapes session root: %s", e.Path)
}

// UnsafeSymlink is returned when a path component in the resolved chain is
// a symlink pointing outside the session root.
type UnsafeSymlink struct {
	Path string
}

func (e *UnsafeSymlink) Error() string {
	return fmt.Sprintf("unsafe symlink in path: %s", e.Path)
}

// AtomicWriteFailed wraps a failure during the temp-write+rename sequence.
type AtomicWriteFailed struct {
	Path string
	Err  error
}

func (e *AtomicWriteFailed) Error() string {
	return fmt.Sprintf("atomic write failed for %s: %v", e.Path, e.Err)
}

func (e *AtomicWriteFailed) Unwrap() error { return e.Err }

// Parse wraps a JSON or Mermaid-text decode failure during load.
type Parse struct {
	Path string
	Err  error
}

func (e *Parse) Error() string {
	return fmt.Sprintf("parse failed for %s: %v", e.Path, e.Err)
}

func (e *Parse) Unwrap() error { return e.Err }

// MissingFile is returned when a path referenced by session metadata does
// not exist on disk.
type MissingFile struct {
	Path string
}

func (e *MissingFile) Error() string {
	return fmt.Sprintf("missing file: %s", e.Path)
}

// SchemaInvalid is returned when a session's persisted schema_version is
// not compatible with this build's CurrentSchemaVersion.
type SchemaInvalid struct {
	Found, Want string
}

func (e *SchemaInvalid) Error() string {
	return fmt.Sprintf("incompatible schema version %q, this build supports %q", e.Found, e.Want)
}
