package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the default name of the notes file inside the home directory.
const FileName = ".notes.json"

// Load reads the collection stored at path.
// A missing or unparseable file yields an empty collection; the parse error
// is logged at debug level and otherwise discarded.
func Load(path string) *Collection {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("notes: read failed, starting empty", "path", path, "err", err)
		}
		return NewCollection()
	}

	var coll Collection
	if err := json.Unmarshal(data, &coll); err != nil {
		slog.Debug("notes: discarding unparseable file", "path", path, "err", err)
		return NewCollection()
	}
	coll.normalize()
	return &coll
}

// Save overwrites path with the serialized collection. The document is written
// to a temporary file next to the real target and renamed into place, so a
// symlinked notes file is updated through the link. An existing file keeps
// its permission bits.
func Save(path string, coll *Collection) error {
	data, err := json.Marshal(coll)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}

	target := saveTarget(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".notes-*.tmp")
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &PersistenceError{Path: path, Err: err}
	}

	if info, err := os.Stat(target); err == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return fail(err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

// saveTarget follows symlinks at path, including a dangling one whose target
// does not exist yet, so saving never replaces the link itself.
func saveTarget(path string) string {
	for range 40 {
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			return resolved
		}
		dest, err := os.Readlink(path)
		if err != nil {
			return path
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = dest
	}
	return path
}
