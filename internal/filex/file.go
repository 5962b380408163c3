// Package filex holds small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold the file at path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return nil
}

// SQLiteFilePath extracts the on-disk path from a SQLite DSN such as
// "kv.db" or "file:data/kv.db?_pragma=foreign_keys(1)". It returns "" for
// in-memory databases.
func SQLiteFilePath(dsn string) string {
	if dsn == "" || dsn == ":memory:" {
		return ""
	}

	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return ""
	}

	return path
}
