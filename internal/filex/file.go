package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrTooLarge is returned by ReadCapped when the file exceeds the limit.
var ErrTooLarge = errors.New("file too large")

func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadCapped reads the whole file, refusing files larger than maxBytes.
// The size is checked up front so an oversized file is rejected without
// reading it into memory first.
func ReadCapped(path string, maxBytes int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.Size() > maxBytes {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d: %w", path, fi.Size(), maxBytes, ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
