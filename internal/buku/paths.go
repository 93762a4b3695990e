package buku

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultPath locates bookmarks.db the same way Buku resolves its default
// database directory.
func DefaultPath() (string, error) {
	return discoverPath(runtime.GOOS, os.Getenv, os.Getwd)
}

func discoverPath(goos string, getenv func(string) string, getwd func() (string, error)) (string, error) {
	dir := ""
	if goos == "windows" {
		dir = getenv("APPDATA")
	} else {
		switch {
		case getenv("XDG_DATA_HOME") != "":
			dir = getenv("XDG_DATA_HOME")
		case getenv("HOME") != "":
			dir = filepath.Join(getenv("HOME"), ".local", "share")
		default:
			if wd, err := getwd(); err == nil {
				dir = wd
			}
		}
	}
	if dir == "" {
		return "", fmt.Errorf("%w: no data directory", ErrLocateDatabase)
	}

	path := filepath.Join(dir, "buku", "bookmarks.db")
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLocateDatabase, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a file", ErrLocateDatabase, path)
	}
	return path, nil
}

// Init resolves and opens the bookmark database. An empty path triggers
// discovery. Failures match ErrLocateDatabase or ErrAccessDatabase.
func Init(ctx context.Context, path string) (Database, string, error) {
	if path == "" {
		found, err := DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = found
	} else if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return nil, path, fmt.Errorf("%w: %s", ErrLocateDatabase, path)
	}

	db, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, path, fmt.Errorf("%w: %v", ErrAccessDatabase, err)
	}
	return db, path, nil
}
