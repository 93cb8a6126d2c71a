package store

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

const fileExt = ".json"

// FileMedium stores each key as <dir>/<key>.json on an afero filesystem.
// Writes go to a temp file first and are renamed into place.
type FileMedium struct {
	fs  afero.Fs
	dir string
}

// NewFileMedium creates dir on fs if needed
func NewFileMedium(fs afero.Fs, dir string) (*FileMedium, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileMedium{fs: fs, dir: dir}, nil
}

func (f *FileMedium) pathFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path.Join(f.dir, key+fileExt), nil
}

func (f *FileMedium) Get(key string) ([]byte, bool, error) {
	p, err := f.pathFor(key)
	if err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(f.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileMedium) Set(key string, value []byte) error {
	p, err := f.pathFor(key)
	if err != nil {
		return err
	}

	tmp := p + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, value, 0600); err != nil {
		return err
	}
	if err := f.fs.Rename(tmp, p); err != nil {
		f.fs.Remove(tmp) // Ignore errors
		return err
	}
	return nil
}

func (f *FileMedium) Delete(key string) error {
	p, err := f.pathFor(key)
	if err != nil {
		return err
	}
	if err := f.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileMedium) Keys() ([]string, error) {
	infos, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}

func (f *FileMedium) Close() error { return nil }
