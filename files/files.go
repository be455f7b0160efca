package files

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// ErrAppNameAlreadySet is returned when SetAppName is called twice.
var ErrAppNameAlreadySet = errors.New("application name already set")

// ErrDataDirAlreadySet is returned when SetDataDir is called twice.
var ErrDataDirAlreadySet = errors.New("data directory already set")

const defaultAppName = "baad"

var (
	mu      sync.Mutex
	appName string
	dataDir string
	nameSet bool
	dirSet  bool
)

// SetAppName fixes the application name used to derive the per-user
// data directory. It may be called at most once, before the first
// DataDir lookup takes effect.
func SetAppName(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if nameSet {
		return ErrAppNameAlreadySet
	}
	appName = name
	nameSet = true
	return nil
}

// SetDataDir overrides the data directory entirely, bypassing the
// platform lookup. It may be called at most once.
func SetDataDir(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if dirSet {
		return ErrDataDirAlreadySet
	}
	dataDir = path
	dirSet = true
	return nil
}

// DataDir returns the application's per-user data directory: the
// explicit override when set, otherwise the platform config dir joined
// with the application name.
func DataDir() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if dirSet {
		return dataDir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving user config directory")
	}
	name := appName
	if !nameSet {
		name = defaultAppName
	}
	return filepath.Join(base, name), nil
}

// DataPath returns the path of filename inside the data directory.
func DataPath(filename string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// Load reads the file at path.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return data, nil
}

// Save writes content to path, creating parent directories as needed.
func Save(path string, content []byte) error {
	if err := CreateParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

// CreateParentDir ensures the parent directory of path exists.
func CreateParentDir(path string) error {
	parent := filepath.Dir(path)
	if parent == "" || parent == "." {
		return nil
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return errors.Wrapf(err, "creating parent directory of %s", path)
	}
	return nil
}

// OutputDir resolves and creates the output directory: path when given,
// otherwise "output" under the current working directory.
func OutputDir(path string) (string, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "resolving working directory")
		}
		path = filepath.Join(cwd, "output")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating output directory %s", path)
	}
	return path, nil
}

// IsDirEmpty reports whether the directory at path is missing or has no
// entries.
func IsDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s", path)
	}
	return false, nil
}

// ClearAll removes everything under dir and recreates it empty. A
// missing dir is not an error.
func ClearAll(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "clearing %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "recreating %s", dir)
	}
	return nil
}
