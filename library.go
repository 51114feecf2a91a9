package gofwmod

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Library provides module types from a local directory with one
// subdirectory per type:
//
//	{root}/{type_dir}/module.json
//	{root}/{type_dir}/module.yaml
//
// A descriptor without an "_id" takes the name of its directory.
//
// Open with a native path or a file:// URL:
//
//	lib, err := OpenLibrary("/path/to/lib")
//	lib, err := OpenLibrary("file:///C:/path/to/lib")
type Library struct {
	rootPath string
	cfg      *config
	cache    sync.Map // map[string]*ModuleType keyed by directory name
}

// OpenLibrary opens a library directory. The path may be a file:// URL.
func OpenLibrary(pathOrURL string, opts ...Option) (*Library, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	root := pathOrURL
	if isFileURL(pathOrURL) {
		root, err = parseFileURL(pathOrURL)
		if err != nil {
			return nil, err
		}
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("library path does not exist: %s", root)
		}
		return nil, fmt.Errorf("cannot access library path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library path is not a directory: %s", root)
	}
	return &Library{rootPath: filepath.Clean(root), cfg: cfg}, nil
}

// LoadModuleTypesFromLib opens libPath and loads every module type in it.
func LoadModuleTypesFromLib(ctx context.Context, libPath string, opts ...Option) ([]ModuleType, error) {
	lib, err := OpenLibrary(libPath, opts...)
	if err != nil {
		return nil, err
	}
	return lib.ModuleTypes(ctx)
}

// Root returns the library's native root path.
func (l *Library) Root() string {
	return l.rootPath
}

// URL returns the file:// URL for this library.
// The URL uses forward slashes regardless of OS, per RFC 8089.
func (l *Library) URL() string {
	urlPath := filepath.ToSlash(l.rootPath)
	if runtime.GOOS == "windows" && len(urlPath) >= 2 && isWindowsDriveLetter(urlPath[0]) && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	return "file://" + urlPath
}

// ModuleTypes loads the module type of every subdirectory that contains a
// descriptor, in directory-name order. Plain files and subdirectories
// without a descriptor are skipped.
func (l *Library) ModuleTypes(ctx context.Context) ([]ModuleType, error) {
	entries, err := os.ReadDir(l.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read library %s: %w", l.rootPath, err)
	}

	logger := l.cfg.log()
	var types []ModuleType
	for _, entry := range entries {
		// Stat follows symlinks so linked module directories are included.
		info, err := os.Stat(filepath.Join(l.rootPath, entry.Name()))
		if err != nil || !info.IsDir() {
			continue
		}
		if _, ok := l.descriptorPath(entry.Name()); !ok {
			logger.Debug("skipping library directory without descriptor", "dir", entry.Name())
			continue
		}
		t, err := l.ModuleType(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		types = append(types, *t)
	}
	logger.Info("loaded module types from library", "path", l.rootPath, "count", len(types))
	return types, nil
}

// ModuleType loads the module type described in the given subdirectory.
// Results are cached per directory; callers must not modify the returned value.
func (l *Library) ModuleType(ctx context.Context, dirName string) (*ModuleType, error) {
	if cached, ok := l.cache.Load(dirName); ok {
		return cached.(*ModuleType), nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	descPath, ok := l.descriptorPath(dirName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDescriptorNotFound, pathToFileURL(filepath.Join(l.rootPath, dirName)))
	}
	l.cfg.log().Info("parsing firmware module type", "dir", dirName, "file", filepath.Base(descPath))

	t, err := LoadModuleTypeFile(descPath)
	if err != nil {
		return nil, err
	}
	l.cache.Store(dirName, &t)
	return &t, nil
}

func (l *Library) descriptorPath(dirName string) (string, bool) {
	for _, name := range l.cfg.descriptorNames {
		p := filepath.Join(l.rootPath, dirName, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

// LoadModuleTypeFile reads a single module type descriptor. When the
// descriptor has no "_id", the name of its parent directory is used.
func LoadModuleTypeFile(descPath string) (ModuleType, error) {
	data, err := os.ReadFile(descPath)
	if err != nil {
		return ModuleType{}, fmt.Errorf("read module descriptor %s: %w", descPath, err)
	}
	var t ModuleType
	if err := decodeDescriptor(descPath, data, &t); err != nil {
		return ModuleType{}, fmt.Errorf("parse module descriptor %s: %w", descPath, err)
	}
	if t.ID == "" {
		t.ID = filepath.Base(filepath.Dir(descPath))
	}
	return t, nil
}

// decodeDescriptor decodes YAML for .yaml/.yml files and JSON otherwise.
func decodeDescriptor(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// isFileURL checks if a URL is a file:// URL.
func isFileURL(url string) bool {
	return strings.HasPrefix(url, "file://")
}

// parseFileURL extracts the path from a file:// URL.
// Handles both Unix (file:///path) and Windows (file:///C:/path) formats.
func parseFileURL(url string) (string, error) {
	if !isFileURL(url) {
		return "", fmt.Errorf("not a file:// URL: %s", url)
	}
	path := strings.TrimPrefix(url, "file://")

	// file:///C:/path -> C:/path
	if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
		path = path[1:]
	}
	return filepath.Clean(path), nil
}

// isWindowsDriveLetter returns true if c is a valid Windows drive letter (A-Z, a-z).
func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// pathToFileURL converts a native file path to a file:// URL.
func pathToFileURL(path string) string {
	urlPath := filepath.ToSlash(path)
	if len(urlPath) >= 2 && isWindowsDriveLetter(urlPath[0]) && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	return "file://" + urlPath
}
