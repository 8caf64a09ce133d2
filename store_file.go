// File: themekit/store_file.go
package themekit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileStore keeps raw setting values in a flat document on disk, the
// site-configuration analog of a theme modification store. The in-memory map
// is authoritative between Save calls; Save writes atomically via a temp file
// and rename.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	format string
	values map[string]any
}

// NewFileStore opens a file-backed store. A missing file yields an empty
// store; parse failures are returned. The format is detected from the file
// extension, falling back to content detection, and is reused for Save.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		format: detectFileFormat(path),
		values: make(map[string]any),
	}
	if err := fs.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return fs, nil
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// Read returns the stored value for key, or Undefined.
func (fs *FileStore) Read(key string) Value {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if v, ok := fs.values[key]; ok {
		return Some(v)
	}
	return Undefined
}

// Write stores value under key in memory. Call Save to persist.
func (fs *FileStore) Write(key string, value any) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values[key] = value
	return true
}

// Delete removes key from the store, reporting false if it was not stored.
func (fs *FileStore) Delete(key string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.values[key]; !ok {
		return false
	}
	delete(fs.values, key)
	return true
}

// Keys returns all stored keys, sorted.
func (fs *FileStore) Keys() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	keys := make([]string, 0, len(fs.values))
	for k := range fs.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reload replaces the in-memory values with the file contents. A missing file
// is reported as os.ErrNotExist.
func (fs *FileStore) Reload() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return err
	}

	format := fs.format
	if format == "" {
		format = detectFormatFromContent(data)
		if format == "" {
			return fmt.Errorf("unable to determine format of store file '%s'", fs.path)
		}
	}

	values := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse TOML store file '%s': %w", fs.path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&values); err != nil {
			return fmt.Errorf("failed to parse JSON store file '%s': %w", fs.path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse YAML store file '%s': %w", fs.path, err)
		}
	default:
		return fmt.Errorf("unsupported store format %q for file '%s'", format, fs.path)
	}

	fs.mu.Lock()
	fs.values = values
	if fs.format == "" {
		fs.format = format
	}
	fs.mu.Unlock()
	return nil
}

// Save writes the current values to the backing file atomically.
func (fs *FileStore) Save() error {
	fs.mu.RLock()
	values := make(map[string]any, len(fs.values))
	for k, v := range fs.values {
		values[k] = v
	}
	format := fs.format
	fs.mu.RUnlock()

	if format == "" {
		format = "toml"
	}

	var data []byte
	var err error
	switch format {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(values); err != nil {
			return fmt.Errorf("failed to marshal store data to TOML: %w", err)
		}
		data = buf.Bytes()
	case "json":
		if data, err = json.MarshalIndent(values, "", "  "); err != nil {
			return fmt.Errorf("failed to marshal store data to JSON: %w", err)
		}
	case "yaml":
		if data, err = yaml.Marshal(values); err != nil {
			return fmt.Errorf("failed to marshal store data to YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported store format %q", format)
	}

	return atomicWriteFile(fs.path, data)
}

// atomicWriteFile writes data via a temp file in the target directory and an
// atomic rename.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // no-op after successful rename

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// detectFileFormat determines format from the file extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing. JSON is
// checked first because YAML is a superset of it.
func detectFormatFromContent(data []byte) string {
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}
	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}
	return ""
}
