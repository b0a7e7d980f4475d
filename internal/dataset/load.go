package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader turns the bytes of one file into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(data []byte, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader by filename and reads the whole file.
// Unknown extensions fall back to delimited text.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	t, err := LoadBytes(path, data, opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// LoadBytes is LoadFile for data already in memory; filename picks the loader.
func LoadBytes(filename string, data []byte, opt LoadOptions) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(filename) {
			return l.Load(data, opt)
		}
	}
	return delimitedLoader{}.Load(data, opt)
}

type delimitedLoader struct{}

func (delimitedLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (delimitedLoader) Load(data []byte, opt LoadOptions) (*Table, error) {
	return LoadCSV(bytes.NewReader(data), opt)
}

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(data []byte, opt LoadOptions) (*Table, error) {
	return LoadXLSX(data, opt)
}

func init() {
	Register(delimitedLoader{})
	Register(xlsxLoader{})
}
