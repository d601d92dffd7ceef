package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/imcodec/imcodec/schema"
)

// LoadDescriptorFile loads a compiled JSON descriptor file, or every
// *.schema.json file under a directory, into the registry. Descriptor
// files are the serialized form of schema.File; no schema-language text is
// parsed here.
func (r *Registry) LoadDescriptorFile(path string) error {
	repo := &schema.Repo{
		Files: make(map[string]*schema.File),
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	if !info.IsDir() {
		file, err := readDescriptorFile(path)
		if err != nil {
			return err
		}
		repo.Files[path] = file
	} else {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, ".schema.json") {
				return nil
			}
			file, err := readDescriptorFile(p)
			if err != nil {
				return err
			}
			repo.Files[p] = file
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	return r.LoadRepo(repo)
}

// readDescriptorFile reads and unmarshals a single descriptor file
func readDescriptorFile(path string) (*schema.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file: %w", err)
	}

	var file schema.File
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor file %s: %w", path, err)
	}
	if file.Name == "" {
		file.Name = filepath.Base(path)
	}

	return &file, nil
}
