// Package definition loads form definitions from JSON or YAML documents.
package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfield/pkg/model"
)

// Load parses a single definition. JSON is tried first, then YAML. The
// returned definition has been checked with model.Validate.
func Load(data []byte, source string) (model.FormModel, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormModel{}, fmt.Errorf("definition: %s is empty", source)
	}

	var def model.FormModel
	if err := json.Unmarshal(data, &def); err != nil {
		def = model.FormModel{}
		if yerr := yaml.Unmarshal(data, &def); yerr != nil {
			return model.FormModel{}, fmt.Errorf("definition: parse %s: %w", source, yerr)
		}
	}
	if err := model.Validate(def); err != nil {
		return model.FormModel{}, fmt.Errorf("definition: %s: %w", source, err)
	}
	return def, nil
}

// LoadFile reads and parses the definition stored at path.
func LoadFile(path string) (model.FormModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Load(data, path)
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file, keyed by
// form id. Two files declaring the same id is an error.
func LoadFS(fsys fs.FS) (map[string]model.FormModel, error) {
	out := make(map[string]model.FormModel)
	if fsys == nil {
		return out, nil
	}

	sources := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		def, err := Load(data, path)
		if err != nil {
			return err
		}
		if prev, exists := sources[def.ID]; exists {
			return fmt.Errorf("definition: duplicate form %q (%s and %s)", def.ID, prev, path)
		}
		sources[def.ID] = path
		out[def.ID] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
