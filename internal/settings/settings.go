// Package settings loads the run configuration from settings.yml.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "settings.yml"

// Defaults relative to the data folder.
const (
	DefaultListsFile   = "lists.yml"
	DefaultItemsFolder = "items"
)

// ErrNoDataFolder is returned when neither the file nor an override names
// the data folder.
var ErrNoDataFolder = errors.New("settings: 'Data Folder' is required")

// Settings configures one validation run.
type Settings struct {
	DataFolder        string `yaml:"Data Folder"`
	ListsFile         string `yaml:"Lists File,omitempty"`
	ItemsFolder       string `yaml:"Items Folder,omitempty"`
	OnlyOutputInvalid bool   `yaml:"Only Output Invalid,omitempty"`
	StrictKeys        bool   `yaml:"Strict Keys,omitempty"`
	Jobs              int    `yaml:"Jobs,omitempty"`
}

// Load reads path. A missing file is not an error when optional is true; the
// zero Settings is returned so flags can still supply everything.
func Load(path string, optional bool) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read the settings file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse the settings file %s as YAML: %w", path, err)
	}
	return s, nil
}

// Resolve fills defaults and checks the result. Relative lists and items
// paths are taken relative to the data folder.
func (s Settings) Resolve() (Settings, error) {
	if s.DataFolder == "" {
		return s, ErrNoDataFolder
	}
	if s.ListsFile == "" {
		s.ListsFile = DefaultListsFile
	}
	if s.ItemsFolder == "" {
		s.ItemsFolder = DefaultItemsFolder
	}
	if !filepath.IsAbs(s.ListsFile) {
		s.ListsFile = filepath.Join(s.DataFolder, s.ListsFile)
	}
	if !filepath.IsAbs(s.ItemsFolder) {
		s.ItemsFolder = filepath.Join(s.DataFolder, s.ItemsFolder)
	}
	if s.Jobs < 0 {
		return s, fmt.Errorf("settings: Jobs must not be negative, got %d", s.Jobs)
	}
	return s, nil
}
