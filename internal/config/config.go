// Package config resolves the settings oszdl needs before it can talk to
// the catalog: the session cookie and the download directory.
//
// Values come from, in increasing precedence, the YAML settings file, a
// .env file, the process environment and finally interactive prompts for
// whatever is still missing. Prompted answers are written back to the
// settings file so the next run does not ask again.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	appDir   = "oszdl"
	fileName = "config.yml"
)

// ErrConfigMissing is returned when required settings are still empty
// after every source has been consulted.
var ErrConfigMissing = errors.New("required settings missing")

// Settings is the resolved configuration. Filters are default catalog
// search filters, merged under any given on the command line.
type Settings struct {
	Cookie            string            `yaml:"cookie" validate:"required"`
	DownloadDirectory string            `yaml:"download_directory" validate:"required"`
	Filters           map[string]string `yaml:"filters,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// DefaultPath returns the settings file location under the user's config
// directory, e.g. ~/.config/oszdl/config.yml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}

	return filepath.Join(dir, appDir, fileName), nil
}

// Store reads and writes the settings file.
type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing file is not an error and yields
// zero Settings.
func (s *Store) Load() (Settings, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("reading settings %s: %w", s.path, err)
	}

	var st Settings
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %s: %w", s.path, err)
	}

	return st, nil
}

// Save writes st, creating the parent directory if needed. The file holds
// a session cookie so it is only readable by the owner.
func (s *Store) Save(st Settings) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}

	return nil
}
