package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

const (
	EnvCookie            = "OSZDL_COOKIE"
	EnvDownloadDirectory = "OSZDL_DOWNLOAD_DIRECTORY"
)

// LookupFunc has the signature of [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// ReadDotEnv parses the .env file at path. A missing file yields no values.
func ReadDotEnv(fsys afero.Fs, path string) (map[string]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return values, nil
}

// Lookup consults env first and falls back to the values read from a .env
// file. A nil env means the process environment.
func Lookup(env LookupFunc, dotenv map[string]string) LookupFunc {
	if env == nil {
		env = os.LookupEnv
	}

	return func(key string) (string, bool) {
		if v, ok := env(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// ApplyEnv overrides st with any non-blank environment values.
func ApplyEnv(st Settings, lookup LookupFunc) Settings {
	if lookup == nil {
		return st
	}

	if v, ok := lookup(EnvCookie); ok && strings.TrimSpace(v) != "" {
		st.Cookie = v
	}

	if v, ok := lookup(EnvDownloadDirectory); ok && strings.TrimSpace(v) != "" {
		st.DownloadDirectory = v
	}

	return st
}
