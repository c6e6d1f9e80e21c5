package app

import (
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/adamwoolhether/oszdl/internal/catalog"
	"github.com/adamwoolhether/oszdl/internal/config"
)

// Exit codes returned by [App.Run].
const (
	ExitOK       = 0
	ExitFailures = 1
	ExitFatal    = 2
)

// Progress renderers selectable with Options.Progress.
const (
	ProgressBar  = "bar"
	ProgressLog  = "log"
	ProgressNone = "none"
)

// Options is everything the command line can set.
type Options struct {
	Query       string
	Mode        *catalog.Mode
	Recommended bool

	// Select skips the interactive selection prompt when non-empty.
	Select string

	ConfigPath string
	EnvFile    string
	Dir        string

	Jobs           int
	Timeout        time.Duration
	ConnectTimeout time.Duration
	RPS            float64
	SkipExisting   bool
	RequireLength  bool

	Progress    string
	MetricsFile string
	Verbose     bool

	SearchURL string
	BaseURL   string
	Version   string
}

// Env is the process environment the app runs in.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Fs holds the settings file and the downloaded archives.
	// Defaults to the OS filesystem.
	Fs afero.Fs

	// LookupEnv defaults to the process environment.
	LookupEnv config.LookupFunc
}
