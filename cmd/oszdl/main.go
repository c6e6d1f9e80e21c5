package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/adamwoolhether/oszdl/internal/app"
	"github.com/adamwoolhether/oszdl/internal/catalog"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

type args struct {
	Query       string        `arg:"positional" help:"search query, leave empty to browse the newest beatmapsets"`
	Mode        *catalog.Mode `arg:"-m,--mode" help:"game mode: 0/std, 1/taiko, 2/catch, 3/mania"`
	Recommended bool          `arg:"-r,--recommended" help:"only show beatmapsets at your recommended difficulty"`
	Select      string        `arg:"-s,--select" help:"pick results without prompting, e.g. \"1 3-5 11\""`

	Output  string `arg:"-o,--output" help:"download directory, overrides the settings file for this run"`
	Config  string `arg:"--config" help:"settings file [default: user config dir]/oszdl/config.yml"`
	EnvFile string `arg:"--env-file" default:".env" help:"dotenv file with OSZDL_COOKIE and OSZDL_DOWNLOAD_DIRECTORY"`

	Jobs           int           `arg:"-j,--jobs" default:"1" help:"archives downloaded at the same time"`
	Timeout        time.Duration `arg:"--timeout" default:"10m" help:"per archive timeout, 0 disables it"`
	ConnectTimeout time.Duration `arg:"--connect-timeout" default:"30s" help:"limit on dialing and waiting for response headers, 0 disables it"`
	RPS            float64       `arg:"--rps" default:"2" help:"requests per second sent to the catalog, 0 disables throttling"`
	SkipExisting   bool          `arg:"--skip-existing" help:"don't download archives that are already on disk"`
	RequireLength  bool          `arg:"--require-length" help:"fail archives whose response has no Content-Length"`

	Progress    string `arg:"--progress" default:"bar" help:"progress output: bar, log or none"`
	MetricsFile string `arg:"--metrics-file" help:"write prometheus metrics for the run to this file"`
	Verbose     bool   `arg:"-v,--verbose" help:"debug logging"`

	SearchURL string `arg:"--search-url" help:"alternative search endpoint"`
	BaseURL   string `arg:"--base-url" help:"alternative beatmapsets endpoint for downloads"`
}

func (args) Version() string {
	return "oszdl " + version
}

func (args) Description() string {
	return "Search the osu! beatmap catalog, pick results and download them as .osz archives."
}

func main() {
	var a args
	arg.MustParse(&a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := app.New(a.options(), app.Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}).Run(ctx)

	stop()
	os.Exit(code)
}

func (a args) options() app.Options {
	return app.Options{
		Query:          a.Query,
		Mode:           a.Mode,
		Recommended:    a.Recommended,
		Select:         a.Select,
		ConfigPath:     a.Config,
		EnvFile:        a.EnvFile,
		Dir:            a.Output,
		Jobs:           a.Jobs,
		Timeout:        a.Timeout,
		ConnectTimeout: a.ConnectTimeout,
		RPS:            a.RPS,
		SkipExisting:   a.SkipExisting,
		RequireLength:  a.RequireLength,
		Progress:       a.Progress,
		MetricsFile:    a.MetricsFile,
		Verbose:        a.Verbose,
		SearchURL:      a.SearchURL,
		BaseURL:        a.BaseURL,
		Version:        version,
	}
}
