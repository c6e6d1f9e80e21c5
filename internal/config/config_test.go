package config

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const settingsPath = "/home/player/.config/oszdl/config.yml"

func noEnv(string) (string, bool) { return "", false }

func envOf(values map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}

func TestStore_LoadMissing(t *testing.T) {
	st, err := NewStore(afero.NewMemMapFs(), settingsPath).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(Settings{}, st); diff != "" {
		t.Errorf("expected zero settings (-want +got):\n%s", diff)
	}
}

func TestStore_SaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, settingsPath)

	want := Settings{
		Cookie:            "osu_session=abc",
		DownloadDirectory: "/songs",
		Filters:           map[string]string{"m": "3", "s": "ranked"},
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fi, err := fs.Stat(settingsPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("settings file mode = %o, want 600", perm)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_LoadFileFormat(t *testing.T) {
	fs := afero.NewMemMapFs()

	raw := "cookie: osu_session=abc\ndownload_directory: /songs\nfilters:\n  m: \"1\"\n"
	if err := afero.WriteFile(fs, settingsPath, []byte(raw), 0o600); err != nil {
		t.Fatalf("seeding settings: %v", err)
	}

	got, err := NewStore(fs, settingsPath).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Settings{Cookie: "osu_session=abc", DownloadDirectory: "/songs", Filters: map[string]string{"m": "1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_LoadMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, settingsPath, []byte("cookie: [unterminated"), 0o600); err != nil {
		t.Fatalf("seeding settings: %v", err)
	}

	if _, err := NewStore(fs, settingsPath).Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestReadDotEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "# local overrides\nOSZDL_COOKIE=\"osu_session=fromfile\"\nexport OSZDL_DOWNLOAD_DIRECTORY=/mnt/songs\n"
	if err := afero.WriteFile(fs, ".env", []byte(content), 0o600); err != nil {
		t.Fatalf("seeding .env: %v", err)
	}

	got, err := ReadDotEnv(fs, ".env")
	if err != nil {
		t.Fatalf("ReadDotEnv: %v", err)
	}

	want := map[string]string{EnvCookie: "osu_session=fromfile", EnvDownloadDirectory: "/mnt/songs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dotenv mismatch (-want +got):\n%s", diff)
	}

	missing, err := ReadDotEnv(fs, "nope.env")
	if err != nil || len(missing) != 0 {
		t.Errorf("missing file should yield no values, got %v, %v", missing, err)
	}
}

func TestLookup_ProcessEnvWins(t *testing.T) {
	t.Setenv(EnvDownloadDirectory, "/from/process")

	lookup := Lookup(nil, map[string]string{
		EnvDownloadDirectory: "/from/dotenv",
		"OSZDL_TEST_ONLY_IN_DOTENV": "dotenv",
	})

	if v, _ := lookup(EnvDownloadDirectory); v != "/from/process" {
		t.Errorf("process env should win, got %q", v)
	}
	if v, ok := lookup("OSZDL_TEST_ONLY_IN_DOTENV"); !ok || v != "dotenv" {
		t.Errorf("expected dotenv fallback, got %q, %v", v, ok)
	}
}

func TestLookup_InjectedEnv(t *testing.T) {
	lookup := Lookup(envOf(map[string]string{EnvCookie: "injected"}), map[string]string{
		EnvCookie:            "dotenv",
		EnvDownloadDirectory: "/from/dotenv",
	})

	if v, _ := lookup(EnvCookie); v != "injected" {
		t.Errorf("injected env should win, got %q", v)
	}
	if v, _ := lookup(EnvDownloadDirectory); v != "/from/dotenv" {
		t.Errorf("expected dotenv fallback, got %q", v)
	}
}

func TestApplyEnv(t *testing.T) {
	base := Settings{Cookie: "file", DownloadDirectory: "/file"}

	got := ApplyEnv(base, envOf(map[string]string{EnvCookie: "env", EnvDownloadDirectory: "   "}))

	want := Settings{Cookie: "env", DownloadDirectory: "/file"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(base, ApplyEnv(base, nil)); diff != "" {
		t.Errorf("nil lookup must not change settings:\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	err := Validate(Settings{})

	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %T: %v", err, err)
	}

	if diff := cmp.Diff([]string{"cookie", "download_directory"}, fieldErrs.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	if err := Validate(Settings{Cookie: "c", DownloadDirectory: "/d", Filters: map[string]string{"": "3"}}); err == nil {
		t.Error("expected error for empty filter key")
	}

	if err := Validate(Settings{Cookie: "c", DownloadDirectory: "/d"}); err != nil {
		t.Errorf("expected valid settings, got: %v", err)
	}
}

func TestPrompter_Ask(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader("  /songs  \nlast line without newline"), &out)

	got, err := p.Ask("where?")
	if err != nil || got != "/songs" {
		t.Errorf("first answer = %q, %v", got, err)
	}

	got, err = p.Ask("and?")
	if err != nil || got != "last line without newline" {
		t.Errorf("second answer = %q, %v", got, err)
	}

	if _, err := p.Ask("more?"); !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}

	if out.String() != "where?\nand?\nmore?\n" {
		t.Errorf("unexpected prompts %q", out.String())
	}
}

func TestResolve(t *testing.T) {
	testCases := map[string]struct {
		stored    *Settings
		env       map[string]string
		input     string
		want      Settings
		persisted *Settings
		prompts   int
	}{
		"everything stored": {
			stored: &Settings{Cookie: " osu_session=abc \n", DownloadDirectory: "/songs"},
			want:   Settings{Cookie: "osu_session=abc", DownloadDirectory: "/songs"},
		},
		"first run prompts and persists": {
			input:     "/songs\nosu_session=new\n",
			want:      Settings{Cookie: "osu_session=new", DownloadDirectory: "/songs"},
			persisted: &Settings{Cookie: "osu_session=new", DownloadDirectory: "/songs"},
			prompts:   2,
		},
		"env fills the gap and is not persisted": {
			stored:    &Settings{DownloadDirectory: "/songs", Filters: map[string]string{"m": "3"}},
			env:       map[string]string{EnvCookie: "osu_session=env"},
			want:      Settings{Cookie: "osu_session=env", DownloadDirectory: "/songs", Filters: map[string]string{"m": "3"}},
			persisted: &Settings{DownloadDirectory: "/songs", Filters: map[string]string{"m": "3"}},
		},
		"env plus prompt persists only the prompt": {
			env:       map[string]string{EnvCookie: "osu_session=env"},
			input:     "/prompted\n",
			want:      Settings{Cookie: "osu_session=env", DownloadDirectory: "/prompted"},
			persisted: &Settings{DownloadDirectory: "/prompted"},
			prompts:   1,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			store := NewStore(fs, settingsPath)
			if tc.stored != nil {
				if err := store.Save(*tc.stored); err != nil {
					t.Fatalf("seeding: %v", err)
				}
			}

			var out strings.Builder
			got, err := Resolve(store, envOf(tc.env), NewPrompter(strings.NewReader(tc.input), &out))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}

			if n := strings.Count(out.String(), "\n"); n != tc.prompts {
				t.Errorf("prompted %d times, want %d", n, tc.prompts)
			}

			if tc.persisted != nil {
				onDisk, err := store.Load()
				if err != nil {
					t.Fatalf("Load: %v", err)
				}
				if diff := cmp.Diff(*tc.persisted, onDisk); diff != "" {
					t.Errorf("persisted mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestResolve_StillMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, settingsPath)

	_, err := Resolve(store, noEnv, NewPrompter(strings.NewReader("/songs\n"), io.Discard))
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}

	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors in chain, got %v", err)
	}
	if diff := cmp.Diff([]string{"cookie"}, fieldErrs.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	if exists, _ := afero.Exists(fs, settingsPath); exists {
		t.Error("invalid settings must not be persisted")
	}
}

func TestResolve_NonInteractive(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), settingsPath)

	if _, err := Resolve(store, noEnv, nil); !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("expected ErrConfigMissing, got %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	t.Setenv("AppData", "/tmp/appdata")

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}

	if !strings.HasSuffix(path, "oszdl"+string(os.PathSeparator)+"config.yml") {
		t.Errorf("unexpected path %q", path)
	}
}
