package config

import (
	"errors"
	"fmt"
	"strings"
)

// Resolve builds the effective Settings. It loads the settings file,
// applies environment overrides and prompts for anything still empty.
// Only prompted answers are persisted; environment values never reach
// the settings file. p may be nil for non-interactive runs.
func Resolve(store *Store, lookup LookupFunc, p *Prompter) (Settings, error) {
	stored, err := store.Load()
	if err != nil {
		return Settings{}, err
	}

	st := ApplyEnv(stored, lookup)
	st.Cookie = strings.TrimSpace(st.Cookie)
	st.DownloadDirectory = strings.TrimSpace(st.DownloadDirectory)

	var prompted bool
	ask := func(question string, dst, persisted *string) error {
		if *dst != "" || p == nil {
			return nil
		}

		answer, err := p.Ask(question)
		if err != nil && !errors.Is(err, ErrNoInput) {
			return err
		}
		if answer != "" {
			*dst, *persisted = answer, answer
			prompted = true
		}

		return nil
	}

	if err := ask(PromptDownloadDirectory, &st.DownloadDirectory, &stored.DownloadDirectory); err != nil {
		return Settings{}, err
	}
	if err := ask(PromptCookie, &st.Cookie, &stored.Cookie); err != nil {
		return Settings{}, err
	}

	if err := Validate(st); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrConfigMissing, err)
	}

	if prompted {
		if err := store.Save(stored); err != nil {
			return Settings{}, err
		}
	}

	return st, nil
}
