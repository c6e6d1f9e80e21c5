package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is an osu! game mode, as understood by the search "m" filter.
type Mode int

const (
	ModeStandard Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

var modeNames = map[string]Mode{
	"std":      ModeStandard,
	"standard": ModeStandard,
	"osu":      ModeStandard,
	"taiko":    ModeTaiko,
	"catch":    ModeCatch,
	"fruits":   ModeCatch,
	"ctb":      ModeCatch,
	"mania":    ModeMania,
}

// ParseMode accepts either the numeric filter value (0-3) or a mode name.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if m, ok := modeNames[s]; ok {
		return m, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < int(ModeStandard) || n > int(ModeMania) {
		return 0, fmt.Errorf("unknown game mode %q: want 0-3 or std, taiko, catch, mania", s)
	}

	return Mode(n), nil
}

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "std"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "catch"
	case ModeMania:
		return "mania"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// UnmarshalText lets flag parsers accept a Mode directly.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Filters merges the command line filters over defaults without modifying
// defaults. A nil mode leaves any default "m" filter in place.
func Filters(defaults map[string]string, mode *Mode, recommended bool) map[string]string {
	out := make(map[string]string, len(defaults)+2)
	for k, v := range defaults {
		out[k] = v
	}

	if mode != nil {
		out["m"] = strconv.Itoa(int(*mode))
	}

	if recommended {
		out["c"] = "recommended"
	}

	return out
}
