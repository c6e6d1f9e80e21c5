// Package selection parses the operator's pick of search results.
//
// A selection is a whitespace separated list of tokens. Each token is a
// 1-based index ("3") or an inclusive range ("3-5"). Parse resolves the
// tokens into 0-based indices in the order they were given, ranges
// expanding low to high. The first occurrence of an index wins and later
// repeats are dropped, so "1 1-3 2" selects the first three entries once.
package selection

import (
	"strconv"
	"strings"
)

const rangeSep = "-"

// Parse resolves raw against a list of available entries. Blank input
// yields an empty selection. Every returned index i satisfies
// 0 <= i < available and no index appears twice.
func Parse(raw string, available int) ([]int, error) {
	tokens := strings.Fields(raw)

	indices := make([]int, 0, len(tokens))
	seen := make(map[int]struct{}, len(tokens))

	add := func(i int) {
		if _, ok := seen[i]; ok {
			return
		}
		seen[i] = struct{}{}
		indices = append(indices, i)
	}

	for _, tok := range tokens {
		lo, hi, err := parseToken(tok, available)
		if err != nil {
			return nil, err
		}

		for v := lo; v <= hi; v++ {
			add(v - 1)
		}
	}

	return indices, nil
}

// parseToken returns the inclusive 1-based bounds a token covers. A single
// index is returned as a one element range.
func parseToken(tok string, available int) (int, int, error) {
	loRaw, hiRaw, isRange := strings.Cut(tok, rangeSep)
	if !isRange {
		v, ok := parsePositive(tok)
		if !ok {
			return 0, 0, &Error{Kind: InvalidIndex, Token: tok}
		}
		if err := checkBounds(tok, v, available); err != nil {
			return 0, 0, err
		}
		return v, v, nil
	}

	lo, loOK := parsePositive(loRaw)
	hi, hiOK := parsePositive(hiRaw)
	if !loOK || !hiOK || lo > hi {
		return 0, 0, &Error{Kind: InvalidRange, Token: tok}
	}

	if err := checkBounds(tok, lo, available); err != nil {
		return 0, 0, err
	}
	if err := checkBounds(tok, hi, available); err != nil {
		return 0, 0, err
	}

	return lo, hi, nil
}

// parsePositive accepts plain decimal digits only. Signs and empty strings
// are rejected so that "-3" and "3-" read as malformed ranges.
func parsePositive(s string) (int, bool) {
	v, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}

	return int(v), true
}

func checkBounds(tok string, v, available int) error {
	if v < 1 || v > available {
		return &Error{Kind: OutOfRange, Token: tok, Value: v, Available: available}
	}
	return nil
}

// Pick returns the entries at indices, in order. Indices must come from
// Parse called with len(entries).
func Pick[T any](entries []T, indices []int) []T {
	picked := make([]T, 0, len(indices))
	for _, i := range indices {
		picked = append(picked, entries[i])
	}
	return picked
}
