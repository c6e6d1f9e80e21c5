// Package catalog models beatmapsets returned by the osu! catalog and
// queries its search endpoint.
package catalog

import (
	"fmt"
	"io"
)

// Entry is a single downloadable beatmapset.
type Entry struct {
	ID      uint64 `json:"id"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Creator string `json:"creator"`
}

// Display renders e as "{artist} - {title} ({creator})". The same string
// labels progress output and, once sanitized, names the archive on disk.
func Display(e Entry) string {
	return fmt.Sprintf("%s - %s (%s)", e.Artist, e.Title, e.Creator)
}

func (e Entry) String() string {
	return Display(e)
}

// WriteList prints entries as a 1-based numbered list, one per line, so the
// numbers line up with what the selection syntax expects.
func WriteList(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, Display(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i+1, err)
		}
	}

	return nil
}
