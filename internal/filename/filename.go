// Package filename turns catalog display names into safe archive names.
package filename

import (
	"strconv"
	"strings"
)

// Extension is the archive extension, without the dot.
const Extension = "osz"

// replacer maps every character that is reserved on at least one common
// filesystem to an underscore.
var replacer = strings.NewReplacer(
	`\`, "_",
	"?", "_",
	"<", "_",
	">", "_",
	"/", "_",
	":", "_",
	"*", "_",
	"|", "_",
	`"`, "_",
)

// Sanitize replaces each reserved character in s with '_'. Every other
// rune, including spaces and non-ASCII text, passes through untouched.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	return replacer.Replace(s)
}

// Archive names the file a beatmapset is saved as: "{id}-{display}.osz"
// with display sanitized.
func Archive(id uint64, display string) string {
	return strconv.FormatUint(id, 10) + "-" + Sanitize(display) + "." + Extension
}
