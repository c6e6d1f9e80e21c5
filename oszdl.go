// Package oszdl searches the osu! beatmap catalog and downloads the
// selected beatmapsets as .osz archives.
package oszdl

import (
	"github.com/adamwoolhether/oszdl/client"
)

// UserAgent is sent unless a client.WithUserAgent option replaces it.
const UserAgent = "oszdl"

// NewClient instantiates a *client.Client for talking to the catalog.
// opts are applied after the defaults and override them.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(append([]client.Option{client.WithUserAgent(UserAgent)}, opts...)...)
}
