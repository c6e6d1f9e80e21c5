// Package client wraps [net/http] with the request helpers oszdl uses to
// query the beatmap catalog and to stream archives to disk.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithUserAgent("oszdl/1.0"),
//		client.WithThrottle(2, 1),
//	)
//
// # Making Requests
//
// Resolve an [Endpoint] and build a [Request], then execute with [Client.Do]:
//
//	u := client.Endpoint(base, map[string]string{"q": "camellia"}, "search")
//	req, err := client.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, http.StatusOK, client.WithDestination(&result))
//
// # Downloading Archives
//
// Stream a response body to disk with per-chunk progress reporting.
// The body lands in a temp file next to the destination and is renamed
// into place only once every byte has arrived:
//
//	n, err := c.Download(req, http.StatusOK, "/songs/1-a - b (c).osz",
//		client.WithProgress(func(written, total int64) { ... }),
//	)
//
// For lower-level control, including the bounded [download.Queue] used
// for parallel batches, see the
// [github.com/adamwoolhether/oszdl/client/download] package.
package client
