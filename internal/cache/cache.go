// Package cache stores successful render results keyed by a fingerprint of
// their inputs.
package cache

import (
	"context"
	"errors"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Entry is a cached render output.
type Entry struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Cache is a render-result store.
type Cache interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry) error
}

// Key fingerprints the inputs that fully determine a render result.
func Key(pluginID, markdown, overrideCSS string) string {
	d := xxhash.New()
	for _, part := range []string{pluginID, overrideCSS, markdown} {
		_, _ = d.WriteString(strconv.Itoa(len(part)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(part)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
