package querycache

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// Entry is one cached query result.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store persists entries under encoded keys. Implementations evict entries that were not
// read or written for their GC time.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	// DeletePrefix removes key itself and every key below it.
	DeletePrefix(ctx context.Context, key string) error
}

// keySep separates escaped key segments; url.PathEscape always escapes it inside a segment.
const keySep = "/"

// EncodeKey turns a key such as ["products", "usb"] into "products/usb".
func EncodeKey(key []string) string {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = url.PathEscape(k)
	}
	return strings.Join(parts, keySep)
}

// under reports whether key equals prefix or lies below it.
func under(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+keySep)
}
