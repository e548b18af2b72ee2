package peaks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader fetches the raw bytes behind a source key.
type Loader interface {
	Load(ctx context.Context, source string) ([]byte, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, source string) ([]byte, error)

// Load calls f(ctx, source).
func (f LoaderFunc) Load(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}

// DefaultLoader reads http(s) URLs with client and everything else from the
// local filesystem.
func DefaultLoader(client *http.Client) Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return LoaderFunc(func(ctx context.Context, source string) ([]byte, error) {
		if !isURL(source) {
			return os.ReadFile(source)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", source, resp.Status)
		}
		return io.ReadAll(resp.Body)
	})
}

// Decode picks the decoder from the source extension: .json is the JSON
// format, anything else is binary.
func Decode(source string, raw []byte) (*Data, error) {
	if strings.EqualFold(path.Ext(stripQuery(source)), ".json") {
		return DecodeJSON(bytes.NewReader(raw))
	}
	return DecodeDat(bytes.NewReader(raw))
}

// LoadTimeout bounds a shared load. The load runs detached from the caller
// that started it, so one canceled caller does not fail the others.
const LoadTimeout = 30 * time.Second

// Cache holds decoded peak data keyed by source. Entries live for the
// lifetime of the cache; concurrent loads of one key share a single fetch.
// Failed loads are not cached.
type Cache struct {
	loader Loader

	mu      sync.RWMutex
	entries map[string]*Data
	group   singleflight.Group
}

// NewCache returns an empty cache. A nil loader uses DefaultLoader(nil).
func NewCache(loader Loader) *Cache {
	if loader == nil {
		loader = DefaultLoader(nil)
	}
	return &Cache{loader: loader, entries: make(map[string]*Data)}
}

// Get returns the decoded data for source, loading it on first use.
func (c *Cache) Get(ctx context.Context, source string) (*Data, error) {
	c.mu.RLock()
	data, ok := c.entries[source]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	ch := c.group.DoChan(source, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[source]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		raw, err := c.loader.Load(loadCtx, source)
		if err != nil {
			return nil, fmt.Errorf("load peaks %s: %w", source, err)
		}
		decoded, err := Decode(source, raw)
		if err != nil {
			return nil, fmt.Errorf("decode peaks %s: %w", source, err)
		}
		c.mu.Lock()
		c.entries[source] = decoded
		c.mu.Unlock()
		return decoded, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Data), nil
	}
}

// Len reports how many sources are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func stripQuery(source string) string {
	if idx := strings.IndexAny(source, "?#"); idx >= 0 {
		return source[:idx]
	}
	return source
}
