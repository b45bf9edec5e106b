package mediastore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Source names one piece of practice media and where its bytes may come
// from. Any subset of the three tiers may be set.
type Source struct {
	MediaID   string `json:"mediaId" msgpack:"mediaId"`
	MediaType string `json:"mediaType,omitempty" msgpack:"mediaType"`
	Data      []byte `json:"data,omitempty" msgpack:"data"`
	URL       string `json:"url,omitempty" msgpack:"url"`
	Path      string `json:"path,omitempty" msgpack:"path"`
}

// ResolutionError reports that no tier of a Source produced bytes. Tried
// records each attempt and why it failed.
type ResolutionError struct {
	MediaID string
	Tried   []string
}

func (e *ResolutionError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("mediastore: media %s: no source configured", e.MediaID)
	}
	return fmt.Sprintf("mediastore: media %s: no bytes available (%s)", e.MediaID, strings.Join(e.Tried, "; "))
}

// Resolver turns Sources into raw media bytes.
type Resolver struct {
	client  *http.Client
	library Store
	logger  *slog.Logger
}

// NewResolver builds a Resolver over an optional clip library. A nil client
// falls back to http.DefaultClient, a nil logger to slog.Default().
func NewResolver(library Store, client *http.Client, logger *slog.Logger) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{client: client, library: library, logger: logger}
}

// Resolve returns the media bytes for src, trying inline bytes, then the
// URL, then the library path. A failed tier falls through to the next;
// when every configured tier fails the error is a *ResolutionError. Context
// cancellation stops the chain immediately instead of falling through.
func (r *Resolver) Resolve(ctx context.Context, src Source) ([]byte, error) {
	if len(src.Data) > 0 {
		return src.Data, nil
	}

	var tried []string
	if src.URL != "" {
		blob, err := r.fetch(ctx, src.URL)
		if err == nil {
			return blob, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("mediastore: fetch %s: %w", src.MediaID, err)
		}
		r.logger.Debug("mediastore: url tier failed", "mediaId", src.MediaID, "err", err)
		tried = append(tried, fmt.Sprintf("url: %v", err))
	}

	if src.Path != "" {
		if r.library == nil {
			tried = append(tried, "library: not configured")
		} else {
			blob, err := r.readLibrary(ctx, src.Path)
			if err == nil {
				return blob, nil
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("mediastore: open %s: %w", src.MediaID, err)
			}
			r.logger.Debug("mediastore: library tier failed", "mediaId", src.MediaID, "path", src.Path, "err", err)
			tried = append(tried, fmt.Sprintf("library %s: %v", src.Path, err))
		}
	}

	return nil, &ResolutionError{MediaID: src.MediaID, Tried: tried}
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (r *Resolver) readLibrary(ctx context.Context, name string) ([]byte, error) {
	rc, err := r.library.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
