// Package contentfetcher downloads remote images so they can be sent to a provider as an
// inline reference.
package contentfetcher

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/superleo/marketingops/backend/internal/logging"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 10 * 1024 * 1024

	userAgent = "SuperLeo-ReferenceFetcher/1.0"
)

var (
	ErrNotImage = errors.New("content is not an image")
	ErrTooLarge = errors.New("content exceeds size limit")
)

// StatusError is a non-2xx answer from the remote host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Fetcher downloads images over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	log      zerolog.Logger
}

// New returns a fetcher with its own client. Zero arguments select the defaults.
func New(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		log:      logging.Component("contentfetcher"),
	}
}

// FetchImage GETs url and returns the MIME type and the decoded body. The MIME type comes
// from Content-Type, or is sniffed when the header is missing or generic.
func (f *Fetcher) FetchImage(ctx context.Context, url string) (string, []byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", nil, fmt.Errorf("fetch %s: unsupported scheme", url)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := decompressed(resp)
	if err != nil {
		return "", nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if int64(len(data)) > f.maxBytes {
		return "", nil, fmt.Errorf("fetch %s: %w (%d bytes)", url, ErrTooLarge, f.maxBytes)
	}

	mimeType := contentType(resp.Header.Get("Content-Type"), data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", nil, fmt.Errorf("fetch %s: %s: %w", url, mimeType, ErrNotImage)
	}

	f.log.Debug().Str("url", url).Str("mime", mimeType).Int("bytes", len(data)).Dur("elapsed", time.Since(start)).Msg("reference image fetched")
	return mimeType, data, nil
}

// decompressed undoes Content-Encoding. The transport only does this itself when it set
// Accept-Encoding, which we override.
func decompressed(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		r, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("deflate reader: %w", err)
		}
		return r, nil
	}
	return io.NopCloser(resp.Body), nil
}

func contentType(header string, data []byte) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
