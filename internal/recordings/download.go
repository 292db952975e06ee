package recordings

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrDownloadFailed marks a recording that could not be fetched intact after
// all retries. Per-recording, non-fatal: the chunk counts it and moves on.
var ErrDownloadFailed = errors.New("download failed")

// Downloader streams recording URLs to disk with integrity checks.
type Downloader struct {
	Client       *http.Client
	MaxRetries   int
	RetryDelay   time.Duration
	MinFileBytes int64
}

func NewDownloader(timeout time.Duration, maxRetries int, retryDelay time.Duration, minFileBytes int64) *Downloader {
	return &Downloader{
		Client:       &http.Client{Timeout: timeout},
		MaxRetries:   maxRetries,
		RetryDelay:   retryDelay,
		MinFileBytes: minFileBytes,
	}
}

// Download fetches url to path, hashing the body while it streams, and
// returns the hex md5 of the content. A transport error or a file below the
// minimum size removes the partial file and retries with a linearly growing
// delay (attempt * RetryDelay). Exhaustion surfaces the last error wrapped
// in ErrDownloadFailed.
func (d *Downloader) Download(ctx context.Context, url, path string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= d.MaxRetries; attempt++ {
		sum, err := d.fetch(ctx, url, path)
		if err == nil {
			return sum, nil
		}
		lastErr = err
		if attempt < d.MaxRetries {
			select {
			case <-time.After(time.Duration(attempt) * d.RetryDelay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrDownloadFailed, ctx.Err())
			}
		}
	}
	return "", fmt.Errorf("%w: %v (after %d attempts)", ErrDownloadFailed, lastErr, d.MaxRetries)
}

func (d *Downloader) fetch(ctx context.Context, url, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	hash := md5.New()
	written, err := io.Copy(io.MultiWriter(f, hash), resp.Body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if written < d.MinFileBytes {
		// near-empty files are error pages or truncated bodies, not audio
		os.Remove(path)
		return "", fmt.Errorf("file too small: %d bytes", written)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
