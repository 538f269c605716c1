package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/net2share/sbsetup/internal/logger"
)

var (
	// ErrEmptyDownload means the index served an asset with no content.
	ErrEmptyDownload = errors.New("downloaded archive is empty")

	// ErrNoDigest means the release index advertises no checksum for the
	// asset, so there is nothing to verify against.
	ErrNoDigest = errors.New("release index advertises no digest for asset")
)

// Archive downloads can take a while on thin links, so the client timeout
// is generous; cancellation comes from the context.
var downloadClient = &http.Client{Timeout: 15 * time.Minute}

// FetchAsset downloads an asset to a temp file and returns its path.
// The caller owns the file. Empty content is rejected explicitly.
func FetchAsset(ctx context.Context, asset *Asset, progressFn func(downloaded, total int64)) (string, error) {
	logger.Debugf("fetching %s", asset.BrowserDownloadURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	tmpFile, err := os.CreateTemp("", asset.Name+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmpFile.Close()

	resp, err := downloadClient.Do(req)
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("download failed with status: %s", resp.Status)
	}

	var written int64
	if progressFn != nil {
		written, err = io.Copy(tmpFile, &progressReader{
			reader:     resp.Body,
			total:      resp.ContentLength,
			progressFn: progressFn,
		})
	} else {
		written, err = io.Copy(tmpFile, resp.Body)
	}

	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	if written == 0 {
		os.Remove(tmpFile.Name())
		return "", ErrEmptyDownload
	}

	return tmpFile.Name(), nil
}

type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	progressFn func(downloaded, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.downloaded += int64(n)
	if pr.progressFn != nil {
		pr.progressFn(pr.downloaded, pr.total)
	}
	return n, err
}

// VerifyAsset checks the downloaded file against the index-advertised
// digest. ErrNoDigest is returned when the index has none, so callers can
// decide whether to proceed with a warning.
func VerifyAsset(path string, asset *Asset) error {
	expected, err := parseDigest(asset.Digest)
	if err != nil {
		return err
	}

	sum, err := FileSHA256(path)
	if err != nil {
		return err
	}

	if sum != expected {
		return fmt.Errorf("sha256 mismatch for %s: index says %s, archive is %s", asset.Name, expected, sum)
	}

	return nil
}

// FileSHA256 returns the lowercase hex sha256 of a file.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func parseDigest(digest string) (string, error) {
	if digest == "" {
		return "", ErrNoDigest
	}

	algo, sum, found := strings.Cut(digest, ":")
	if !found || algo != "sha256" || sum == "" {
		return "", fmt.Errorf("unsupported digest format: %q", digest)
	}

	return strings.ToLower(sum), nil
}
