// Package download resolves, fetches, verifies, and unpacks proxy release
// archives from the upstream release index.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/net2share/sbsetup/internal/logger"
)

const (
	repoOwner = "SagerNet"
	repoName  = "sing-box"

	apiBase   = "https://api.github.com"
	userAgent = "sbsetup"

	apiTimeout = 30 * time.Second
)

var apiClient = &http.Client{Timeout: apiTimeout}

// Release is the subset of the release-index document this tool consumes.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable artifact. Digest is the index-advertised
// "sha256:<hex>" string; older releases predate it and carry none.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Digest             string `json:"digest"`
}

// ResolveRelease queries the release index: the latest release when tag is
// empty, otherwise the named tag.
func ResolveRelease(ctx context.Context, tag string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", apiBase, repoOwner, repoName)
	if tag != "" {
		url = fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", apiBase, repoOwner, repoName, tag)
	}
	logger.Debugf("querying release index: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build release query: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := apiClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("release query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("release query returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return DecodeRelease(resp.Body)
}

// DecodeRelease parses a release-index document.
func DecodeRelease(r io.Reader) (*Release, error) {
	var rel Release
	if err := json.NewDecoder(r).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to parse release index: %w", err)
	}
	if rel.TagName == "" {
		return nil, fmt.Errorf("release index carries no tag name")
	}
	return &rel, nil
}

// AssetName returns the deterministic archive name for {tag, arch}. The
// tag carries a leading "v" the filename drops: tag v1.9.0 names the asset
// sing-box-1.9.0-linux-<arch>.tar.gz.
func AssetName(tag, arch string) string {
	version := strings.TrimPrefix(tag, "v")
	return fmt.Sprintf("%s-%s-linux-%s.tar.gz", repoName, version, arch)
}

// AssetURL returns the deterministic download URL for {tag, arch}.
func AssetURL(tag, arch string) string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/%s",
		repoOwner, repoName, tag, AssetName(tag, arch))
}

// AssetFor selects the archive for the given architecture. The asset must
// exist in the index; a missing entry means the architecture, despite
// being mapped, has no artifact in this release.
func (r *Release) AssetFor(arch string) (*Asset, error) {
	want := AssetName(r.TagName, arch)
	for i := range r.Assets {
		if r.Assets[i].Name == want {
			if r.Assets[i].BrowserDownloadURL == "" {
				r.Assets[i].BrowserDownloadURL = AssetURL(r.TagName, arch)
			}
			return &r.Assets[i], nil
		}
	}
	return nil, fmt.Errorf("release %s has no asset %s", r.TagName, want)
}
