// Package registry talks to the package registry: a latest-version probe
// and authenticated tarball downloads.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/xlts-tools/registry-fetch/internal/catalog"
	"github.com/xlts-tools/registry-fetch/internal/network"
)

// Client issues authenticated requests against one registry.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	// Progress disables the download progress bar when false, so tests
	// and non-TTY runs stay quiet.
	Progress bool
}

// NewClient builds a client for the given registry with a bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: network.NewSecureHTTPClient(),
		Progress:   true,
	}
}

// metadata is the slice of the registry document we care about.
type metadata struct {
	DistTags map[string]string `json:"dist-tags"`
}

// LatestVersion fetches the package's metadata and returns its latest
// dist-tag. An empty version means the field is absent and the caller must
// treat the run as failed.
func (c *Client) LatestVersion(ctx context.Context, pkg string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.BaseURL, catalog.Scope, pkg)
	resp, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching metadata for %s: bad status: %s", pkg, resp.Status)
	}

	var meta metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("parsing metadata for %s: %v", pkg, err)
	}
	return meta.DistTags["latest"], nil
}

// DownloadTarball streams the package's archive at the given version into
// destPath. Any non-2xx status or I/O failure is returned; nothing is
// retried.
func (c *Client) DownloadTarball(ctx context.Context, pkg, version, destPath string) error {
	name := catalog.TarballName(pkg, version)
	url := fmt.Sprintf("%s/%s/%s/-/%s", c.BaseURL, catalog.Scope, pkg, name)

	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: bad status: %s", name, resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %s: %v", destPath, err)
	}
	defer out.Close()

	var dest io.Writer = out
	if c.Progress {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription(fmt.Sprintf("downloading %s", name)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		dest = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %v", destPath, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %v", url, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %v", url, err)
	}
	return resp, nil
}
