package homeassistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shoplist/internal/sharedfile"
)

// maxFileSize bounds FetchFile responses
const maxFileSize = 4 << 20

// ErrFileTooLarge is returned by FetchFile for files over maxFileSize
var ErrFileTooLarge = errors.New("file too large")

// FetchFile downloads a file served by Home Assistant, such as one under
// /local/. A 404 is reported as sharedfile.ErrNotFound.
func (c *Client) FetchFile(ctx context.Context, path string) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, sharedfile.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", path, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("fetch %s: %w (over %d bytes)", path, ErrFileTooLarge, maxFileSize)
	}
	return data, nil
}
