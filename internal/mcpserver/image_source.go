package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/folio/internal/journal"
)

const maxDownloadSize = 10 << 20 // 10 MB

// loadImage resolves source into an image. Data URIs are decoded, http(s)
// URLs are downloaded, anything else is read as a local file path.
func loadImage(ctx context.Context, source, name string) (*journal.Image, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		data, mimeType, err := decodeDataURI(source)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = uuid.New().String() + extFor(mimeType)
		}
		return journal.NewImage(name, data)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		data, err := fetchHTTP(ctx, source)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = filenameFromURL(source)
		}
		return journal.NewImage(name, data)
	default:
		img, err := journal.LoadImage(source)
		if err != nil {
			return nil, err
		}
		if name != "" {
			img.Name = name
		}
		return img, nil
	}
}

// decodeDataURI parses a data:<mediatype>;base64,<data> URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	meta, encoded, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("invalid data URI: missing comma separator")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	mimeType, _, _ := strings.Cut(strings.TrimSuffix(meta, ";base64"), ";")
	return data, mimeType, nil
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}

// fetchHTTP downloads an image, refusing loopback and cloud metadata hosts.
func fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if err := checkBlockedHost(parsed.Hostname()); err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			return checkBlockedHost(req.URL.Hostname())
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("download too large: exceeds %d bytes", maxDownloadSize)
	}
	return data, nil
}

func checkBlockedHost(host string) error {
	if host == "metadata.google.internal" {
		return fmt.Errorf("blocked host: %s", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, lookupErr := net.LookupIP(host)
		if lookupErr != nil || len(ips) == 0 {
			return nil //nolint:nilerr // let http.Client handle DNS failures
		}
		ip = ips[0]
	}

	if ip.IsLoopback() {
		return fmt.Errorf("blocked host: loopback address %s", host)
	}
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return fmt.Errorf("blocked host: cloud metadata address %s", host)
	}
	return nil
}

func filenameFromURL(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil {
		base := path.Base(parsed.Path)
		if strings.Contains(base, ".") {
			return base
		}
	}
	return uuid.New().String()
}
