package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

// ErrMediaTooLarge is returned when a relayed file exceeds the configured limit
var ErrMediaTooLarge = errors.New("media exceeds relay size limit")

const defaultMediaExt = ".mp4"

// tempMedia is a downloaded media file handed to an uploader
type tempMedia struct {
	File *os.File
	Name string // upload filename
	Size int64
}

// NewRelay creates the relay configured by provider
func NewRelay(config *domain.RelayConfig, client *UpstreamClient, logger *zap.Logger) (domain.Relay, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Relay transfers are bounded by the relay timeout on the context, not the upstream timeout
	client = client.WithTimeout(0)

	switch domain.RelayProvider(strings.ToLower(config.Provider)) {
	case domain.RelayCatbox:
		return NewCatboxRelay(config, client, logger), nil
	case domain.RelayTransfer:
		return NewTransferRelay(config, client, logger), nil
	default:
		return nil, fmt.Errorf("unknown relay provider: %s", config.Provider)
	}
}

// withTempMedia downloads mediaURL into a temp file and passes it to upload.
// The file is closed and removed on every return path.
func withTempMedia(ctx context.Context, client *UpstreamClient, mediaURL, dir string, maxBytes int64, upload func(m *tempMedia) error) error {
	resp, err := client.Open(ctx, mediaURL)
	if err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return ErrMediaTooLarge
	}

	name := mediaFilename(resp)
	tmp, err := os.CreateTemp(dir, "relay-*"+filepath.Ext(name))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	var src io.Reader = resp.Body
	if maxBytes > 0 {
		src = io.LimitReader(resp.Body, maxBytes+1)
	}
	size, err := io.Copy(tmp, src)
	if err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	if maxBytes > 0 && size > maxBytes {
		return ErrMediaTooLarge
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temp file: %w", err)
	}

	return upload(&tempMedia{File: tmp, Name: name, Size: size})
}

// mediaFilename picks an upload filename from Content-Disposition,
// then the URL path, then Content-Type
func mediaFilename(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := sanitizeFilename(params["filename"]); name != "" && filepath.Ext(name) != "" {
				return name
			}
		}
	}

	if resp.Request != nil && resp.Request.URL != nil {
		if name := sanitizeFilename(path.Base(resp.Request.URL.Path)); filepath.Ext(name) != "" {
			return name
		}
	}

	ext := defaultMediaExt
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
			ext = strings.ToLower(exts[0])
		}
	}
	return "video" + ext
}

// sanitizeFilename keeps only characters safe in a URL path segment
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// readHostedURL reads a plain-text URL answer from a file host
func readHostedURL(resp *http.Response) (string, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	text := strings.TrimSpace(string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, truncateString(text, 200))
	}
	if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
		return "", fmt.Errorf("unexpected upload response: %s", truncateString(text, 200))
	}
	return text, nil
}
