package infrastructure

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

// CatboxRelay uploads media to catbox.moe
type CatboxRelay struct {
	endpoint string
	userHash string
	tempDir  string
	maxBytes int64
	timeout  time.Duration
	client   *UpstreamClient
	logger   *zap.Logger
}

// NewCatboxRelay creates a new catbox relay
func NewCatboxRelay(config *domain.RelayConfig, client *UpstreamClient, logger *zap.Logger) *CatboxRelay {
	return &CatboxRelay{
		endpoint: config.CatboxURL,
		userHash: config.UserHash,
		tempDir:  config.TempDir,
		maxBytes: config.MaxBytes,
		timeout:  config.Timeout,
		client:   client,
		logger:   logger,
	}
}

// Provider returns the file host this relay uploads to
func (r *CatboxRelay) Provider() domain.RelayProvider {
	return domain.RelayCatbox
}

// Relay downloads mediaURL and uploads it to catbox
func (r *CatboxRelay) Relay(ctx context.Context, mediaURL string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var hosted string
	err := withTempMedia(ctx, r.client, mediaURL, r.tempDir, r.maxBytes, func(m *tempMedia) error {
		url, err := r.upload(ctx, m)
		if err != nil {
			return err
		}
		hosted = url
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("Media relayed", zap.String("provider", "catbox"), zap.String("url", hosted))
	return hosted, nil
}

// upload streams a multipart form with the file to the catbox API
func (r *CatboxRelay) upload(ctx context.Context, m *tempMedia) (string, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(r.writeForm(form, m))
	}()

	req, err := r.client.NewRequest(ctx, http.MethodPost, r.endpoint, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to catbox: %w", err)
	}
	defer resp.Body.Close()

	return readHostedURL(resp)
}

func (r *CatboxRelay) writeForm(form *multipart.Writer, m *tempMedia) error {
	if err := form.WriteField("reqtype", "fileupload"); err != nil {
		return err
	}
	if r.userHash != "" {
		if err := form.WriteField("userhash", r.userHash); err != nil {
			return err
		}
	}

	part, err := form.CreateFormFile("fileToUpload", m.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, m.File); err != nil {
		return err
	}
	return form.Close()
}
