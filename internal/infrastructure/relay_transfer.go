package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

// TransferRelay uploads media to a transfer.sh compatible host with PUT
type TransferRelay struct {
	baseURL  string
	tempDir  string
	maxBytes int64
	timeout  time.Duration
	client   *UpstreamClient
	logger   *zap.Logger
}

// NewTransferRelay creates a new transfer relay
func NewTransferRelay(config *domain.RelayConfig, client *UpstreamClient, logger *zap.Logger) *TransferRelay {
	return &TransferRelay{
		baseURL:  strings.TrimRight(config.TransferURL, "/"),
		tempDir:  config.TempDir,
		maxBytes: config.MaxBytes,
		timeout:  config.Timeout,
		client:   client,
		logger:   logger,
	}
}

// Provider returns the file host this relay uploads to
func (r *TransferRelay) Provider() domain.RelayProvider {
	return domain.RelayTransfer
}

// Relay downloads mediaURL and uploads it to the transfer host
func (r *TransferRelay) Relay(ctx context.Context, mediaURL string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var hosted string
	err := withTempMedia(ctx, r.client, mediaURL, r.tempDir, r.maxBytes, func(m *tempMedia) error {
		req, err := r.client.NewRequest(ctx, http.MethodPut, r.baseURL+"/"+m.Name, m.File)
		if err != nil {
			return err
		}
		req.ContentLength = m.Size
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("upload to transfer host: %w", err)
		}
		defer resp.Body.Close()

		hosted, err = readHostedURL(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("Media relayed", zap.String("provider", "transfer"), zap.String("url", hosted))
	return hosted, nil
}
