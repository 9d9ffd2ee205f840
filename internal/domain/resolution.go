package domain

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RelayProvider names a file host that resolved media can be re-uploaded to
type RelayProvider string

const (
	RelayCatbox   RelayProvider = "catbox"   // catbox.moe
	RelayTransfer RelayProvider = "transfer" // transfer.sh compatible hosts
)

// ResolveRequest is the inbound request, taken from the query string or body
type ResolveRequest struct {
	URL      string `json:"url" form:"url"`
	Platform string `json:"platform,omitempty" form:"platform"`
}

// ResolveResult is the outcome of a successful resolve
type ResolveResult struct {
	Platform    Platform
	DownloadURL string        // media URL returned by the upstream
	RelayURL    string        // hosted copy, set only when relayed
	Relay       RelayProvider // provider used for RelayURL
}

// ResolveResponse is the JSON envelope returned to callers
type ResolveResponse struct {
	Success     bool     `json:"success"`
	Platform    Platform `json:"platform,omitempty"`
	DownloadURL string   `json:"download_url,omitempty"`
	CatboxURL   string   `json:"catbox_url,omitempty"`
	TransferURL string   `json:"transfer_url,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// NewSuccessResponse builds the envelope for a result. A relayed result
// reports the hosted URL in place of the original download URL.
func NewSuccessResponse(result *ResolveResult) ResolveResponse {
	resp := ResolveResponse{
		Success:  true,
		Platform: result.Platform,
	}

	switch {
	case result.RelayURL != "" && result.Relay == RelayCatbox:
		resp.CatboxURL = result.RelayURL
	case result.RelayURL != "" && result.Relay == RelayTransfer:
		resp.TransferURL = result.RelayURL
	default:
		resp.DownloadURL = result.DownloadURL
	}
	return resp
}

// NewErrorResponse builds the envelope for a failed request
func NewErrorResponse(platform Platform, message string) ResolveResponse {
	return ResolveResponse{
		Success:  false,
		Platform: platform,
		Error:    message,
	}
}

// Resolution is an audit record of one handled request
type Resolution struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	URL          string    `json:"url" gorm:"not null"`
	Platform     Platform  `json:"platform" gorm:"index"`
	Success      bool      `json:"success" gorm:"index"`
	StatusCode   int       `json:"status_code"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Stage        Stage     `json:"stage"`
	DownloadURL  string    `json:"download_url,omitempty"`
	RelayURL     string    `json:"relay_url,omitempty"`
	LatencyMs    int64     `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// NewResolution creates a new audit record for a URL
func NewResolution(url string, platform Platform) *Resolution {
	return &Resolution{
		ID:        uuid.New().String(),
		URL:       url,
		Platform:  platform,
		Stage:     StageIdle,
		CreatedAt: time.Now(),
	}
}

// MarkSucceeded records a successful result
func (r *Resolution) MarkSucceeded(result *ResolveResult, latency time.Duration) {
	r.Success = true
	r.StatusCode = http.StatusOK
	r.Platform = result.Platform
	r.DownloadURL = result.DownloadURL
	r.RelayURL = result.RelayURL
	r.Stage = StageResponded
	r.LatencyMs = latency.Milliseconds()
}

// MarkFailed records a failure
func (r *Resolution) MarkFailed(err error, latency time.Duration) {
	kind := KindOf(err)
	r.Success = false
	r.ErrorKind = kind
	r.StatusCode = kind.HTTPStatus()
	r.ErrorMessage = err.Error()
	var re *ResolveError
	if errors.As(err, &re) {
		r.Stage = re.Stage
		if re.Platform != "" {
			r.Platform = re.Platform
		}
	}
	r.LatencyMs = latency.Milliseconds()
}

// IsRelayed checks if the resolved media was re-hosted
func (r *Resolution) IsRelayed() bool {
	return r.RelayURL != ""
}
