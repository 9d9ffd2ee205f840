package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindMissingInput.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, KindUnsupportedPlatform.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindExtractionFailed.HTTPStatus())
	assert.Equal(t, http.StatusMethodNotAllowed, KindMethodNotAllowed.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindUpstreamUnreachable.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindRelayFailed.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.HTTPStatus())
}

func TestResolveError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("resolve: %w", NewResolveError(KindUpstreamUnreachable, StagePlatformResolved, PlatformTikTok, cause))

	assert.Equal(t, KindUpstreamUnreachable, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Upstream request failed: connection refused")
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(&ResolveResult{Platform: PlatformTikTok, DownloadURL: "https://x/video.mp4"})
	assert.True(t, resp.Success)
	assert.Equal(t, PlatformTikTok, resp.Platform)
	assert.Equal(t, "https://x/video.mp4", resp.DownloadURL)
	assert.Empty(t, resp.CatboxURL)

	resp = NewSuccessResponse(&ResolveResult{
		Platform:    PlatformYouTube,
		DownloadURL: "https://cdn/video.mp4",
		RelayURL:    "https://files.catbox.moe/abc.mp4",
		Relay:       RelayCatbox,
	})
	assert.Empty(t, resp.DownloadURL, "relayed responses carry the hosted URL instead")
	assert.Equal(t, "https://files.catbox.moe/abc.mp4", resp.CatboxURL)

	resp = NewSuccessResponse(&ResolveResult{
		Platform:    PlatformYouTube,
		DownloadURL: "https://cdn/video.mp4",
		RelayURL:    "https://transfer.sh/abc/video.mp4",
		Relay:       RelayTransfer,
	})
	assert.Equal(t, "https://transfer.sh/abc/video.mp4", resp.TransferURL)
}

func TestResolution_MarkSucceeded(t *testing.T) {
	r := NewResolution("https://youtu.be/abc", "")
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, StageIdle, r.Stage)

	r.MarkSucceeded(&ResolveResult{
		Platform:    PlatformYouTube,
		DownloadURL: "https://cdn/video.mp4",
		RelayURL:    "https://files.catbox.moe/abc.mp4",
		Relay:       RelayCatbox,
	}, 1500*time.Millisecond)

	assert.True(t, r.Success)
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, PlatformYouTube, r.Platform)
	assert.Equal(t, StageResponded, r.Stage)
	assert.Equal(t, int64(1500), r.LatencyMs)
	assert.True(t, r.IsRelayed())
}

func TestResolution_MarkFailed(t *testing.T) {
	r := NewResolution("https://twitter.com/a/status/1", "")
	r.MarkFailed(NewResolveError(KindExtractionFailed, StageUpstreamFetched, PlatformTwitter, nil), time.Second)

	assert.False(t, r.Success)
	assert.Equal(t, KindExtractionFailed, r.ErrorKind)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
	assert.Equal(t, StageUpstreamFetched, r.Stage)
	assert.Equal(t, PlatformTwitter, r.Platform)
	assert.Equal(t, "Unable to extract video URL", r.ErrorMessage)
	assert.False(t, r.IsRelayed())
}
