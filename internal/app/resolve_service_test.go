package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/media-resolve-go/internal/domain"
)

type fakeResolver struct {
	platform domain.Platform
	mediaURL string
	err      error
	calls    []string
}

func (f *fakeResolver) Resolve(ctx context.Context, sourceURL string) (string, error) {
	f.calls = append(f.calls, sourceURL)
	return f.mediaURL, f.err
}

func (f *fakeResolver) Platform() domain.Platform { return f.platform }

type fakeRelay struct {
	hosted string
	err    error
	calls  int
}

func (f *fakeRelay) Relay(ctx context.Context, mediaURL string) (string, error) {
	f.calls++
	return f.hosted, f.err
}

func (f *fakeRelay) Provider() domain.RelayProvider { return domain.RelayCatbox }

// mockResolutionRepo implements domain.ResolutionRepository for testing
type mockResolutionRepo struct {
	created []*domain.Resolution
	err     error
}

func (m *mockResolutionRepo) Create(resolution *domain.Resolution) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, resolution)
	return nil
}

func (m *mockResolutionRepo) FindByID(id string) (*domain.Resolution, error) {
	for _, r := range m.created {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrResolutionNotFound
}

func (m *mockResolutionRepo) FindRecent(limit int, filters domain.ResolutionFilter) ([]*domain.Resolution, error) {
	return m.created, nil
}

func (m *mockResolutionRepo) GetStats() (*domain.ResolutionStats, error) {
	return &domain.ResolutionStats{Total: int64(len(m.created))}, nil
}

func newTestService(relay domain.Relay, relayEnabled bool, repo domain.ResolutionRepository) (*ResolveService, map[domain.Platform]*fakeResolver) {
	fakes := map[domain.Platform]*fakeResolver{
		domain.PlatformTikTok:  {platform: domain.PlatformTikTok, mediaURL: "https://x/video.mp4"},
		domain.PlatformYouTube: {platform: domain.PlatformYouTube, mediaURL: "https://cdn/yt.mp4"},
		domain.PlatformTwitter: {platform: domain.PlatformTwitter, mediaURL: "https://x/hd.mp4"},
	}
	resolvers := make(map[domain.Platform]domain.Resolver, len(fakes))
	for p, f := range fakes {
		resolvers[p] = f
	}

	relayConfig := domain.DefaultConfig().Relay
	relayConfig.Enabled = relayEnabled

	return NewResolveService(resolvers, relay, relayConfig, repo, nil), fakes
}

func TestResolve_Success(t *testing.T) {
	svc, fakes := newTestService(nil, false, nil)

	result, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: " https://www.tiktok.com/@a/video/1 "})
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformTikTok, result.Platform)
	assert.Equal(t, "https://x/video.mp4", result.DownloadURL)
	assert.Empty(t, result.RelayURL)
	assert.Equal(t, []string{"https://www.tiktok.com/@a/video/1"}, fakes[domain.PlatformTikTok].calls)
}

func TestResolve_MissingURL(t *testing.T) {
	svc, _ := newTestService(nil, false, nil)

	_, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "   "})
	require.Error(t, err)
	assert.Equal(t, domain.KindMissingInput, domain.KindOf(err))
}

func TestResolve_UnsupportedPlatform(t *testing.T) {
	svc, _ := newTestService(nil, false, nil)

	_, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://example.com/v/1"})
	assert.Equal(t, domain.KindUnsupportedPlatform, domain.KindOf(err))

	_, err = svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://example.com/v/1", Platform: "vimeo"})
	assert.Equal(t, domain.KindUnsupportedPlatform, domain.KindOf(err))
}

func TestResolve_PlatformHintBypassesDetection(t *testing.T) {
	svc, fakes := newTestService(nil, false, nil)

	result, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://short.link/abc", Platform: " X "})
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformTwitter, result.Platform)
	assert.Len(t, fakes[domain.PlatformTwitter].calls, 1)
}

func TestResolve_NoResolverRegistered(t *testing.T) {
	svc, _ := newTestService(nil, false, nil)

	_, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://fb.watch/abc"})
	var re *domain.ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.KindUnsupportedPlatform, re.Kind)
	assert.Equal(t, domain.PlatformFacebook, re.Platform)
}

func TestResolve_ResolverErrorPassesThrough(t *testing.T) {
	svc, fakes := newTestService(nil, false, nil)
	fakes[domain.PlatformTikTok].err = domain.NewResolveError(
		domain.KindExtractionFailed, domain.StageUpstreamFetched, domain.PlatformTikTok, nil)

	_, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://vm.tiktok.com/abc"})
	var re *domain.ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.KindExtractionFailed, re.Kind)
	assert.Equal(t, domain.StageUpstreamFetched, re.Stage)
}

func TestResolve_PlainResolverErrorIsUpstreamFailure(t *testing.T) {
	svc, fakes := newTestService(nil, false, nil)
	fakes[domain.PlatformTikTok].err = context.DeadlineExceeded

	_, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://vm.tiktok.com/abc"})
	assert.Equal(t, domain.KindUpstreamUnreachable, domain.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolve_RelaysConfiguredPlatform(t *testing.T) {
	relay := &fakeRelay{hosted: "https://files.catbox.moe/abc.mp4"}
	svc, _ := newTestService(relay, true, nil)

	result, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://youtu.be/abc"})
	require.NoError(t, err)
	assert.Equal(t, "https://files.catbox.moe/abc.mp4", result.RelayURL)
	assert.Equal(t, domain.RelayCatbox, result.Relay)
	assert.Equal(t, "https://cdn/yt.mp4", result.DownloadURL)
	assert.Equal(t, 1, relay.calls)

	// tiktok is not in the default relay platform set
	_, err = svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://www.tiktok.com/@a/video/1"})
	require.NoError(t, err)
	assert.Equal(t, 1, relay.calls)
}

func TestResolve_RelayDisabled(t *testing.T) {
	relay := &fakeRelay{hosted: "https://files.catbox.moe/abc.mp4"}
	svc, _ := newTestService(relay, false, nil)

	result, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://youtu.be/abc"})
	require.NoError(t, err)
	assert.Empty(t, result.RelayURL)
	assert.Zero(t, relay.calls)
	assert.Equal(t, domain.RelayProvider(""), svc.RelayProvider())
}

func TestResolve_RelayFailure(t *testing.T) {
	relay := &fakeRelay{err: errors.New("upload rejected with status 412")}
	svc, _ := newTestService(relay, true, nil)

	result, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://youtu.be/abc"})
	assert.Nil(t, result)

	var re *domain.ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.KindRelayFailed, re.Kind)
	assert.Equal(t, domain.StageExtracted, re.Stage)
	assert.Equal(t, 500, re.Kind.HTTPStatus())
}

func TestResolve_RecordsHistory(t *testing.T) {
	repo := &mockResolutionRepo{}
	svc, _ := newTestService(nil, false, repo)

	_, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://www.tiktok.com/@a/video/1"})
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://example.com"})
	require.Error(t, err)

	require.Len(t, repo.created, 2)
	assert.True(t, repo.created[0].Success)
	assert.Equal(t, domain.PlatformTikTok, repo.created[0].Platform)
	assert.Equal(t, domain.StageResponded, repo.created[0].Stage)

	assert.False(t, repo.created[1].Success)
	assert.Equal(t, domain.KindUnsupportedPlatform, repo.created[1].ErrorKind)
	assert.Equal(t, 400, repo.created[1].StatusCode)

	found, err := svc.Resolution(repo.created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, repo.created[0], found)
}

func TestResolve_HistoryFailureDoesNotFailRequest(t *testing.T) {
	repo := &mockResolutionRepo{err: errors.New("disk full")}
	svc, _ := newTestService(nil, false, repo)

	result, err := svc.Resolve(context.Background(), &domain.ResolveRequest{URL: "https://www.tiktok.com/@a/video/1"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/video.mp4", result.DownloadURL)
}

func TestHistory_Disabled(t *testing.T) {
	svc, _ := newTestService(nil, false, nil)

	assert.False(t, svc.HistoryEnabled())
	_, err := svc.History(10, domain.ResolutionFilter{})
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.Stats()
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestPlatforms_DetectionOrder(t *testing.T) {
	svc, _ := newTestService(nil, false, nil)
	assert.Equal(t, []domain.Platform{domain.PlatformYouTube, domain.PlatformTwitter, domain.PlatformTikTok}, svc.Platforms())
}
