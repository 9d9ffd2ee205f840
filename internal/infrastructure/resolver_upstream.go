package infrastructure

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

// UpstreamResolver resolves media URLs through a downloader API endpoint
// and a field extraction chain
type UpstreamResolver struct {
	platform domain.Platform
	baseURL  string
	path     string
	client   *UpstreamClient
	chain    []Extractor
	logger   *zap.Logger
}

// NewUpstreamResolver creates a resolver for one platform
func NewUpstreamResolver(platform domain.Platform, config *domain.UpstreamConfig, client *UpstreamClient, logger *zap.Logger) *UpstreamResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpstreamResolver{
		platform: platform,
		baseURL:  config.BaseURL,
		path:     config.PathFor(platform),
		client:   client,
		chain:    ExtractorsFor(platform),
		logger:   logger,
	}
}

// NewResolvers creates one resolver per supported platform
func NewResolvers(config *domain.UpstreamConfig, client *UpstreamClient, logger *zap.Logger) map[domain.Platform]domain.Resolver {
	resolvers := make(map[domain.Platform]domain.Resolver)
	for _, platform := range domain.AllPlatforms() {
		if platform == domain.PlatformYouTube {
			resolvers[platform] = NewYouTubeResolver(config, client, logger)
			continue
		}
		resolvers[platform] = NewUpstreamResolver(platform, config, client, logger)
	}
	return resolvers
}

// Platform returns the platform this resolver handles
func (r *UpstreamResolver) Platform() domain.Platform {
	return r.platform
}

// Endpoint returns the upstream request URL for a source URL
func (r *UpstreamResolver) Endpoint(sourceURL string) string {
	return BuildEndpoint(r.baseURL, r.path, sourceURL)
}

// Resolve fetches the upstream payload and extracts the media URL
func (r *UpstreamResolver) Resolve(ctx context.Context, sourceURL string) (string, error) {
	doc, err := r.client.GetJSON(ctx, r.Endpoint(sourceURL))
	if err != nil {
		return "", r.fetchError(err, domain.StagePlatformResolved)
	}

	mediaURL, ok := ExtractFirst(doc, r.chain)
	if ok && sameURL(mediaURL, sourceURL) {
		// some upstreams echo the page URL back when they find no media
		ok = false
	}
	if !ok {
		r.logger.Debug("No known field in upstream payload",
			zap.String("platform", string(r.platform)),
			zap.String("payload", truncateString(doc.Raw, 256)))
		return "", domain.NewResolveError(domain.KindExtractionFailed, domain.StageUpstreamFetched, r.platform, nil)
	}
	return mediaURL, nil
}

// fetchError classifies a GetJSON failure. A non-JSON 2xx body has nothing to
// extract, every other failure means the upstream could not be reached.
func (r *UpstreamResolver) fetchError(err error, stage domain.Stage) error {
	if errors.Is(err, ErrInvalidJSON) {
		return domain.NewResolveError(domain.KindExtractionFailed, domain.StageUpstreamFetched, r.platform, err)
	}
	return domain.NewResolveError(domain.KindUpstreamUnreachable, stage, r.platform, err)
}

// BuildEndpoint joins the base URL and platform path and appends the
// percent-encoded source URL as the url query parameter
func BuildEndpoint(baseURL, path, sourceURL string) string {
	endpoint := strings.TrimRight(baseURL, "/")
	if p := strings.Trim(path, "/"); p != "" {
		endpoint += "/" + p
	}
	return endpoint + "?" + url.Values{"url": {sourceURL}}.Encode()
}

func sameURL(a, b string) bool {
	return strings.TrimRight(strings.TrimSpace(a), "/") == strings.TrimRight(strings.TrimSpace(b), "/")
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
