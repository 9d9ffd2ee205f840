package infrastructure

import (
	"context"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

// YouTubeResolver resolves YouTube URLs in two hops: the downloader API
// returns a media item reference, and the reference returns the file URL.
type YouTubeResolver struct {
	*UpstreamResolver
	fileChain []Extractor
}

// NewYouTubeResolver creates a new YouTube resolver
func NewYouTubeResolver(config *domain.UpstreamConfig, client *UpstreamClient, logger *zap.Logger) *YouTubeResolver {
	return &YouTubeResolver{
		UpstreamResolver: NewUpstreamResolver(domain.PlatformYouTube, config, client, logger),
		fileChain:        youtubeFileRules,
	}
}

// Resolve runs both hops
func (r *YouTubeResolver) Resolve(ctx context.Context, sourceURL string) (string, error) {
	mediaItemURL, err := r.UpstreamResolver.Resolve(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	r.logger.Debug("Fetching YouTube media item", zap.String("media_item", mediaItemURL))

	doc, err := r.client.GetJSON(ctx, mediaItemURL)
	if err != nil {
		return "", r.fetchError(err, domain.StageUpstreamFetched)
	}

	fileURL, ok := ExtractFirst(doc, r.fileChain)
	if !ok {
		return "", domain.NewResolveError(domain.KindExtractionFailed, domain.StageUpstreamFetched, r.platform, nil)
	}
	return fileURL, nil
}
