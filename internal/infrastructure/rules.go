package infrastructure

import "github.com/yourusername/media-resolve-go/internal/domain"

// Per-platform field fallback chains. Upstream payloads are inconsistent, so
// each chain lists every shape seen in the wild, most specific first.
var extractionRules = map[domain.Platform][]Extractor{
	domain.PlatformTwitter: Fields(
		"url", "hd", "sd",
		"data.url", "data.hd", "data.sd", "data",
	),
	domain.PlatformTikTok: Fields(
		"video", "hdplay", "play",
		"data.video", "data.hdplay", "data.play",
		"hd", "sd",
	),
	domain.PlatformFacebook: Fields(
		"hd", "sd",
		"data.hd", "data.sd",
		"url", "data.url",
		"links.HD", "links.SD",
	),
	domain.PlatformInstagram: Fields(
		"url", "video",
		"data.url", "data.video", "data",
		"result",
	),
	domain.PlatformGDrive: Fields(
		"download_url", "downloadUrl",
		"data.download_url", "data.downloadUrl",
		"url", "data.url",
	),
	// First YouTube hop: reference to the media item, fetched in a second request.
	domain.PlatformYouTube: Fields(
		"data.api.mediaItems.0.mediaUrl",
		"api.mediaItems.0.mediaUrl",
		"mediaItems.0.mediaUrl",
	),
}

// youtubeFileRules extract the final file URL from the media item response
var youtubeFileRules = Fields(
	"response.fileUrl",
	"data.response.fileUrl",
	"fileUrl",
	"data.fileUrl",
)

// ExtractorsFor returns the extraction chain of a platform
func ExtractorsFor(platform domain.Platform) []Extractor {
	return extractionRules[platform]
}
