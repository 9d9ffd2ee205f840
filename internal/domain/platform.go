package domain

import (
	"net/url"
	"strings"
)

// Platform represents the source platform of a media URL
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter" // X/Twitter
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformGDrive    Platform = "gdrive" // Google Drive
)

type hostPatterns struct {
	platform Platform
	hosts    []string
}

// platformHosts lists hostname patterns per platform in detection priority order.
// A host matches a pattern when it equals the pattern or is a subdomain of it.
var platformHosts = []hostPatterns{
	{PlatformYouTube, []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{PlatformTwitter, []string{"twitter.com", "x.com"}},
	{PlatformTikTok, []string{"tiktok.com"}},
	{PlatformFacebook, []string{"facebook.com", "fb.watch", "fb.com"}},
	{PlatformInstagram, []string{"instagram.com", "instagr.am"}},
	{PlatformGDrive, []string{"drive.google.com", "docs.google.com"}},
}

var platformAliases = map[string]Platform{
	"x":           PlatformTwitter,
	"yt":          PlatformYouTube,
	"fb":          PlatformFacebook,
	"ig":          PlatformInstagram,
	"drive":       PlatformGDrive,
	"googledrive": PlatformGDrive,
}

// AllPlatforms returns the supported platforms in detection priority order
func AllPlatforms() []Platform {
	platforms := make([]Platform, 0, len(platformHosts))
	for _, ph := range platformHosts {
		platforms = append(platforms, ph.platform)
	}
	return platforms
}

// DetectPlatform detects the platform from a URL's hostname.
// Returns an empty platform when no pattern matches.
func DetectPlatform(rawURL string) Platform {
	return matchHost(platformHosts, hostOf(rawURL))
}

// matchHost returns the platform of the first entry in table with a pattern
// matching host
func matchHost(table []hostPatterns, host string) Platform {
	if host == "" {
		return ""
	}

	for _, ph := range table {
		for _, pattern := range ph.hosts {
			if host == pattern || strings.HasSuffix(host, "."+pattern) {
				return ph.platform
			}
		}
	}
	return ""
}

// NormalizePlatform trims and lowercases an explicit platform hint and resolves aliases.
// The result is not guaranteed to be a supported platform; use ValidatePlatform.
func NormalizePlatform(hint string) Platform {
	p := strings.ToLower(strings.TrimSpace(hint))
	if alias, ok := platformAliases[p]; ok {
		return alias
	}
	return Platform(p)
}

// ValidatePlatform checks if a platform is supported
func ValidatePlatform(platform Platform) bool {
	for _, ph := range platformHosts {
		if ph.platform == platform {
			return true
		}
	}
	return false
}

// ResolvePlatform picks the platform for a request: an explicit hint wins over detection.
func ResolvePlatform(rawURL, hint string) (Platform, error) {
	if strings.TrimSpace(hint) != "" {
		platform := NormalizePlatform(hint)
		if !ValidatePlatform(platform) {
			return platform, NewResolveError(KindUnsupportedPlatform, StageValidated, platform, nil)
		}
		return platform, nil
	}

	platform := DetectPlatform(rawURL)
	if platform == "" {
		return "", NewResolveError(KindUnsupportedPlatform, StageValidated, "", nil)
	}
	return platform, nil
}

// hostOf extracts the lowercased hostname, assuming https when the scheme is missing
func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}
