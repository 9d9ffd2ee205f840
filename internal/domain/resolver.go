package domain

import "context"

// Resolver defines the interface for platform-specific media URL resolvers
type Resolver interface {
	// Resolve turns a source URL into a direct media URL
	Resolve(ctx context.Context, sourceURL string) (string, error)

	// Platform returns the platform this resolver handles
	Platform() Platform
}

// Relay re-hosts a media file on a third-party file host
type Relay interface {
	// Relay downloads mediaURL and uploads it, returning the hosted URL
	Relay(ctx context.Context, mediaURL string) (string, error)

	// Provider returns the file host this relay uploads to
	Provider() RelayProvider
}
