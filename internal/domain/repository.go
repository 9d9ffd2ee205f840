package domain

import "errors"

// ErrResolutionNotFound is returned when no resolution has the requested ID
var ErrResolutionNotFound = errors.New("resolution not found")

// ResolutionRepository defines the interface for the resolution audit trail
type ResolutionRepository interface {
	// Create stores a new resolution record
	Create(resolution *Resolution) error

	// FindByID finds a resolution by ID
	FindByID(id string) (*Resolution, error)

	// FindRecent returns the newest resolutions first, with optional filters
	FindRecent(limit int, filters ResolutionFilter) ([]*Resolution, error)

	// GetStats returns resolution statistics
	GetStats() (*ResolutionStats, error)
}

// ResolutionFilter narrows FindRecent results. Zero values are ignored.
type ResolutionFilter struct {
	Platform Platform
	Success  *bool
}

// ResolutionStats represents resolution statistics
type ResolutionStats struct {
	Total      int64               `json:"total"`
	Succeeded  int64               `json:"succeeded"`
	Failed     int64               `json:"failed"`
	Relayed    int64               `json:"relayed"`
	ByPlatform map[Platform]int64  `json:"by_platform"`
	ByError    map[ErrorKind]int64 `json:"by_error"`
}
