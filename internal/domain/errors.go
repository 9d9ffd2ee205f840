package domain

import (
	"errors"
	"net/http"
)

// ErrorKind classifies why a resolve request failed
type ErrorKind string

const (
	KindMissingInput        ErrorKind = "missing_input"
	KindUnsupportedPlatform ErrorKind = "unsupported_platform"
	KindExtractionFailed    ErrorKind = "extraction_failed"
	KindUpstreamUnreachable ErrorKind = "upstream_unreachable"
	KindRelayFailed         ErrorKind = "relay_failed"
	KindMethodNotAllowed    ErrorKind = "method_not_allowed"
	KindInternal            ErrorKind = "internal"
)

// HTTPStatus maps an error kind to the response status code
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindMissingInput, KindUnsupportedPlatform:
		return http.StatusBadRequest
	case KindExtractionFailed:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message for a kind
func (k ErrorKind) Message() string {
	switch k {
	case KindMissingInput:
		return "Missing url parameter"
	case KindUnsupportedPlatform:
		return "Unsupported platform"
	case KindExtractionFailed:
		return "Unable to extract video URL"
	case KindUpstreamUnreachable:
		return "Upstream request failed"
	case KindRelayFailed:
		return "Relay upload failed"
	case KindMethodNotAllowed:
		return "Method not allowed"
	default:
		return "Internal server error"
	}
}

// Stage is a step of the resolve pipeline:
// Idle → Validated → PlatformResolved → UpstreamFetched → Extracted → Relayed → Responded
type Stage string

const (
	StageIdle             Stage = "idle"
	StageValidated        Stage = "validated"
	StagePlatformResolved Stage = "platform_resolved"
	StageUpstreamFetched  Stage = "upstream_fetched"
	StageExtracted        Stage = "extracted"
	StageRelayed          Stage = "relayed"
	StageResponded        Stage = "responded"
)

// ResolveError is a terminal failure of a resolve request
type ResolveError struct {
	Kind     ErrorKind
	Stage    Stage    // last stage reached before failing
	Platform Platform // empty when not yet known
	Err      error
}

// NewResolveError creates a new resolve error
func NewResolveError(kind ErrorKind, stage Stage, platform Platform, err error) *ResolveError {
	return &ResolveError{
		Kind:     kind,
		Stage:    stage,
		Platform: platform,
		Err:      err,
	}
}

func (e *ResolveError) Error() string {
	if e.Err == nil {
		return e.Kind.Message()
	}
	return e.Kind.Message() + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a resolve error, or KindInternal for any other error
func KindOf(err error) ErrorKind {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindInternal
}
