package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"github.com/yourusername/media-resolve-go/pkg/logger"
	"go.uber.org/zap"
)

// ResolveService runs the resolve pipeline shared by the server, Lambda and CLI entrypoints
type ResolveService struct {
	resolvers   map[domain.Platform]domain.Resolver
	relay       domain.Relay
	relayConfig domain.RelayConfig
	repo        domain.ResolutionRepository
	logger      *logger.LoggerAdapter
}

// NewResolveService creates a new resolve service. relay and repo may be nil.
func NewResolveService(
	resolvers map[domain.Platform]domain.Resolver,
	relay domain.Relay,
	relayConfig domain.RelayConfig,
	repo domain.ResolutionRepository,
	logAdapter *logger.LoggerAdapter,
) *ResolveService {
	if logAdapter == nil {
		logAdapter = logger.NewSingleLoggerAdapter(nil)
	}
	return &ResolveService{
		resolvers:   resolvers,
		relay:       relay,
		relayConfig: relayConfig,
		repo:        repo,
		logger:      logAdapter,
	}
}

// Platforms returns the platforms with a registered resolver, in detection order
func (s *ResolveService) Platforms() []domain.Platform {
	var platforms []domain.Platform
	for _, p := range domain.AllPlatforms() {
		if _, ok := s.resolvers[p]; ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// RelayProvider returns the active relay provider, or "" when relaying is off
func (s *ResolveService) RelayProvider() domain.RelayProvider {
	if s.relay == nil || !s.relayConfig.Enabled {
		return ""
	}
	return s.relay.Provider()
}

// HistoryEnabled reports whether requests are recorded
func (s *ResolveService) HistoryEnabled() bool {
	return s.repo != nil
}

// Resolve turns a request into a direct media URL, relaying it when configured.
// Every failure is a *domain.ResolveError.
func (s *ResolveService) Resolve(ctx context.Context, req *domain.ResolveRequest) (*domain.ResolveResult, error) {
	start := time.Now()
	rawURL := strings.TrimSpace(req.URL)

	result, err := s.resolve(ctx, rawURL, req.Platform)
	latency := time.Since(start)

	if err != nil {
		s.logFailure(rawURL, err, latency)
	} else {
		s.logger.Resolve().Info("Resolve completed",
			zap.String("platform", string(result.Platform)),
			zap.String("url", rawURL),
			zap.Bool("relayed", result.RelayURL != ""),
			zap.Duration("latency", latency))
	}

	s.record(rawURL, result, err, latency)
	return result, err
}

func (s *ResolveService) resolve(ctx context.Context, rawURL, hint string) (*domain.ResolveResult, error) {
	if rawURL == "" {
		return nil, domain.NewResolveError(domain.KindMissingInput, domain.StageIdle, "", nil)
	}

	platform, err := domain.ResolvePlatform(rawURL, hint)
	if err != nil {
		return nil, err
	}

	resolver, ok := s.resolvers[platform]
	if !ok {
		return nil, domain.NewResolveError(domain.KindUnsupportedPlatform, domain.StageValidated, platform, nil)
	}

	mediaURL, err := resolver.Resolve(ctx, rawURL)
	if err != nil {
		var re *domain.ResolveError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, domain.NewResolveError(domain.KindUpstreamUnreachable, domain.StagePlatformResolved, platform, err)
	}

	result := &domain.ResolveResult{
		Platform:    platform,
		DownloadURL: mediaURL,
	}

	if s.relay != nil && s.relayConfig.RelaysPlatform(platform) {
		hosted, err := s.relay.Relay(ctx, mediaURL)
		if err != nil {
			return nil, domain.NewResolveError(domain.KindRelayFailed, domain.StageExtracted, platform, err)
		}
		result.RelayURL = hosted
		result.Relay = s.relay.Provider()
	}

	return result, nil
}

func (s *ResolveService) logFailure(rawURL string, err error, latency time.Duration) {
	fields := []zap.Field{
		zap.String("url", rawURL),
		zap.String("kind", string(domain.KindOf(err))),
		zap.Error(err),
		zap.Duration("latency", latency),
	}

	var re *domain.ResolveError
	if errors.As(err, &re) {
		fields = append(fields,
			zap.String("stage", string(re.Stage)),
			zap.String("platform", string(re.Platform)))
	}

	if domain.KindOf(err).HTTPStatus() >= 500 {
		s.logger.LogError(logger.CategoryResolve, "Resolve failed", fields...)
		return
	}
	s.logger.Resolve().Warn("Resolve rejected", fields...)
}

// record stores an audit row. Failures here never affect the response.
func (s *ResolveService) record(rawURL string, result *domain.ResolveResult, err error, latency time.Duration) {
	if s.repo == nil {
		return
	}

	resolution := domain.NewResolution(rawURL, "")
	if err != nil {
		resolution.MarkFailed(err, latency)
	} else {
		resolution.MarkSucceeded(result, latency)
	}

	if err := s.repo.Create(resolution); err != nil {
		s.logger.Resolve().Warn("Failed to record resolution",
			zap.String("id", resolution.ID),
			zap.Error(err))
	}
}

// History returns recent resolutions. Returns an error when the audit trail is disabled.
func (s *ResolveService) History(limit int, filter domain.ResolutionFilter) ([]*domain.Resolution, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.FindRecent(limit, filter)
}

// Resolution returns one audit row by ID
func (s *ResolveService) Resolution(id string) (*domain.Resolution, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.FindByID(id)
}

// Stats returns audit trail statistics
func (s *ResolveService) Stats() (*domain.ResolutionStats, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.GetStats()
}

// ErrHistoryDisabled is returned by history queries when no repository is configured
var ErrHistoryDisabled = errors.New("resolution history is disabled")
