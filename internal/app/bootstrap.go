package app

import (
	"fmt"

	"github.com/yourusername/media-resolve-go/internal/domain"
	"github.com/yourusername/media-resolve-go/internal/infrastructure"
	"github.com/yourusername/media-resolve-go/pkg/logger"
)

// NewServiceFromConfig wires resolvers, the optional relay and the optional
// audit trail. The returned cleanup closes the audit database.
func NewServiceFromConfig(config *domain.Config, logAdapter *logger.LoggerAdapter) (*ResolveService, func() error, error) {
	if logAdapter == nil {
		logAdapter = logger.NewSingleLoggerAdapter(nil)
	}
	cleanup := func() error { return nil }

	client := infrastructure.NewUpstreamClient(&config.Upstream, logAdapter.Resolve())
	resolvers := infrastructure.NewResolvers(&config.Upstream, client, logAdapter.Resolve())

	var relay domain.Relay
	if config.Relay.Enabled {
		var err error
		relay, err = infrastructure.NewRelay(&config.Relay, client, logAdapter.Resolve())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create relay: %w", err)
		}
	}

	var repo domain.ResolutionRepository
	if config.History.Enabled {
		sqliteRepo, err := infrastructure.NewSQLiteResolutionRepository(config.History.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		repo = sqliteRepo
		cleanup = sqliteRepo.Close
	}

	return NewResolveService(resolvers, relay, config.Relay, repo, logAdapter), cleanup, nil
}
