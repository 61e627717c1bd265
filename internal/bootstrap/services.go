package bootstrap

import (
	"github.com/osse101/Credence_Go/internal/account"
	"github.com/osse101/Credence_Go/internal/commitment"
	"github.com/osse101/Credence_Go/internal/concurrency"
	"github.com/osse101/Credence_Go/internal/config"
	"github.com/osse101/Credence_Go/internal/event"
	"github.com/osse101/Credence_Go/internal/lifecycle"
	"github.com/osse101/Credence_Go/internal/repository"
	"github.com/osse101/Credence_Go/internal/resolution"
)

// Services holds the ledger services built on one store
type Services struct {
	Accounts    account.Service
	Commitments commitment.Service
	Resolutions resolution.Service
	Lifecycle   lifecycle.Service
}

// NewServices builds every service on store. publisher may be nil, in which
// case no events are emitted.
func NewServices(cfg *config.Config, store repository.Store, publisher *event.ResilientPublisher) *Services {
	// A nil *ResilientPublisher must reach the services as a nil interface
	var pub interface {
		commitment.Publisher
		lifecycle.Publisher
	}
	if publisher != nil {
		pub = publisher
	}

	return &Services{
		Accounts:    account.NewService(store, cfg.InitialGrantCU),
		Commitments: commitment.NewService(store, pub, concurrency.NewLockManager(), cfg.MaxCommitmentCU),
		Resolutions: resolution.NewService(store, pub, nil),
		Lifecycle: lifecycle.NewService(store, pub, lifecycle.CacheConfig{
			Size: cfg.LifecycleCacheSize,
			TTL:  cfg.LifecycleCacheTTL,
		}),
	}
}
