package app

import (
	"errors"

	"github.com/haitham-akram/prestige-designs-sub004/internal/cache"
	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"
	"github.com/haitham-akram/prestige-designs-sub004/internal/provider"
	"github.com/haitham-akram/prestige-designs-sub004/internal/router"
	"github.com/haitham-akram/prestige-designs-sub004/internal/worker"
)

// BuildRunner assembles the services selected by mode.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if enabled, err := cache.Init(&cfg.Redis); err != nil {
		logger.Warnw("redis_init_failed", "error", err)
	} else if !enabled {
		logger.Infow("redis_disabled")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(
				container.OrderRepo,
				container.GrantRepo,
				container.FulfillmentSvc,
				container.EmailSvc,
				container.NotificationSvc,
			)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else if mode == ModeWorker {
			return nil, errors.New("worker mode requires queue.enabled")
		} else {
			logger.Warnw("queue_disabled_worker_skipped")
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run is the application entry point.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
