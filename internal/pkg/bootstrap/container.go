// Package bootstrap wires the services shared by the PlugSync binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PlugSync/app/repository"
	"github.com/ManuelReschke/PlugSync/internal/pkg/archive"
	"github.com/ManuelReschke/PlugSync/internal/pkg/cache"
	"github.com/ManuelReschke/PlugSync/internal/pkg/config"
	"github.com/ManuelReschke/PlugSync/internal/pkg/database"
	"github.com/ManuelReschke/PlugSync/internal/pkg/env"
	"github.com/ManuelReschke/PlugSync/internal/pkg/events"
	"github.com/ManuelReschke/PlugSync/internal/pkg/hub"
	"github.com/ManuelReschke/PlugSync/internal/pkg/i18n"
	"github.com/ManuelReschke/PlugSync/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PlugSync/internal/pkg/mail"
	"github.com/ManuelReschke/PlugSync/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/PlugSync/internal/pkg/orders"
	"github.com/ManuelReschke/PlugSync/internal/pkg/platform"
	"github.com/ManuelReschke/PlugSync/internal/pkg/plug"
	"github.com/ManuelReschke/PlugSync/internal/pkg/webhook"
)

// Container holds the wired services of one process
type Container struct {
	Config     *config.ModuleConfig
	DB         *gorm.DB
	Repos      *repository.Repositories
	I18n       *i18n.Localizer
	Platforms  *platform.Loader
	Orders     *orders.Service
	Dispatcher *webhook.Dispatcher
	Hub        *hub.Manager
	Queue      *jobqueue.Queue
	Scheduler  *jobqueue.Scheduler
	Events     events.Publisher
	Archive    archive.Archiver
	Counter    *counter.Counter

	closers []func()
}

// Options selects optional parts of the container
type Options struct {
	// Workers is the job queue worker count; only cmd/worker starts them
	Workers int
}

// New loads the environment and builds every service. Database and cache
// are the package-level connections set up here.
func New(ctx context.Context, opts Options) (*Container, error) {
	env.SetupEnvFile()

	cfg, err := config.LoadModuleConfig()
	if err != nil {
		return nil, fmt.Errorf("load module config: %w", err)
	}

	database.SetupDatabase()
	cache.SetupCache()

	c := &Container{
		Config: cfg,
		DB:     database.GetDB(),
		Repos:  repository.NewRepositories(database.GetDB()),
		I18n:   i18n.New(cfg.StoreLocale),
	}

	if err := hub.RestoreState(ctx, c.Repos.Setting, cfg); err != nil {
		log.Warnf("[Bootstrap] Could not restore hub state: %v", err)
	}

	c.Events = newPublisher(c)
	c.Archive = newArchive(ctx)

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	c.Queue = jobqueue.NewQueue(cache.GetClient(), workers)
	c.Scheduler = jobqueue.NewScheduler(c.Queue)
	c.Counter = counter.NewWebhookCounter(cache.GetClient())

	c.Platforms = platform.NewLoader(c.Repos.PlatformOrder, mail.NewSMTPMailerFromEnv(), c.I18n)
	c.Orders = orders.NewService(orders.Dependencies{
		Config:    cfg,
		Orders:    c.Repos.Order,
		Charges:   c.Repos.Charge,
		Client:    plug.NewHTTPClient(cfg),
		Platforms: c.Platforms,
		I18n:      c.I18n,
		Events:    c.Events,
		Scheduler: c.Scheduler,
	})

	c.Dispatcher = webhook.NewDispatcher(
		webhook.NewOrderHandler(c.Orders, c.I18n),
		webhook.NewChargeHandler(c.Orders, c.I18n),
		webhook.NewSubscriptionHandler(c.Repos.Subscription, c.Platforms, c.I18n),
	)

	c.Hub = hub.NewManager(cfg, c.Repos.InstallToken, hub.NewHTTPClient(cfg), hub.NewCommandFactory(c.Repos.Setting, cfg))

	return c, nil
}

// Close releases the connections opened by New
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func newPublisher(c *Container) events.Publisher {
	url := env.GetEnv("RABBITMQ_URL", "")
	if url == "" {
		log.Info("[Bootstrap] RABBITMQ_URL not set, order events are not published")
		return events.Nop{}
	}

	publisher, err := events.NewRabbitMQPublisher(events.RabbitMQConfig{
		URL:      url,
		Exchange: env.GetEnv("RABBITMQ_EXCHANGE", ""),
	})
	if err != nil {
		log.Errorf("[Bootstrap] RabbitMQ unavailable, order events are not published: %v", err)
		return events.Nop{}
	}
	c.closers = append(c.closers, publisher.Close)
	return publisher
}

func newArchive(ctx context.Context) archive.Archiver {
	cfg, err := archive.LoadConfig()
	if err != nil {
		log.Errorf("[Bootstrap] Invalid archive config: %v", err)
		return nil
	}
	if !cfg.IsEnabled() {
		return nil
	}

	client, err := archive.NewClient(ctx, cfg)
	if err != nil {
		log.Errorf("[Bootstrap] Webhook archive unavailable: %v", err)
		return nil
	}
	return client
}
