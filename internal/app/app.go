// Package app assembles the sales assistant from configuration. Both the API
// server and salesctl build their pipeline through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/capitalize-ai/sales-assistant/internal/catalog"
	"github.com/capitalize-ai/sales-assistant/internal/config"
	"github.com/capitalize-ai/sales-assistant/internal/dialogue"
	"github.com/capitalize-ai/sales-assistant/internal/jobs"
	"github.com/capitalize-ai/sales-assistant/internal/llm"
	natsclient "github.com/capitalize-ai/sales-assistant/internal/nats"
	"github.com/capitalize-ai/sales-assistant/internal/order"
	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/internal/session"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/internal/transport"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

const probeTimeout = 10 * time.Second

// App holds the wired components.
type App struct {
	Config     *config.Config
	Store      store.Gateway
	LLM        *llm.Service
	Sessions   *session.Store
	Orders     *order.Manager
	Controller *dialogue.Controller
	Dispatcher *dialogue.Dispatcher

	// Optional integrations; nil when disabled.
	NATS   *natsclient.Client
	Stream *natsclient.StreamManager
	Redis  *redis.Client

	log      *logger.Logger
	logs     store.ConversationLogs
	sweeper  *session.Sweeper
	worker   *jobs.Worker
	probeErr error
	started  time.Time
	bg       errgroup.Group
}

// Options tune how the pipeline is assembled.
type Options struct {
	// LLMClient replaces the provider built from configuration.
	LLMClient llm.Client
	// Store replaces the gateway built from configuration.
	Store store.Gateway
	// SkipIntegrations disables NATS and Redis regardless of configuration.
	SkipIntegrations bool
}

// OpenStore opens the configured persistence gateway and seeds the sample
// catalog when enabled.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Gateway, error) {
	var gw store.Gateway
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, err := store.ConnectPostgres(ctx, store.PostgresConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpen,
			MaxIdleConns:    cfg.DBMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxAge,
		})
		if err != nil {
			return nil, err
		}
		gw = pg
	case config.StoreMemory, "":
		gw = store.NewMemory()
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.SeedCatalog {
		n, err := store.SeedIfEmpty(ctx, gw)
		if err != nil {
			_ = gw.Close()
			return nil, err
		}
		if n > 0 {
			log.Info("sample catalog seeded", zap.Int("products", n))
		}
	}
	return gw, nil
}

// New builds the pipeline. Call Start to run background work and Close to
// release everything.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, log: log, started: time.Now()}

	gw := opts.Store
	if gw == nil {
		var err error
		if gw, err = OpenStore(ctx, cfg, log); err != nil {
			return nil, err
		}
	}
	a.Store = gw
	a.logs = gw

	if err := a.buildLLM(ctx, opts.LLMClient); err != nil {
		a.Close()
		return nil, err
	}

	inventory, err := newInventory(cfg.StockStrategy, gw)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Orders = order.NewManager(gw, inventory, order.Config{
		PurchaseKeyword: cfg.PurchaseKeyword,
		HistoryCommand:  cfg.HistoryCommand,
	}, log)

	if !opts.SkipIntegrations {
		if err := a.connectRedis(ctx); err != nil {
			a.Close()
			return nil, err
		}
		if err := a.connectNATS(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Sessions = session.NewStore()
	a.sweeper, err = session.NewSweeper(a.Sessions, cfg.SweepInterval, cfg.SessionIdleTimeout, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Controller = dialogue.NewController(dialogue.Deps{
		Sessions:  a.Sessions,
		Extractor: dialogue.NewExtractor(a.LLM, cfg.ExtractionHistory, log),
		Generator: dialogue.NewGenerator(a.LLM, cfg.PurchaseKeyword),
		Matcher:   catalog.NewMatcher(gw),
		Orders:    a.Orders,
		Logs:      a.logs,
		Logger:    log,
	})
	a.Dispatcher = dialogue.NewDispatcher(a.Controller)

	return a, nil
}

func (a *App) buildLLM(ctx context.Context, client llm.Client) error {
	cfg := a.Config
	if client == nil {
		provider, err := llm.ParseProvider(cfg.LLMProvider)
		if err != nil {
			return err
		}
		client, err = llm.NewClient(llm.ProviderConfig{
			Provider:        provider,
			OpenAIAPIKey:    cfg.OpenAIAPIKey,
			OpenAIBaseURL:   cfg.AIURL,
			AnthropicAPIKey: cfg.AnthropicAPIKey,
		})
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
	}

	a.LLM = llm.NewService(client, llm.ServiceConfig{
		Model:       cfg.AIModel,
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if _, err := a.LLM.Probe(probeCtx); err != nil {
		a.probeErr = err
		a.log.Warn("language model not reachable, replies will apologize until it is",
			zap.String("provider", client.Name()), zap.Error(err))
	} else {
		a.log.Info("language model reachable", zap.String("provider", client.Name()))
	}
	return nil
}

func newInventory(strategy string, gw store.Gateway) (order.Inventory, error) {
	switch strategy {
	case config.StockAtomic, "":
		return order.NewAtomicInventory(gw), nil
	case config.StockOptimistic:
		swapper, ok := gw.(order.StockSwapper)
		if !ok {
			return nil, errors.New("store does not support compare-and-set stock updates")
		}
		return order.NewOptimisticInventory(swapper, order.DefaultSwapAttempts), nil
	default:
		return nil, fmt.Errorf("unknown stock strategy %q", strategy)
	}
}

func (a *App) connectRedis(ctx context.Context) error {
	cfg := a.Config
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb, err := jobs.ConnectRedis(ctx, jobs.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	a.Redis = rdb

	a.Orders.SetNotifier(jobs.NewPublisher(rdb, cfg.RedisQueue))
	a.worker = jobs.NewWorker(rdb, cfg.RedisQueue, nil, a.log)
	a.log.Info("order events enabled", zap.String("queue", cfg.RedisQueue))
	return nil
}

func (a *App) connectNATS(ctx context.Context) error {
	cfg := a.Config
	if !cfg.NATSEnabled {
		return nil
	}

	client, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, a.log)
	if err != nil {
		return err
	}
	a.NATS = client

	stream := natsclient.NewStreamManager(client)
	if err := stream.EnsureStream(ctx); err != nil {
		return err
	}
	a.Stream = stream
	a.logs = natsclient.NewLogFanout(a.Store, stream, a.log)
	return nil
}

// Start runs the sweeper, the order-event worker and, when NATS is enabled,
// the NATS transport. Background work stops when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.sweeper.Start()

	if a.worker != nil {
		a.bg.Go(func() error {
			if err := a.worker.Run(ctx); err != nil {
				a.log.Error("order event worker stopped", zap.Error(err))
			}
			return nil
		})
	}

	if a.NATS != nil {
		runner := transport.NewRunner(natsclient.NewTransport(a.NATS, a.log), a.Dispatcher, a.log)
		a.bg.Go(func() error {
			if err := runner.Run(ctx); err != nil {
				a.log.Error("NATS transport stopped", zap.Error(err))
			}
			return nil
		})
	}
}

// RunConsole drives the pipeline from a local transport until ctx is done or
// the transport closes.
func (a *App) RunConsole(ctx context.Context, t transport.Transport) error {
	return transport.NewRunner(t, a.Dispatcher, a.log).Run(ctx)
}

// StatusService reports sessions, uptime and the state of every dependency.
func (a *App) StatusService() *service.StatusService {
	status := service.NewStatusService(a.Sessions, a.started)
	status.AddCheck("store", a.Store.Ping)
	status.AddCheck("llm", func(context.Context) error { return a.probeErr })
	if a.NATS != nil {
		status.AddCheck("nats", a.NATS.Check)
	}
	if a.Redis != nil {
		status.AddCheck("redis", func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		})
	}
	return status
}

// ConversationService reads conversation logs, from the stream when present.
func (a *App) ConversationService() *service.ConversationService {
	return service.NewConversationService(a.Store, a.Stream)
}

// Close drains queued messages and releases every connection. Cancel the
// context given to Start first.
func (a *App) Close() {
	if a.Dispatcher != nil {
		a.Dispatcher.Close()
	}
	if a.Controller != nil {
		a.Controller.Wait()
	}
	if a.sweeper != nil {
		a.sweeper.Stop()
	}
	_ = a.bg.Wait()

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.NATS != nil {
		a.NATS.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.log.Warn("failed to close store", zap.Error(err))
		}
	}
}
