package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/infrastructure/archive"
	"flea_market/internal/infrastructure/gamedata"
	"flea_market/internal/infrastructure/monitoring"
	"flea_market/internal/infrastructure/notifier"
	"flea_market/internal/infrastructure/persistence"
	"flea_market/internal/infrastructure/pricefeed"
	"flea_market/internal/server"
	"flea_market/internal/transport/tasks"
	"flea_market/internal/worker"
	"flea_market/pkg/application/connectors"
	"flea_market/pkg/application/modules"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
	"flea_market/pkg/randx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	eventBuffer       = 100
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func Run(ctx context.Context) error { //nolint:funlen,cyclop
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	tuning, err := config.LoadTuning(cfg.Ragfair.TuningPath)
	if err != nil {
		return fmt.Errorf("config.LoadTuning: %w", err)
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	))

	// 2. Game data
	data, err := gamedata.Load(cfg.Ragfair.GameDataDir)
	if err != nil {
		return fmt.Errorf("gamedata.Load: %w", err)
	}

	logger(ctx).Info(
		"game data loaded",
		slog.Int("templates", len(data.AllTemplates())),
		slog.Int("presets", len(data.AllPresets())),
		slog.Int("traders", len(data.TraderIDs())),
	)

	rnd := randx.NewFromTime()
	if cfg.Ragfair.Seed != 0 {
		rnd = randx.New(cfg.Ragfair.Seed)
	}

	market := NewMarket(data, tuning, rnd)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := monitoring.NewCollector(registry, market.Store.Count)
	if err != nil {
		return fmt.Errorf("monitoring.NewCollector: %w", err)
	}

	market.Generator.WithObserver(collector)

	// 4. Database
	if cfg.Database.Enabled() {
		db, closeDB := openDatabase(ctx, cfg.Database)
		defer closeDB()

		if err = persistence.Migrate(ctx, db, cfg.Database.MigrationsDir); err != nil {
			return fmt.Errorf("persistence.Migrate: %w", err)
		}

		repo := persistence.NewOfferRepository(db)

		offers, err := repo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("repo.ListAll: %w", err)
		}

		market.Store.Restore(offers)
		market.Store.WithMirror(repo)
		market.Factory.WithSequenceStart(market.Store.MaxSequenceID())

		logger(ctx).Info("offers restored", slog.Int(logx.FieldCount, len(offers)))
	}

	refresher := worker.NewOfferRefresher(market.Generator, market.Store, data).
		WithInterval(tuning.RefreshInterval).
		WithTraderUpdate(tuning.TraderUpdateSeconds).
		WithPriceRefresher(market.Oracle).
		WithTraders(tuning.Traders...)

	// 5. Archive
	if cfg.Ragfair.ArchiveDir != "" {
		w := archive.NewWriter(cfg.Ragfair.ArchiveDir)
		defer w.Close() //nolint:errcheck

		refresher.WithArchive(w)
	}

	g, ctx := errgroup.WithContext(ctx)

	// 6. Notifier
	var events chan entity.MarketEvent

	if cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(
			cfg.Bot.Token,
			cfg.Bot.ChatID,
			telego.WithHTTPClient(notifier.NewHTTPClient(cfg.HTTP.LogFieldMaxLen)),
		)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		events = make(chan entity.MarketEvent, eventBuffer)
		refresher.WithEvents(events)

		g.Go(func() error {
			return ignoreCanceled(bot.Run(ctx, events))
		})
	}

	// 7. Redis: live prices and trader sync queue
	if cfg.Redis.Enabled() {
		rc := &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConns,
			MaxIdleConnections: cfg.Redis.MaxIdleConns,
		}
		defer rc.Close(ctx)

		market.Oracle.WithPriceFeed(pricefeed.NewRedis(rc.Client(ctx)), cfg.Ragfair.LivePriceTTL)

		queue := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DatabaseNumber,
		})
		defer queue.Close()

		refresher.WithScheduler(tasks.NewEnqueuer(queue))

		handler := tasks.NewHandler(market.Generator)
		if events != nil {
			handler.WithEvents(events)
		}

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DatabaseNumber,
			Concurrency:   tuning.Workers,
		}.Run(ctx, g, modules.AsynqQueues{tasks.QueueDefault: 1}, handler.Handlers()...)
	}

	// 8. Initial fill, then periodic refresh
	var ready atomic.Bool

	g.Go(func() error {
		warmUp(ctx, market, events)
		ready.Store(true)

		return ignoreCanceled(refresher.Run(ctx))
	})

	// 9. Servers
	modules.HTTPServer{ShutdownTimeout: shutdownTimeout}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           server.NewRouter(market.Server(), cfg.HTTP.LogFieldMaxLen),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Ready:         ready.Load,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

// warmUp syncs every trader and, when nothing was restored from the
// database, generates dynamic offers over every candidate bundle.
func warmUp(ctx context.Context, market *Market, events chan<- entity.MarketEvent) {
	if market.Store.Count() == 0 {
		res, err := market.Generator.GenerateOffers(ctx, market.Candidates(), false)
		if err != nil {
			logger(ctx).Error("initial generation failed", logx.Error(err))
		}

		send(ctx, events, entity.MarketEvent{
			Kind:    entity.MarketEventGenerated,
			Created: res.Created,
			Skipped: res.Skipped,
			At:      time.Now(),
		})
	}

	for _, traderID := range market.Data.TraderIDs() {
		created, err := market.Generator.SyncTraderOffers(ctx, traderID)
		if err != nil {
			send(ctx, events, entity.MarketEvent{
				Kind:     entity.MarketEventTraderSyncFailed,
				TraderID: traderID,
				Err:      err,
				At:       time.Now(),
			})

			continue
		}

		send(ctx, events, entity.MarketEvent{
			Kind:     entity.MarketEventTraderSynced,
			TraderID: traderID,
			Created:  created,
			At:       time.Now(),
		})
	}
}

func openDatabase(ctx context.Context, cfg config.Database) (*sqlx.DB, func()) {
	if cfg.Driver == config.DriverSQLite {
		conn := &connectors.SQLite{Path: cfg.DSN}
		return conn.Client(ctx), func() { conn.Close(ctx) }
	}

	conn := &connectors.Postgres{
		DSN:             cfg.DSN,
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	return conn.Client(ctx), func() { conn.Close(ctx) }
}

func send(ctx context.Context, events chan<- entity.MarketEvent, ev entity.MarketEvent) {
	if events == nil {
		return
	}

	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
