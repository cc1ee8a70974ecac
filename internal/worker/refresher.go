package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/ragfair"
	"flea_market/internal/domain/value"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultInterval = time.Minute

type PriceRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

type OfferStore interface {
	TakeExpired(ctx context.Context, now int64) []entity.Offer
}

type Archiver interface {
	Archive(ctx context.Context, offers ...entity.Offer) error
}

type Generator interface {
	GenerateOffers(ctx context.Context, bundles [][]entity.Item, isRefreshOfExpired bool) (ragfair.Result, error)
	SyncTraderOffers(ctx context.Context, traderID string) (int, error)
}

type TraderClock interface {
	TraderIDs() []string
	Base(traderID string) (entity.TraderBase, bool)
	Resupply(traderID string, now, interval int64) (int64, bool)
}

// SyncScheduler откладывает синхронизацию торговца в очередь задач.
type SyncScheduler interface {
	EnqueueTraderSync(ctx context.Context, traderID string) error
}

// CycleResult - итог одного прохода обновления.
type CycleResult struct {
	PricesUpdated int
	Expired       int
	Regenerated   int
	Resupplied    []string
}

// OfferRefresher periodically replaces expired offers and resupplies traders.
type OfferRefresher struct {
	generator Generator
	store     OfferStore
	traders   TraderClock

	prices    PriceRefresher
	archive   Archiver
	scheduler SyncScheduler
	events    chan<- entity.MarketEvent

	interval       time.Duration
	traderInterval int64
	now            func() time.Time

	mu         sync.Mutex
	traderIDs  []string
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewOfferRefresher(generator Generator, store OfferStore, traders TraderClock) *OfferRefresher {
	return &OfferRefresher{
		generator:      generator,
		store:          store,
		traders:        traders,
		interval:       defaultInterval,
		traderInterval: int64(time.Hour / time.Second),
		now:            time.Now,
	}
}

func (w *OfferRefresher) WithInterval(interval time.Duration) *OfferRefresher {
	if interval > 0 {
		w.interval = interval
	}

	return w
}

// WithTraderUpdate sets the resupply period in seconds.
func (w *OfferRefresher) WithTraderUpdate(seconds int) *OfferRefresher {
	if seconds > 0 {
		w.traderInterval = int64(seconds)
	}

	return w
}

func (w *OfferRefresher) WithPriceRefresher(p PriceRefresher) *OfferRefresher {
	w.prices = p
	return w
}

func (w *OfferRefresher) WithArchive(a Archiver) *OfferRefresher {
	w.archive = a
	return w
}

// WithScheduler makes trader syncs go through the task queue instead of
// running inline.
func (w *OfferRefresher) WithScheduler(s SyncScheduler) *OfferRefresher {
	w.scheduler = s
	return w
}

func (w *OfferRefresher) WithEvents(events chan<- entity.MarketEvent) *OfferRefresher {
	w.events = events
	return w
}

func (w *OfferRefresher) WithClock(now func() time.Time) *OfferRefresher {
	w.now = now
	return w
}

func (w *OfferRefresher) WithTraders(ids ...string) *OfferRefresher {
	w.SetTraders(ids)
	return w
}

func (w *OfferRefresher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("refresher is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("refresher stopped with error", logx.Error(err))
		}
	}()

	return nil
}

func (w *OfferRefresher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *OfferRefresher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

// Run blocks until ctx is done, running one cycle per interval.
func (w *OfferRefresher) Run(ctx context.Context) error {
	logger(ctx).Info("offer refresher started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("offer refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single refresh cycle.
func (w *OfferRefresher) RunOnce(ctx context.Context) CycleResult {
	var res CycleResult

	if w.prices != nil {
		n, err := w.prices.Refresh(ctx)
		if err != nil {
			logger(ctx).Warn("live prices not refreshed", logx.Error(err))
		}

		res.PricesUpdated = n
	}

	now := w.now()

	res.Expired, res.Regenerated = w.replaceExpired(ctx, now)
	res.Resupplied = w.resupplyTraders(ctx, now)

	if res.Expired > 0 || len(res.Resupplied) > 0 {
		logger(ctx).Info(
			"refresh cycle completed",
			slog.Int("expired", res.Expired),
			slog.Int("regenerated", res.Regenerated),
			slog.Int("resupplied", len(res.Resupplied)),
		)
	}

	return res
}

func (w *OfferRefresher) replaceExpired(ctx context.Context, now time.Time) (int, int) {
	expired := w.store.TakeExpired(ctx, now.Unix())
	if len(expired) == 0 {
		return 0, 0
	}

	if w.archive != nil {
		if err := w.archive.Archive(ctx, expired...); err != nil {
			logger(ctx).Error("expired offers not archived", slog.Int(logx.FieldCount, len(expired)), logx.Error(err))
		}
	}

	// торговцы обновляются по расписанию, игроки выставляют лоты сами
	bundles := make([][]entity.Item, 0, len(expired))

	for _, o := range expired {
		if o.Seller.Kind != value.SellerKindSimulated || len(o.Items) == 0 {
			continue
		}

		bundles = append(bundles, o.Items)
	}

	created := 0

	if len(bundles) > 0 {
		res, err := w.generator.GenerateOffers(ctx, bundles, true)
		if err != nil {
			logger(ctx).Error("expired offers not regenerated", logx.Error(err))
		}

		created = res.Created
	}

	w.emit(ctx, entity.MarketEvent{
		Kind:    entity.MarketEventExpired,
		Removed: len(expired),
		Created: created,
		At:      now,
	})

	return len(expired), created
}

func (w *OfferRefresher) resupplyTraders(ctx context.Context, now time.Time) []string {
	ids := w.GetTraders()
	if len(ids) == 0 {
		ids = w.traders.TraderIDs()
	}

	var resupplied []string

	for _, id := range ids {
		if ctx.Err() != nil {
			return resupplied
		}

		base, ok := w.traders.Base(id)
		if !ok || base.NextResupply > now.Unix() {
			continue
		}

		next, _ := w.traders.Resupply(id, now.Unix(), w.traderInterval)

		logger(ctx).Debug(
			"trader resupplied",
			slog.String(logx.FieldTraderID, id),
			slog.Int64("next-resupply", next),
		)

		resupplied = append(resupplied, id)

		w.syncTrader(ctx, id, now)
	}

	return resupplied
}

func (w *OfferRefresher) syncTrader(ctx context.Context, traderID string, now time.Time) {
	if w.scheduler != nil {
		err := w.scheduler.EnqueueTraderSync(ctx, traderID)
		if err == nil {
			return
		}

		logger(ctx).Warn(
			"trader sync not queued, running inline",
			slog.String(logx.FieldTraderID, traderID),
			logx.Error(err),
		)
	}

	created, err := w.generator.SyncTraderOffers(ctx, traderID)
	if err != nil {
		w.emit(ctx, entity.MarketEvent{
			Kind:     entity.MarketEventTraderSyncFailed,
			TraderID: traderID,
			Err:      err,
			At:       now,
		})

		return
	}

	w.emit(ctx, entity.MarketEvent{
		Kind:     entity.MarketEventTraderSynced,
		TraderID: traderID,
		Created:  created,
		At:       now,
	})
}

func (w *OfferRefresher) emit(ctx context.Context, ev entity.MarketEvent) {
	if w.events == nil {
		return
	}

	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}
