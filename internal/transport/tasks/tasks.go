package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/pkg/application/modules"
	"flea_market/pkg/contextx"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const (
	TypeTraderSync = "ragfair:trader_sync"

	QueueDefault = "default"

	uniqueFor  = time.Minute
	maxRetries = 3
)

type TraderSyncPayload struct {
	TraderID string `json:"traderId"`
}

func NewTraderSyncTask(traderID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TraderSyncPayload{TraderID: traderID})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeTraderSync, payload), nil
}

type Client interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer ставит задачи синхронизации торговцев в очередь asynq.
type Enqueuer struct {
	client Client
}

func NewEnqueuer(client Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueTraderSync schedules a sync. A sync already queued for the same
// trader within a minute is not duplicated.
func (e *Enqueuer) EnqueueTraderSync(ctx context.Context, traderID string) error {
	task, err := NewTraderSyncTask(traderID)
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(QueueDefault),
		asynq.Unique(uniqueFor),
		asynq.MaxRetry(maxRetries),
	)

	switch {
	case errors.Is(err, asynq.ErrDuplicateTask):
		logger(ctx).Debug("trader sync already queued", slog.String(logx.FieldTraderID, traderID))
		return nil
	case err != nil:
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return nil
}

type TraderSyncer interface {
	SyncTraderOffers(ctx context.Context, traderID string) (int, error)
}

type Handler struct {
	syncer TraderSyncer
	events chan<- entity.MarketEvent
	now    func() time.Time
}

func NewHandler(syncer TraderSyncer) *Handler {
	return &Handler{
		syncer: syncer,
		now:    time.Now,
	}
}

func (h *Handler) WithEvents(events chan<- entity.MarketEvent) *Handler {
	h.events = events
	return h
}

func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Handlers() []modules.AsynqHandler {
	return []modules.AsynqHandler{
		{Pattern: TypeTraderSync, Handle: h.HandleTraderSync},
	}
}

func (h *Handler) HandleTraderSync(ctx context.Context, task *asynq.Task) error {
	var payload TraderSyncPayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	if payload.TraderID == "" {
		return fmt.Errorf("empty trader id: %w", asynq.SkipRetry)
	}

	l := logger(ctx).With(
		slog.String(logx.FieldTaskType, task.Type()),
		slog.String(logx.FieldTraderID, payload.TraderID),
	)

	created, err := h.syncer.SyncTraderOffers(ctx, payload.TraderID)
	if err != nil {
		l.Error("trader sync failed", logx.Error(err))
		h.emit(ctx, entity.MarketEvent{
			Kind:     entity.MarketEventTraderSyncFailed,
			TraderID: payload.TraderID,
			Err:      err,
			At:       h.now(),
		})

		// пустой ассортимент повтором не исправить
		if domain.HasCode(err, errcodes.TraderAssortEmpty) {
			return fmt.Errorf("syncer.SyncTraderOffers: %w: %w", err, asynq.SkipRetry)
		}

		return fmt.Errorf("syncer.SyncTraderOffers: %w", err)
	}

	h.emit(ctx, entity.MarketEvent{
		Kind:     entity.MarketEventTraderSynced,
		TraderID: payload.TraderID,
		Created:  created,
		At:       h.now(),
	})

	return nil
}

func (h *Handler) emit(ctx context.Context, ev entity.MarketEvent) {
	if h.events == nil {
		return
	}

	select {
	case h.events <- ev:
	case <-ctx.Done():
	}
}
