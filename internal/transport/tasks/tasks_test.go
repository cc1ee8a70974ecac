package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/transport/tasks"
	"flea_market/pkg/errcodes"
)

type fakeClient struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (c *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	c.opts = append(c.opts, opts)

	if c.err != nil {
		return nil, c.err
	}

	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fakeSyncer struct {
	calls   []string
	created int
	err     error
}

func (s *fakeSyncer) SyncTraderOffers(_ context.Context, traderID string) (int, error) {
	s.calls = append(s.calls, traderID)
	return s.created, s.err
}

func TestEnqueueTraderSync(t *testing.T) {
	rq := require.New(t)

	client := &fakeClient{}

	rq.NoError(tasks.NewEnqueuer(client).EnqueueTraderSync(context.Background(), "prapor"))
	rq.Len(client.tasks, 1)
	rq.Equal(tasks.TypeTraderSync, client.tasks[0].Type())
	rq.JSONEq(`{"traderId":"prapor"}`, string(client.tasks[0].Payload()))

	var unique time.Duration

	for _, opt := range client.opts[0] {
		if opt.Type() == asynq.UniqueOpt {
			unique = opt.Value().(time.Duration)
		}
	}

	rq.Equal(time.Minute, unique)
}

func TestEnqueueTraderSyncErrors(t *testing.T) {
	rq := require.New(t)

	rq.NoError(tasks.NewEnqueuer(&fakeClient{err: asynq.ErrDuplicateTask}).
		EnqueueTraderSync(context.Background(), "prapor"))

	err := tasks.NewEnqueuer(&fakeClient{err: errors.New("redis down")}).
		EnqueueTraderSync(context.Background(), "prapor")
	rq.ErrorContains(err, "redis down")
}

func TestHandleTraderSync(t *testing.T) {
	rq := require.New(t)

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		payload   string
		syncErr   error
		wantErr   bool
		skipRetry bool
		calls     int
		event     entity.MarketEventKind
	}{
		{
			name:    "synced",
			payload: `{"traderId":"prapor"}`,
			calls:   1,
			event:   entity.MarketEventTraderSynced,
		},
		{
			name:      "broken payload",
			payload:   `{`,
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:      "empty trader",
			payload:   `{}`,
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:      "empty assort is not retried",
			payload:   `{"traderId":"prapor"}`,
			syncErr:   domain.NewError(errcodes.TraderAssortEmpty, "no assort"),
			wantErr:   true,
			skipRetry: true,
			calls:     1,
			event:     entity.MarketEventTraderSyncFailed,
		},
		{
			name:    "other failure is retried",
			payload: `{"traderId":"prapor"}`,
			syncErr: errors.New("boom"),
			wantErr: true,
			calls:   1,
			event:   entity.MarketEventTraderSyncFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			syncer := &fakeSyncer{created: 3, err: tc.syncErr}
			events := make(chan entity.MarketEvent, 1)

			h := tasks.NewHandler(syncer).WithEvents(events)
			h.WithClock(func() time.Time { return at })

			err := h.HandleTraderSync(context.Background(), asynq.NewTask(tasks.TypeTraderSync, []byte(tc.payload)))

			if tc.wantErr {
				rq.Error(err)
			} else {
				rq.NoError(err)
			}

			rq.Equal(tc.skipRetry, errors.Is(err, asynq.SkipRetry))
			rq.Len(syncer.calls, tc.calls)

			if tc.event == "" {
				rq.Empty(events)
				return
			}

			ev := <-events
			rq.Equal(tc.event, ev.Kind)
			rq.Equal("prapor", ev.TraderID)
			rq.Equal(at, ev.At)

			if tc.event == entity.MarketEventTraderSynced {
				rq.Equal(3, ev.Created)
			}
		})
	}
}

func TestHandlers(t *testing.T) {
	rq := require.New(t)

	handlers := tasks.NewHandler(&fakeSyncer{}).Handlers()
	rq.Len(handlers, 1)
	rq.Equal(tasks.TypeTraderSync, handlers[0].Pattern)
}
