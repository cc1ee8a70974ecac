package worker_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/ragfair"
	"flea_market/internal/domain/value"
	"flea_market/internal/worker"
)

const now = int64(1_700_000_000)

type fakeGenerator struct {
	mu       sync.Mutex
	bundles  [][]entity.Item
	refresh  []bool
	synced   []string
	syncErr  error
	genCalls int
}

func (g *fakeGenerator) GenerateOffers(_ context.Context, bundles [][]entity.Item, refresh bool) (ragfair.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.genCalls++
	g.bundles = append(g.bundles, bundles...)
	g.refresh = append(g.refresh, refresh)

	return ragfair.Result{Bundles: len(bundles), Created: len(bundles)}, nil
}

func (g *fakeGenerator) SyncTraderOffers(_ context.Context, traderID string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.synced = append(g.synced, traderID)

	return 2, g.syncErr
}

type fakeStore struct {
	offers []entity.Offer
	asked  int64
}

func (s *fakeStore) TakeExpired(_ context.Context, at int64) []entity.Offer {
	s.asked = at

	var out []entity.Offer

	s.offers = slices.DeleteFunc(s.offers, func(o entity.Offer) bool {
		if o.IsExpired(at) {
			out = append(out, o)
			return true
		}

		return false
	})

	return out
}

type fakeTraders struct {
	bases map[string]entity.TraderBase
}

func (t *fakeTraders) TraderIDs() []string {
	ids := make([]string, 0, len(t.bases))
	for id := range t.bases {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

func (t *fakeTraders) Base(id string) (entity.TraderBase, bool) {
	b, ok := t.bases[id]
	return b, ok
}

func (t *fakeTraders) Resupply(id string, at, interval int64) (int64, bool) {
	b, ok := t.bases[id]
	if !ok {
		return 0, false
	}

	b.NextResupply = at + interval
	t.bases[id] = b

	return b.NextResupply, true
}

type fakeArchive struct {
	offers []entity.Offer
	err    error
}

func (a *fakeArchive) Archive(_ context.Context, offers ...entity.Offer) error {
	a.offers = append(a.offers, offers...)
	return a.err
}

type fakeScheduler struct {
	queued []string
	err    error
}

func (s *fakeScheduler) EnqueueTraderSync(_ context.Context, traderID string) error {
	s.queued = append(s.queued, traderID)
	return s.err
}

type fakePrices struct {
	calls int
	err   error
}

func (p *fakePrices) Refresh(context.Context) (int, error) {
	p.calls++
	return 5, p.err
}

func offer(id string, kind value.SellerKind, end int64) entity.Offer {
	return entity.Offer{
		ID:         id,
		Seller:     entity.Seller{ID: id + "_seller", Kind: kind},
		RootItemID: id + "_root",
		Items:      []entity.Item{{ID: id + "_root", Tpl: "bolts"}},
		EndTime:    end,
	}
}

func newTraders() *fakeTraders {
	return &fakeTraders{bases: map[string]entity.TraderBase{
		"prapor":   {ID: "prapor", NextResupply: now - 10},
		"mechanic": {ID: "mechanic", NextResupply: now + 100},
	}}
}

func clock() time.Time {
	return time.Unix(now, 0)
}

func TestRunOnce(t *testing.T) {
	rq := require.New(t)

	gen := &fakeGenerator{}
	store := &fakeStore{offers: []entity.Offer{
		offer("sim", value.SellerKindSimulated, now-1),
		offer("player", value.SellerKindPlayer, now),
		offer("trader", value.SellerKindTrader, now-5),
		offer("fresh", value.SellerKindSimulated, now+1),
	}}
	traders := newTraders()
	archive := &fakeArchive{}
	prices := &fakePrices{}
	events := make(chan entity.MarketEvent, 4)

	w := worker.NewOfferRefresher(gen, store, traders).
		WithClock(clock).
		WithTraderUpdate(3600).
		WithArchive(archive).
		WithPriceRefresher(prices).
		WithEvents(events)

	res := w.RunOnce(context.Background())

	rq.Equal(worker.CycleResult{
		PricesUpdated: 5,
		Expired:       3,
		Regenerated:   1,
		Resupplied:    []string{"prapor"},
	}, res)

	rq.Equal(now, store.asked)
	rq.Len(store.offers, 1)
	rq.Len(archive.offers, 3)
	rq.Equal(1, prices.calls)

	rq.Equal([]bool{true}, gen.refresh)
	rq.Len(gen.bundles, 1)
	rq.Equal("sim_root", gen.bundles[0][0].ID)

	rq.Equal([]string{"prapor"}, gen.synced)
	rq.Equal(now+3600, traders.bases["prapor"].NextResupply)
	rq.Equal(now+100, traders.bases["mechanic"].NextResupply)

	ev := <-events
	rq.Equal(entity.MarketEventExpired, ev.Kind)
	rq.Equal(3, ev.Removed)
	rq.Equal(1, ev.Created)

	ev = <-events
	rq.Equal(entity.MarketEventTraderSynced, ev.Kind)
	rq.Equal("prapor", ev.TraderID)
	rq.Equal(2, ev.Created)
}

func TestRunOnceNothingToDo(t *testing.T) {
	rq := require.New(t)

	gen := &fakeGenerator{}
	traders := &fakeTraders{bases: map[string]entity.TraderBase{
		"prapor": {ID: "prapor", NextResupply: now + 1},
	}}

	w := worker.NewOfferRefresher(gen, &fakeStore{}, traders).WithClock(clock)

	rq.Equal(worker.CycleResult{}, w.RunOnce(context.Background()))
	rq.Zero(gen.genCalls)
	rq.Empty(gen.synced)
}

func TestRunOnceScheduler(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		err    error
		inline []string
	}{
		{
			name: "queued",
		},
		{
			name:   "queue down falls back to inline sync",
			err:    errors.New("redis down"),
			inline: []string{"prapor"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			gen := &fakeGenerator{}
			scheduler := &fakeScheduler{err: tc.err}

			w := worker.NewOfferRefresher(gen, &fakeStore{}, newTraders()).
				WithClock(clock).
				WithScheduler(scheduler)

			res := w.RunOnce(context.Background())

			rq.Equal([]string{"prapor"}, res.Resupplied)
			rq.Equal([]string{"prapor"}, scheduler.queued)
			rq.Equal(tc.inline, gen.synced)
		})
	}
}

func TestRunOnceSyncFailureEvent(t *testing.T) {
	rq := require.New(t)

	gen := &fakeGenerator{syncErr: errors.New("no assort")}
	events := make(chan entity.MarketEvent, 1)

	w := worker.NewOfferRefresher(gen, &fakeStore{}, newTraders()).
		WithClock(clock).
		WithEvents(events)

	w.RunOnce(context.Background())

	ev := <-events
	rq.Equal(entity.MarketEventTraderSyncFailed, ev.Kind)
	rq.EqualError(ev.Err, "no assort")
}

func TestRunOnceArchiveFailureStillRegenerates(t *testing.T) {
	rq := require.New(t)

	gen := &fakeGenerator{}
	store := &fakeStore{offers: []entity.Offer{offer("sim", value.SellerKindSimulated, now)}}

	w := worker.NewOfferRefresher(gen, store, &fakeTraders{}).
		WithClock(clock).
		WithArchive(&fakeArchive{err: errors.New("disk full")}).
		WithPriceRefresher(&fakePrices{err: errors.New("redis down")})

	res := w.RunOnce(context.Background())

	rq.Equal(1, res.Expired)
	rq.Equal(1, res.Regenerated)
}

func TestTrackedTraders(t *testing.T) {
	rq := require.New(t)

	gen := &fakeGenerator{}
	w := worker.NewOfferRefresher(gen, &fakeStore{}, newTraders()).WithClock(clock)

	rq.Nil(w.GetTraders())

	w.AddTrader("mechanic")
	w.AddTraders("mechanic", "therapist")
	rq.Equal([]string{"mechanic", "therapist"}, w.GetTraders())
	rq.True(w.HasTrader("therapist"))

	w.RemoveTrader("therapist")
	rq.False(w.HasTrader("therapist"))

	// prapor is due but not tracked
	rq.Empty(w.RunOnce(context.Background()).Resupplied)

	w.SetTraders([]string{"prapor", "prapor"})
	rq.Equal([]string{"prapor"}, w.GetTraders())
	rq.Equal([]string{"prapor"}, w.RunOnce(context.Background()).Resupplied)

	w.ClearTraders()
	rq.Nil(w.GetTraders())

	w.SetTraders(nil)
	rq.Nil(w.GetTraders())
}

func TestStartStop(t *testing.T) {
	rq := require.New(t)

	gen := &fakeGenerator{}
	w := worker.NewOfferRefresher(gen, &fakeStore{}, &fakeTraders{}).
		WithInterval(time.Millisecond).
		WithClock(clock)

	rq.False(w.IsRunning())
	rq.NoError(w.Start(context.Background()))
	rq.True(w.IsRunning())
	rq.Error(w.Start(context.Background()))

	w.Stop()
	rq.False(w.IsRunning())

	w.Stop()
}
