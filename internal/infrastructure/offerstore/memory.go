package offerstore

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/pkg/contextx"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Mirror receives every change of the store, e.g. a database repository.
type Mirror interface {
	Save(ctx context.Context, offer entity.Offer) error
	DeleteBySeller(ctx context.Context, sellerID string) error
	Delete(ctx context.Context, ids ...string) error
}

type Filter struct {
	SellerID string
	Tpl      string
	Limit    int
	Offset   int
}

// Memory - хранилище активных лотов в памяти.
type Memory struct {
	mu       sync.RWMutex
	byID     map[string]entity.Offer
	bySeller map[string]map[string]struct{}

	mirror Mirror
}

func NewMemory() *Memory {
	return &Memory{
		byID:     make(map[string]entity.Offer),
		bySeller: make(map[string]map[string]struct{}),
	}
}

func (m *Memory) WithMirror(mirror Mirror) *Memory {
	m.mirror = mirror
	return m
}

// Restore puts offers back without mirroring them.
func (m *Memory) Restore(offers []entity.Offer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range offers {
		m.put(o)
	}
}

func (m *Memory) Add(ctx context.Context, offer entity.Offer) {
	m.mu.Lock()
	m.put(offer)
	m.mu.Unlock()

	if m.mirror == nil {
		return
	}

	if err := m.mirror.Save(ctx, offer); err != nil {
		logger(ctx).Error("offer mirror save failed", slog.String(logx.FieldOfferID, offer.ID), logx.Error(err))
	}
}

// RemoveAllByTrader drops every offer of the seller and returns how many were
// removed.
func (m *Memory) RemoveAllByTrader(ctx context.Context, traderID string) int {
	m.mu.Lock()

	ids := m.bySeller[traderID]
	for id := range ids {
		delete(m.byID, id)
	}

	delete(m.bySeller, traderID)
	m.mu.Unlock()

	if m.mirror != nil {
		if err := m.mirror.DeleteBySeller(ctx, traderID); err != nil {
			logger(ctx).Error("offer mirror delete failed", slog.String(logx.FieldTraderID, traderID), logx.Error(err))
		}
	}

	return len(ids)
}

func (m *Memory) Get(id string) (entity.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.byID[id]
	if !ok {
		return entity.Offer{}, domain.NewError(errcodes.OfferNotFound, "offer "+id+" not found")
	}

	return o, nil
}

// List returns offers ordered by sequence id.
func (m *Memory) List(f Filter) []entity.Offer {
	m.mu.RLock()

	out := make([]entity.Offer, 0, len(m.byID))

	if f.SellerID != "" {
		for id := range m.bySeller[f.SellerID] {
			out = append(out, m.byID[id])
		}
	} else {
		for _, o := range m.byID {
			out = append(out, o)
		}
	}

	m.mu.RUnlock()

	if f.Tpl != "" {
		out = slices.DeleteFunc(out, func(o entity.Offer) bool {
			root, ok := o.Root()
			return !ok || root.Tpl != f.Tpl
		})
	}

	slices.SortFunc(out, func(a, b entity.Offer) int {
		return cmp.Compare(a.SequenceID, b.SequenceID)
	})

	if f.Offset > 0 {
		out = out[min(f.Offset, len(out)):]
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out
}

// TakeExpired removes and returns offers with endTime <= now, ordered by
// sequence id.
func (m *Memory) TakeExpired(ctx context.Context, now int64) []entity.Offer {
	m.mu.Lock()

	var expired []entity.Offer

	for id, o := range m.byID {
		if !o.IsExpired(now) {
			continue
		}

		expired = append(expired, o)
		m.remove(id)
	}

	m.mu.Unlock()

	if len(expired) == 0 {
		return nil
	}

	slices.SortFunc(expired, func(a, b entity.Offer) int {
		return cmp.Compare(a.SequenceID, b.SequenceID)
	})

	if m.mirror != nil {
		ids := make([]string, 0, len(expired))
		for _, o := range expired {
			ids = append(ids, o.ID)
		}

		if err := m.mirror.Delete(ctx, ids...); err != nil {
			logger(ctx).Error("offer mirror delete failed", slog.Int(logx.FieldCount, len(ids)), logx.Error(err))
		}
	}

	return expired
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.byID)
}

// MaxSequenceID returns the highest sequence id in the store.
func (m *Memory) MaxSequenceID() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var maxID uint64
	for _, o := range m.byID {
		maxID = max(maxID, o.SequenceID)
	}

	return maxID
}

func (m *Memory) put(o entity.Offer) {
	if old, ok := m.byID[o.ID]; ok {
		m.unindex(old)
	}

	m.byID[o.ID] = o

	ids, ok := m.bySeller[o.Seller.ID]
	if !ok {
		ids = make(map[string]struct{})
		m.bySeller[o.Seller.ID] = ids
	}

	ids[o.ID] = struct{}{}
}

func (m *Memory) remove(id string) {
	o, ok := m.byID[id]
	if !ok {
		return
	}

	delete(m.byID, id)
	m.unindex(o)
}

func (m *Memory) unindex(o entity.Offer) {
	ids := m.bySeller[o.Seller.ID]
	delete(ids, o.ID)

	if len(ids) == 0 {
		delete(m.bySeller, o.Seller.ID)
	}
}
