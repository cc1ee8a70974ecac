package worker

import (
	"slices"

	"github.com/samber/lo"
)

// AddTrader добавляет торговца в список отслеживаемых (если ещё нет).
func (w *OfferRefresher) AddTrader(id string) {
	w.AddTraders(id)
}

func (w *OfferRefresher) AddTraders(ids ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, id := range ids {
		if !slices.Contains(w.traderIDs, id) {
			w.traderIDs = append(w.traderIDs, id)
		}
	}
}

func (w *OfferRefresher) RemoveTrader(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.traderIDs = slices.DeleteFunc(w.traderIDs, func(existing string) bool {
		return existing == id
	})
}

// GetTraders возвращает копию списка.
func (w *OfferRefresher) GetTraders() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.traderIDs) == 0 {
		return nil
	}

	return slices.Clone(w.traderIDs)
}

func (w *OfferRefresher) SetTraders(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(ids) == 0 {
		w.traderIDs = nil
		return
	}

	w.traderIDs = lo.Uniq(ids)
}

// ClearTraders очищает список: отслеживаются все торговцы.
func (w *OfferRefresher) ClearTraders() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.traderIDs = nil
}

func (w *OfferRefresher) HasTrader(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Contains(w.traderIDs, id)
}
