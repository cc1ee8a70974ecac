package entity

import "time"

type MarketEventKind string

const (
	MarketEventGenerated        MarketEventKind = "generated"
	MarketEventTraderSynced     MarketEventKind = "trader_synced"
	MarketEventTraderSyncFailed MarketEventKind = "trader_sync_failed"
	MarketEventExpired          MarketEventKind = "expired"
)

// MarketEvent - сводка о работе генератора для уведомлений.
type MarketEvent struct {
	Kind     MarketEventKind
	TraderID string
	Created  int
	Skipped  int
	Removed  int
	Err      error
	At       time.Time
}
