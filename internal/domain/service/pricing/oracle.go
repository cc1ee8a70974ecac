package pricing

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/contextx"
	"flea_market/pkg/randx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultLivePriceTTL = 10 * time.Minute

type Catalog interface {
	HandbookPrice(tpl string) (float64, bool)
	// MarketPrices returns the static price table shipped with the game data.
	MarketPrices() map[string]float64
}

// PriceFeed delivers live market prices, e.g. from Redis.
type PriceFeed interface {
	Prices(ctx context.Context) (map[string]float64, error)
}

// Oracle - справочник цен. Живые цены из PriceFeed перекрывают статическую
// таблицу, та перекрывает цены справочника (handbook).
type Oracle struct {
	catalog Catalog
	feed    PriceFeed

	mu     sync.RWMutex
	static map[string]float64
	live   *cache.Cache
}

func NewOracle(catalog Catalog) *Oracle {
	return &Oracle{
		catalog: catalog,
		static:  catalog.MarketPrices(),
		live:    cache.New(defaultLivePriceTTL, 2*defaultLivePriceTTL),
	}
}

func (o *Oracle) WithPriceFeed(feed PriceFeed, ttl time.Duration) *Oracle {
	o.feed = feed
	if ttl > 0 {
		o.live = cache.New(ttl, 2*ttl)
	}
	return o
}

// Refresh pulls live prices from the feed. Without a feed it is a no-op.
func (o *Oracle) Refresh(ctx context.Context) (int, error) {
	if o.feed == nil {
		return 0, nil
	}

	prices, err := o.feed.Prices(ctx)
	if err != nil {
		return 0, fmt.Errorf("feed.Prices: %w", err)
	}

	updated := 0
	for tpl, price := range prices {
		if price <= 0 {
			continue
		}

		o.live.Set(tpl, price, cache.DefaultExpiration)
		updated++
	}

	logger(ctx).Debug("live prices refreshed", "count", updated)

	return updated, nil
}

// MarketPrice returns the current price of a template in roubles, or 0 when
// nothing is known about it.
func (o *Oracle) MarketPrice(tpl string) float64 {
	if v, ok := o.live.Get(tpl); ok {
		if price, ok := v.(float64); ok {
			return price
		}
	}

	o.mu.RLock()
	price, ok := o.static[tpl]
	o.mu.RUnlock()

	if ok && price > 0 {
		return price
	}

	return o.HandbookPrice(tpl)
}

func (o *Oracle) HandbookPrice(tpl string) float64 {
	price, ok := o.catalog.HandbookPrice(tpl)
	if !ok {
		return 0
	}

	return price
}

// AllMarketPrices returns a snapshot of every known market price.
func (o *Oracle) AllMarketPrices() map[string]float64 {
	o.mu.RLock()
	out := maps.Clone(o.static)
	o.mu.RUnlock()

	if out == nil {
		out = make(map[string]float64)
	}

	for tpl, item := range o.live.Items() {
		if price, ok := item.Object.(float64); ok {
			out[tpl] = price
		}
	}

	return out
}

// SetStaticPrice overrides one entry of the static table.
func (o *Oracle) SetStaticPrice(tpl string, price float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.static == nil {
		o.static = make(map[string]float64)
	}

	o.static[tpl] = price
}

// ToRoubles converts an amount of the given currency using handbook rates.
func (o *Oracle) ToRoubles(amount float64, currency string) float64 {
	if currency == value.CurrencyRoubles {
		return amount
	}

	return amount * o.HandbookPrice(currency)
}

// FromRoubles converts a rouble amount into the given currency.
func (o *Oracle) FromRoubles(roubles float64, currency string) float64 {
	if currency == value.CurrencyRoubles {
		return roubles
	}

	rate := o.HandbookPrice(currency)
	if rate <= 0 {
		return roubles
	}

	return roubles / rate
}

// ConvertRequirementsToRoubles prices a payment list. Currency lines are
// rounded one by one, barter lines are summed unrounded.
func (o *Oracle) ConvertRequirementsToRoubles(requirements []entity.OfferRequirement) float64 {
	total := 0.0

	for _, req := range requirements {
		if value.IsCurrency(req.Tpl) {
			total += float64(randx.Round(o.ToRoubles(req.Count, req.Tpl)))
			continue
		}

		total += o.MarketPrice(req.Tpl) * req.Count
	}

	return total
}
