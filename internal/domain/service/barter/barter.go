package barter

import (
	"cmp"
	"slices"
	"sort"
	"sync"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

type PriceOracle interface {
	MarketPrice(tpl string) float64
	FromRoubles(roubles float64, currency string) float64
	AllMarketPrices() map[string]float64
}

type ItemHelper interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseClass(tpl string, base value.BaseClass) bool
	IsOfBaseClasses(tpl string, bases []value.BaseClass) bool
}

type pricedTemplate struct {
	tpl   string
	price float64
}

// Builder решает, чем платить за лот: валютой или бартером.
type Builder struct {
	oracle PriceOracle
	helper ItemHelper
	rnd    randx.Source
	tuning config.Tuning

	cacheOnce sync.Once
	byPrice   []pricedTemplate
}

func NewBuilder(oracle PriceOracle, helper ItemHelper, rnd randx.Source, tuning config.Tuning) *Builder {
	return &Builder{
		oracle: oracle,
		helper: helper,
		rnd:    rnd,
		tuning: tuning,
	}
}

// BuildCurrencyScheme prices the bundle in a randomly chosen currency and
// returns a single payment line scaled by multiplier.
func (b *Builder) BuildCurrencyScheme(items []entity.Item, isPack bool, multiplier float64) []entity.OfferRequirement {
	currency, ok := randx.Weighted(b.rnd, b.tuning.Currencies)
	if !ok {
		currency = value.CurrencyRoubles
	}

	if multiplier <= 0 {
		multiplier = 1
	}

	roubles := b.randomizedBundlePrice(items, isPack)
	amount := float64(max(randx.Round(b.oracle.FromRoubles(roubles, currency)), 1))

	return []entity.OfferRequirement{{
		Tpl:   currency,
		Count: float64(max(randx.Round(amount*multiplier), 1)),
	}}
}

// BuildBarterScheme tries to swap the bundle for a stack of a single item of
// similar total value. Cheap bundles and bundles without a matching item are
// paid with currency instead.
func (b *Builder) BuildBarterScheme(items []entity.Item) []entity.OfferRequirement {
	if len(items) == 0 {
		return nil
	}

	total := b.BundleValue(items)
	if total < b.tuning.BarterMinRoubleValue {
		return b.BuildCurrencyScheme(items, false, 1)
	}

	count := max(b.rnd.Int(b.tuning.BarterItemCountRange.Min, b.tuning.BarterItemCountRange.Max), 1)
	target := float64(randx.Round(total / float64(count)))
	variance := target * b.tuning.BarterPriceTolerancePercent / 100 //nolint:mnd // percent

	candidates := b.candidates(target-variance, target+variance, items[0].Tpl)
	if len(candidates) == 0 {
		return b.BuildCurrencyScheme(items, false, 1)
	}

	pick, _ := randx.Pick(b.rnd, candidates)

	return []entity.OfferRequirement{{
		Tpl:   pick.tpl,
		Count: float64(count),
	}}
}

// BundleValue is the plain market value of one unit of the bundle.
func (b *Builder) BundleValue(items []entity.Item) float64 {
	total := 0.0

	for _, it := range items {
		if it.SlotID == value.SlotCartridges {
			continue
		}

		if b.helper.IsOfBaseClass(it.Tpl, value.BaseClassBuiltInInserts) {
			continue
		}

		total += b.oracle.MarketPrice(it.Tpl)
	}

	return total
}

func (b *Builder) randomizedBundlePrice(items []entity.Item, isPack bool) float64 {
	r := b.tuning.PriceRanges.Default

	switch {
	case isPack:
		r = b.tuning.PriceRanges.Pack
	case len(items) > 0 && items[0].Upd != nil && items[0].Upd.PresetID != "":
		r = b.tuning.PriceRanges.Preset
	}

	price := b.BundleValue(items) * b.rnd.Float(r.Min, r.Max)

	return float64(max(randx.Round(price), 1))
}

func (b *Builder) candidates(lo, hi float64, exclude string) []pricedTemplate {
	b.cacheOnce.Do(b.buildPriceCache)

	start := sort.Search(len(b.byPrice), func(i int) bool {
		return b.byPrice[i].price >= lo
	})

	var out []pricedTemplate

	for _, c := range b.byPrice[start:] {
		if c.price > hi {
			break
		}

		if c.tpl == exclude {
			continue
		}

		out = append(out, c)
	}

	return out
}

func (b *Builder) buildPriceCache() {
	prices := b.oracle.AllMarketPrices()
	cached := make([]pricedTemplate, 0, len(prices))

	for tpl, price := range prices {
		if price <= 0 {
			continue
		}

		t, ok := b.helper.Template(tpl)
		if !ok || t.Type != value.TemplateTypeItem {
			continue
		}

		if b.helper.IsOfBaseClasses(tpl, b.tuning.BarterItemBlacklist) {
			continue
		}

		cached = append(cached, pricedTemplate{tpl: tpl, price: price})
	}

	slices.SortFunc(cached, func(a, b pricedTemplate) int {
		return cmp.Or(cmp.Compare(a.price, b.price), cmp.Compare(a.tpl, b.tpl))
	})

	b.byPrice = cached
}
