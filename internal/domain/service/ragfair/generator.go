package ragfair

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/value"
	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
	"flea_market/pkg/randx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Виды сгенерированных лотов для метрик.
const (
	KindCurrency = "currency"
	KindBarter   = "barter"
	KindPack     = "pack"
	KindTrader   = "trader"
)

const minPackStack = 2

type ItemHelper interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseClasses(tpl string, bases []value.BaseClass) bool
	ArmorCanHoldMods(tpl string) bool
	IsValidForMarket(items []entity.Item) (bool, string)
	CalculateDynamicStackCount(tpl string, isPreset bool) int
	RemoveBannedPlatesFromPreset(items []entity.Item, rules config.PlateLevelBlacklist) ([]entity.Item, bool)
	RemovePlates(items []entity.Item, slots []string) []entity.Item
}

type SchemeBuilder interface {
	BuildCurrencyScheme(items []entity.Item, isPack bool, multiplier float64) []entity.OfferRequirement
	BuildBarterScheme(items []entity.Item) []entity.OfferRequirement
}

type ConditionRandomizer interface {
	RandomizeCondition(bundle []entity.Item, sellerID string)
}

type OfferFactory interface {
	CreateOffer(
		sellerID string,
		createdAt int64,
		items []entity.Item,
		requirements []entity.OfferRequirement,
		minLoyaltyLevel int,
		sellAsSingleUnit bool,
	) (entity.Offer, error)
}

type OfferStore interface {
	Add(ctx context.Context, offer entity.Offer)
	RemoveAllByTrader(ctx context.Context, traderID string) int
}

type TraderSource interface {
	Assort(traderID string) (entity.TraderAssort, bool)
}

type PresetSource interface {
	Preset(id string) (entity.Preset, bool)
}

// Observer receives generation counters. Implemented by the metrics package.
type Observer interface {
	OfferGenerated(kind string)
	BundleSkipped(reason string)
	TraderSynced(ok bool)
}

type nopObserver struct{}

func (nopObserver) OfferGenerated(string) {}
func (nopObserver) BundleSkipped(string)  {}
func (nopObserver) TraderSynced(bool)     {}

// Result - итог одного прогона генерации.
type Result struct {
	Bundles int `json:"bundles"`
	Skipped int `json:"skipped"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

type counters struct {
	skipped atomic.Int64
	created atomic.Int64
	failed  atomic.Int64
}

// Generator создаёт динамические лоты и лоты торговцев.
type Generator struct {
	helper    ItemHelper
	schemes   SchemeBuilder
	condition ConditionRandomizer
	factory   OfferFactory
	store     OfferStore
	traders   TraderSource
	presets   PresetSource
	rnd       randx.Source
	tuning    config.Tuning

	observer Observer
	now      func() time.Time
}

func NewGenerator(
	helper ItemHelper,
	schemes SchemeBuilder,
	condition ConditionRandomizer,
	factory OfferFactory,
	store OfferStore,
	traders TraderSource,
	presets PresetSource,
	rnd randx.Source,
	tuning config.Tuning,
) *Generator {
	return &Generator{
		helper:    helper,
		schemes:   schemes,
		condition: condition,
		factory:   factory,
		store:     store,
		traders:   traders,
		presets:   presets,
		rnd:       rnd,
		tuning:    tuning,
		observer:  nopObserver{},
		now:       time.Now,
	}
}

func (g *Generator) WithObserver(o Observer) *Generator {
	if o != nil {
		g.observer = o
	}
	return g
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// GenerateOffers turns candidate bundles into simulated-seller offers on a
// bounded worker pool. On cancellation bundles not yet started are dropped and
// already stored offers stay.
func (g *Generator) GenerateOffers(ctx context.Context, bundles [][]entity.Item, isRefreshOfExpired bool) (Result, error) {
	var c counters

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.tuning.Workers, 1))

	for _, bundle := range bundles {
		if egCtx.Err() != nil {
			break
		}

		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			g.processBundle(egCtx, bundle, isRefreshOfExpired, &c)

			return nil
		})
	}

	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}

	res := Result{
		Bundles: len(bundles),
		Skipped: int(c.skipped.Load()),
		Created: int(c.created.Load()),
		Failed:  int(c.failed.Load()),
	}

	logger(ctx).Info("offers generated",
		slog.Int("bundles", res.Bundles),
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
		slog.Bool("refresh", isRefreshOfExpired),
	)

	return res, err
}

func (g *Generator) processBundle(ctx context.Context, bundle []entity.Item, isRefresh bool, c *counters) {
	if len(bundle) == 0 {
		c.skipped.Add(1)
		return
	}

	if !isRefresh {
		if ok, reason := g.helper.IsValidForMarket(bundle); !ok {
			c.skipped.Add(1)
			g.observer.BundleSkipped(reason)

			return
		}
	}

	isPreset := bundle[0].Upd != nil && bundle[0].Upd.PresetID != ""

	if isPreset && g.tuning.PlateLevelBlacklist.Enabled {
		bundle, _ = g.helper.RemoveBannedPlatesFromPreset(bundle, g.tuning.PlateLevelBlacklist)
	}

	count := 1
	if !isRefresh {
		count = g.rnd.Int(g.tuning.OfferCountRange.Min, g.tuning.OfferCountRange.Max)
	}

	for range count {
		if ctx.Err() != nil {
			return
		}

		kind, err := g.createDynamicOffer(ctx, bundle, isPreset)
		if err != nil {
			c.failed.Add(1)
			logger(ctx).Warn("dynamic offer skipped",
				slog.String(logx.FieldTemplateID, bundle[0].Tpl),
				logx.Error(err),
			)

			continue
		}

		c.created.Add(1)
		g.observer.OfferGenerated(kind)
	}
}

func (g *Generator) createDynamicOffer(ctx context.Context, bundle []entity.Item, isPreset bool) (string, error) {
	offerItems := items.CloneWithNewIDs(bundle)

	root := &offerItems[0]
	root.ParentID = value.ParentHideout
	root.SlotID = value.SlotHideout
	root.EnsureUpd().StackObjectsCount = g.helper.CalculateDynamicStackCount(root.Tpl, isPreset)

	sellerID := xid.New().String()

	isBarter := g.rnd.Chance100(g.tuning.BarterChancePercent)
	isPack := !isBarter &&
		len(offerItems) == 1 &&
		g.helper.IsOfBaseClasses(root.Tpl, g.tuning.PackItemTypeWhitelist) &&
		g.rnd.Chance100(g.tuning.PackChancePercent)

	if g.helper.ArmorCanHoldMods(root.Tpl) && g.rnd.Chance100(g.tuning.ArmorPlateRemovalChancePercent) {
		offerItems = g.helper.RemovePlates(offerItems, g.tuning.ArmorPlateRemovableSlots)
	}

	var (
		kind         string
		requirements []entity.OfferRequirement
	)

	switch {
	case isPack:
		kind = KindPack
		stack := max(g.rnd.Int(g.tuning.PackItemCountRange.Min, g.tuning.PackItemCountRange.Max), minPackStack)
		offerItems[0].Upd.StackObjectsCount = stack
		requirements = g.schemes.BuildCurrencyScheme(offerItems, true, float64(stack))
	case isBarter:
		kind = KindBarter
		g.condition.RandomizeCondition(offerItems, sellerID)
		requirements = g.schemes.BuildBarterScheme(offerItems)

		if g.tuning.BarterMakeSingleStackOnly {
			offerItems[0].Upd.StackObjectsCount = 1
		}
	default:
		kind = KindCurrency
		g.condition.RandomizeCondition(offerItems, sellerID)
		requirements = g.schemes.BuildCurrencyScheme(offerItems, false, 1)
	}

	offer, err := g.factory.CreateOffer(sellerID, g.now().Unix(), offerItems, requirements, 0, isPack)
	if err != nil {
		return "", err
	}

	g.store.Add(ctx, offer)

	return kind, nil
}
