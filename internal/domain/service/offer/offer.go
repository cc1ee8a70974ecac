package offer

import (
	"sync/atomic"

	"github.com/rs/xid"

	"flea_market/internal/config"
	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/randx"
)

const (
	secondsInHour = 3600
	minPackStack  = 2
)

type SellerResolver interface {
	Resolve(sellerID string) entity.Seller
}

type TraderSource interface {
	Base(traderID string) (entity.TraderBase, bool)
}

type ItemHelper interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseClass(tpl string, base value.BaseClass) bool
	AddCartridgesToAmmoBox(items []entity.Item, box entity.Template) []entity.Item
}

type PricingEngine interface {
	HandbookPrice(tpl string) float64
	ConvertRequirementsToRoubles(requirements []entity.OfferRequirement) float64
}

// Factory собирает лоты. Счётчик sequence id принадлежит фабрике.
type Factory struct {
	sellers SellerResolver
	traders TraderSource
	helper  ItemHelper
	pricing PricingEngine
	rnd     randx.Source
	tuning  config.Tuning

	sequence atomic.Uint64
}

func NewFactory(
	sellers SellerResolver,
	traders TraderSource,
	helper ItemHelper,
	pricing PricingEngine,
	rnd randx.Source,
	tuning config.Tuning,
) *Factory {
	return &Factory{
		sellers: sellers,
		traders: traders,
		helper:  helper,
		pricing: pricing,
		rnd:     rnd,
		tuning:  tuning,
	}
}

// WithSequenceStart makes the next offer get start+1. Used when offers are
// restored from storage.
func (f *Factory) WithSequenceStart(start uint64) *Factory {
	f.sequence.Store(start)
	return f
}

// LastSequenceID returns the sequence id of the most recent offer.
func (f *Factory) LastSequenceID() uint64 {
	return f.sequence.Load()
}

// CreateOffer builds an offer from a copy of items. The first item is the
// bundle root.
func (f *Factory) CreateOffer(
	sellerID string,
	createdAt int64,
	items []entity.Item,
	requirements []entity.OfferRequirement,
	minLoyaltyLevel int,
	sellAsSingleUnit bool,
) (entity.Offer, error) {
	if len(items) == 0 {
		return entity.Offer{}, domain.NewError(errcodes.InvalidBundle, "offer bundle is empty")
	}

	if len(requirements) == 0 {
		return entity.Offer{}, domain.NewError(errcodes.InvalidRequirements, "offer requirements are empty")
	}

	bundle := entity.CloneItems(items)
	root := bundle[0]

	rootTemplate, ok := f.helper.Template(root.Tpl)
	if !ok {
		return entity.Offer{}, domain.NewError(errcodes.TemplateNotFound, "template "+root.Tpl+" not found")
	}

	// пустая коробка патронов продаётся полной
	if len(bundle) == 1 && f.helper.IsOfBaseClass(root.Tpl, value.BaseClassAmmoBox) {
		bundle = f.helper.AddCartridgesToAmmoBox(bundle, rootTemplate)
	}

	// пачка продаётся только стопкой
	if sellAsSingleUnit && root.StackCount() < minPackStack {
		return entity.Offer{}, domain.NewError(errcodes.InvalidBundle, "pack offer needs a stack of at least 2")
	}

	reqs := make([]entity.OfferRequirement, len(requirements))
	for i, r := range requirements {
		r.Count = randx.Round2(r.Count)
		if r.Count <= 0 {
			return entity.Offer{}, domain.NewError(errcodes.InvalidRequirements, "requirement "+r.Tpl+" count rounds to zero")
		}

		reqs[i] = r
	}

	seller := f.sellers.Resolve(sellerID)
	total := max(randx.Round(f.pricing.ConvertRequirementsToRoubles(reqs)), 1)

	perUnit := total
	if sellAsSingleUnit {
		perUnit = max(randx.Round(float64(total)/float64(root.StackCount())), 1)
	}

	return entity.Offer{
		ID:                      xid.New().String(),
		SequenceID:              f.sequence.Add(1),
		Seller:                  seller,
		RootItemID:              root.ID,
		Items:                   bundle,
		HandbookValue:           randx.Round(f.pricing.HandbookPrice(root.Tpl)),
		Requirements:            reqs,
		RequirementsCostPerUnit: perUnit,
		TotalListingCost:        total,
		StartTime:               createdAt,
		EndTime:                 f.endTime(seller, createdAt),
		MinLoyaltyLevel:         minLoyaltyLevel,
		SellAsSingleUnit:        sellAsSingleUnit,
	}, nil
}

func (f *Factory) endTime(seller entity.Seller, start int64) int64 {
	switch seller.Kind {
	case value.SellerKindTrader:
		if base, ok := f.traders.Base(seller.ID); ok && base.NextResupply > start {
			return base.NextResupply
		}

		return start + int64(max(f.tuning.TraderUpdateSeconds, 1))
	case value.SellerKindPlayer:
		return start + int64(max(f.tuning.PlayerOfferDurationHours, 1))*secondsInHour
	case value.SellerKindSimulated:
	}

	r := f.tuning.SimulatedSellerOfferDurationRange

	return start + int64(max(f.rnd.Int(r.Min, r.Max), 1))
}
