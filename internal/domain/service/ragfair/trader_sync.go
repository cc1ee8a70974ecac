package ragfair

import (
	"context"
	"log/slog"
	"slices"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/value"
	"flea_market/pkg/errcodes"
	"flea_market/pkg/logx"
)

// SyncTraderOffers replaces every offer of the trader with fresh ones built
// from its assortment. Returns the number of created offers.
func (g *Generator) SyncTraderOffers(ctx context.Context, traderID string) (int, error) {
	l := logger(ctx).With(slog.String(logx.FieldTraderID, traderID))

	removed := g.store.RemoveAllByTrader(ctx, traderID)

	assort, ok := g.traders.Assort(traderID)
	if !ok || assort.IsEmpty() {
		l.Error("trader has no assortment, offers not generated")
		g.observer.TraderSynced(false)

		return 0, domain.NewError(errcodes.TraderAssortEmpty, "trader "+traderID+" has no assortment")
	}

	now := g.now().Unix()
	created := 0

	for _, entry := range assort.Items {
		if entry.ParentID != value.ParentHideout && entry.ParentID != "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			g.observer.TraderSynced(false)
			return created, err
		}

		offer, ok := g.traderOffer(l, traderID, now, assort, entry)
		if !ok {
			continue
		}

		g.store.Add(ctx, offer)
		g.observer.OfferGenerated(KindTrader)
		created++
	}

	g.observer.TraderSynced(true)
	l.Info("trader offers synced", slog.Int("removed", removed), slog.Int("created", created))

	return created, nil
}

func (g *Generator) traderOffer(
	l *slog.Logger,
	traderID string,
	now int64,
	assort entity.TraderAssort,
	entry entity.Item,
) (entity.Offer, bool) {
	l = l.With(slog.String(logx.FieldItemID, entry.ID), slog.String(logx.FieldTemplateID, entry.Tpl))

	schemes := assort.BarterScheme[entry.ID]
	if len(schemes) == 0 || len(schemes[0]) == 0 {
		l.Warn("trader item has no barter scheme, skipped")
		return entity.Offer{}, false
	}

	loyalty, ok := assort.LoyalLevelItems[entry.ID]
	if !ok {
		l.Warn("trader item has no loyalty level, skipped")
		return entity.Offer{}, false
	}

	bundle := g.traderBundle(assort, entry)

	if g.tuning.Blacklist.TraderItems {
		if valid, reason := g.helper.IsValidForMarket(bundle); !valid {
			l.Debug("trader item blacklisted", slog.String(logx.FieldReason, reason))
			g.observer.BundleSkipped(reason)

			return entity.Offer{}, false
		}
	}

	offer, err := g.factory.CreateOffer(traderID, now, bundle, schemes[0], loyalty, false)
	if err != nil {
		l.Warn("trader offer not created", logx.Error(err))

		return entity.Offer{}, false
	}

	return offer, true
}

// traderBundle собирает набор из детей записи ассортимента. Пресет без детей
// разворачивается из каталога.
func (g *Generator) traderBundle(assort entity.TraderAssort, entry entity.Item) []entity.Item {
	bundle := items.FindChildren(assort.Items, entry.ID)

	// корень всегда первый
	if idx := slices.IndexFunc(bundle, func(it entity.Item) bool { return it.ID == entry.ID }); idx > 0 {
		bundle[0], bundle[idx] = bundle[idx], bundle[0]
	}

	if len(bundle) > 1 || entry.Upd == nil || entry.Upd.PresetID == "" {
		return bundle
	}

	preset, ok := g.presets.Preset(entry.Upd.PresetID)
	if !ok || len(preset.Items) == 0 {
		return bundle
	}

	expanded := items.CloneWithNewIDs(preset.Items)
	oldRootID := expanded[0].ID

	for i := range expanded[1:] {
		if expanded[i+1].ParentID == oldRootID {
			expanded[i+1].ParentID = entry.ID
		}
	}

	expanded[0] = entry.Clone()

	return expanded
}
