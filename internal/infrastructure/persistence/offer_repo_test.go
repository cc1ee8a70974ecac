package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/domain"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/internal/infrastructure/persistence"
	"flea_market/pkg/dbtest"
	"flea_market/pkg/errcodes"
)

func newRepo(t *testing.T) *persistence.OfferRepository {
	t.Helper()

	db := dbtest.SQLite(t, filepath.Join("..", "..", "..", "migrations", "001_offers.sql"))

	return persistence.NewOfferRepository(db)
}

func newOffer(id string, seq uint64, sellerID string, kind value.SellerKind) entity.Offer {
	level := 3

	return entity.Offer{
		ID:         id,
		SequenceID: seq,
		Seller: entity.Seller{
			ID:         sellerID,
			Kind:       kind,
			MemberType: value.MemberCategoryDefault,
			Nickname:   "Bober",
			Rating:     0.7,
		},
		RootItemID: id + "_root",
		Items: []entity.Item{
			{
				ID:  id + "_root",
				Tpl: "ak74",
				Upd: &entity.Upd{
					StackObjectsCount: 1,
					Repairable:        &value.Repairable{Durability: 55, MaxDurability: 80},
				},
			},
			{ID: id + "_mag", Tpl: "mag_ak", ParentID: id + "_root", SlotID: "mod_magazine"},
		},
		HandbookValue: 30000,
		Requirements: []entity.OfferRequirement{
			{Tpl: value.CurrencyRoubles, Count: 27500},
			{Tpl: "dogtag", Count: 1, Level: &level, Side: "Bear"},
		},
		RequirementsCostPerUnit: 27500,
		TotalListingCost:        27500,
		StartTime:               1_700_000_000,
		EndTime:                 1_700_003_600,
		MinLoyaltyLevel:         2,
		SellAsSingleUnit:        true,
	}
}

func TestOfferRepositorySaveAndGet(t *testing.T) {
	rq := require.New(t)
	repo := newRepo(t)
	ctx := context.Background()

	o := newOffer("o1", 7, "bot", value.SellerKindSimulated)
	rq.NoError(repo.Save(ctx, o))

	got, err := repo.GetByID(ctx, "o1")
	rq.NoError(err)
	rq.Equal(o, got)

	o.Locked = true
	o.TotalListingCost = 1
	rq.NoError(repo.Save(ctx, o))

	got, err = repo.GetByID(ctx, "o1")
	rq.NoError(err)
	rq.True(got.Locked)
	rq.Equal(1, got.TotalListingCost)

	n, err := repo.Count(ctx)
	rq.NoError(err)
	rq.Equal(1, n)

	_, err = repo.GetByID(ctx, "missing")
	rq.True(domain.HasCode(err, errcodes.OfferNotFound))
}

func TestOfferRepositoryBatchListDelete(t *testing.T) {
	rq := require.New(t)
	repo := newRepo(t)
	ctx := context.Background()

	rq.NoError(repo.SaveBatch(ctx, []entity.Offer{
		newOffer("t2", 5, "prapor", value.SellerKindTrader),
		newOffer("b1", 1, "bot", value.SellerKindSimulated),
		newOffer("t1", 2, "prapor", value.SellerKindTrader),
		newOffer("b2", 9, "bot", value.SellerKindSimulated),
	}))
	rq.NoError(repo.SaveBatch(ctx, nil))

	traderOffers, err := repo.ListBySeller(ctx, "prapor")
	rq.NoError(err)
	rq.Len(traderOffers, 2)
	rq.Equal("t1", traderOffers[0].ID)
	rq.Equal(value.SellerKindTrader, traderOffers[0].Seller.Kind)

	rq.NoError(repo.DeleteBySeller(ctx, "prapor"))
	rq.NoError(repo.Delete(ctx, "b2"))
	rq.NoError(repo.Delete(ctx))

	all, err := repo.ListAll(ctx)
	rq.NoError(err)
	rq.Len(all, 1)
	rq.Equal("b1", all[0].ID)
}
