package server

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"flea_market/internal/domain/entity"
	"flea_market/pkg/lox"
	"flea_market/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

func newRESTOffer(offer entity.Offer) rest.Offer {
	return rest.Offer{
		ID:    offer.ID,
		IntID: offer.SequenceID,
		User: rest.Seller{
			ID:              offer.Seller.ID,
			MemberType:      int(offer.Seller.MemberType),
			Nickname:        offer.Seller.Nickname,
			Rating:          offer.Seller.Rating,
			IsRatingGrowing: offer.Seller.IsRatingGrowing,
		},
		Root:             offer.RootItemID,
		Items:            lox.Map(offer.Items, newRESTItem),
		ItemsCost:        offer.HandbookValue,
		Requirements:     lox.Map(offer.Requirements, newRESTRequirement),
		RequirementsCost: offer.RequirementsCostPerUnit,
		SummaryCost:      offer.TotalListingCost,
		StartTime:        offer.StartTime,
		EndTime:          offer.EndTime,
		LoyaltyLevel:     offer.MinLoyaltyLevel,
		SellInOnePiece:   offer.SellAsSingleUnit,
		Locked:           offer.Locked,
	}
}

func newRESTItem(item entity.Item) rest.Item {
	out := rest.Item{
		ID:       item.ID,
		Tpl:      item.Tpl,
		ParentID: item.ParentID,
		SlotID:   item.SlotID,
		Location: item.Location,
	}

	if item.Upd != nil {
		out.Upd, _ = json.Marshal(item.Upd) //nolint:errchkjson
	}

	return out
}

func newRESTRequirement(req entity.OfferRequirement) rest.Requirement {
	return rest.Requirement{
		Tpl:            req.Tpl,
		Count:          req.Count,
		OnlyFunctional: req.OnlyFunctional,
		Level:          req.Level,
		Side:           req.Side,
	}
}

func newDomainItem(item rest.Item) (entity.Item, error) {
	out := entity.Item{
		ID:       item.ID,
		Tpl:      item.Tpl,
		ParentID: item.ParentID,
		SlotID:   item.SlotID,
		Location: item.Location,
	}

	if len(item.Upd) > 0 {
		var upd entity.Upd

		if err := json.Unmarshal(item.Upd, &upd); err != nil {
			return entity.Item{}, fmt.Errorf("item %s upd: %w", item.ID, err)
		}

		out.Upd = &upd
	}

	return out, nil
}

func newDomainRequirement(req rest.Requirement) entity.OfferRequirement {
	return entity.OfferRequirement{
		Tpl:            req.Tpl,
		Count:          req.Count,
		OnlyFunctional: req.OnlyFunctional,
		Level:          req.Level,
		Side:           req.Side,
	}
}
