package persistence

import (
	jsoniter "github.com/json-iterator/go"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// offerSchema - строка таблицы offers. Вложенные структуры лежат в JSON.
type offerSchema struct {
	ID               string `db:"id"`
	SequenceID       int64  `db:"sequence_id"`
	SellerID         string `db:"seller_id"`
	SellerKind       string `db:"seller_kind"`
	Seller           string `db:"seller"`
	RootItemID       string `db:"root_item_id"`
	RootTpl          string `db:"root_tpl"`
	Items            string `db:"items"`
	Requirements     string `db:"requirements"`
	HandbookValue    int    `db:"handbook_value"`
	RequirementsCost int    `db:"requirements_cost"`
	SummaryCost      int    `db:"summary_cost"`
	StartTime        int64  `db:"start_time"`
	EndTime          int64  `db:"end_time"`
	LoyaltyLevel     int    `db:"loyalty_level"`
	SellInOnePiece   bool   `db:"sell_in_one_piece"`
	Locked           bool   `db:"locked"`
}

func fromOffer(o entity.Offer) (offerSchema, error) {
	seller, err := json.MarshalToString(o.Seller)
	if err != nil {
		return offerSchema{}, err
	}

	items, err := json.MarshalToString(o.Items)
	if err != nil {
		return offerSchema{}, err
	}

	requirements, err := json.MarshalToString(o.Requirements)
	if err != nil {
		return offerSchema{}, err
	}

	root, _ := o.Root()

	return offerSchema{
		ID:               o.ID,
		SequenceID:       int64(o.SequenceID), //nolint:gosec // sequence ids are small
		SellerID:         o.Seller.ID,
		SellerKind:       string(o.Seller.Kind),
		Seller:           seller,
		RootItemID:       o.RootItemID,
		RootTpl:          root.Tpl,
		Items:            items,
		Requirements:     requirements,
		HandbookValue:    o.HandbookValue,
		RequirementsCost: o.RequirementsCostPerUnit,
		SummaryCost:      o.TotalListingCost,
		StartTime:        o.StartTime,
		EndTime:          o.EndTime,
		LoyaltyLevel:     o.MinLoyaltyLevel,
		SellInOnePiece:   o.SellAsSingleUnit,
		Locked:           o.Locked,
	}, nil
}

func (s offerSchema) toDomain() (entity.Offer, error) {
	o := entity.Offer{
		ID:                      s.ID,
		SequenceID:              uint64(s.SequenceID), //nolint:gosec // never negative
		RootItemID:              s.RootItemID,
		HandbookValue:           s.HandbookValue,
		RequirementsCostPerUnit: s.RequirementsCost,
		TotalListingCost:        s.SummaryCost,
		StartTime:               s.StartTime,
		EndTime:                 s.EndTime,
		MinLoyaltyLevel:         s.LoyaltyLevel,
		SellAsSingleUnit:        s.SellInOnePiece,
		Locked:                  s.Locked,
	}

	if err := json.UnmarshalFromString(s.Seller, &o.Seller); err != nil {
		return entity.Offer{}, err
	}

	if err := json.UnmarshalFromString(s.Items, &o.Items); err != nil {
		return entity.Offer{}, err
	}

	if err := json.UnmarshalFromString(s.Requirements, &o.Requirements); err != nil {
		return entity.Offer{}, err
	}

	o.Seller.Kind = value.SellerKind(s.SellerKind)

	return o, nil
}
