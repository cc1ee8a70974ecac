package entity

// Offer - лот на барахолке.
type Offer struct {
	ID                      string             `json:"_id"`
	SequenceID              uint64             `json:"intId"`
	Seller                  Seller             `json:"user"`
	RootItemID              string             `json:"root"`
	Items                   []Item             `json:"items"`
	HandbookValue           int                `json:"itemsCost"`
	Requirements            []OfferRequirement `json:"requirements"`
	RequirementsCostPerUnit int                `json:"requirementsCost"`
	TotalListingCost        int                `json:"summaryCost"`
	StartTime               int64              `json:"startTime"`
	EndTime                 int64              `json:"endTime"`
	MinLoyaltyLevel         int                `json:"loyaltyLevel"`
	SellAsSingleUnit        bool               `json:"sellInOnePiece"`
	Locked                  bool               `json:"locked"`
}

// OfferRequirement is one payment line. The same shape is used by trader
// barter schemes.
type OfferRequirement struct {
	Tpl            string  `json:"_tpl"`
	Count          float64 `json:"count"`
	OnlyFunctional bool    `json:"onlyFunctional"`
	Level          *int    `json:"level,omitempty"`
	Side           string  `json:"side,omitempty"`
}

// Root returns the bundle's top level item.
func (o Offer) Root() (Item, bool) {
	for _, it := range o.Items {
		if it.ID == o.RootItemID {
			return it, true
		}
	}

	return Item{}, false
}

// StackCount returns the root item's stack size.
func (o Offer) StackCount() int {
	root, ok := o.Root()
	if !ok {
		return 1
	}

	return root.StackCount()
}

func (o Offer) IsExpired(now int64) bool {
	return o.EndTime <= now
}
