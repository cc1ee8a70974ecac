package entity

type TraderBase struct {
	ID           string `json:"_id"`
	Nickname     string `json:"nickname"`
	Currency     string `json:"currency"`
	NextResupply int64  `json:"nextResupply"`
}

// TraderAssort is a trader's fixed catalog. BarterScheme and LoyalLevelItems
// are keyed by top level item id.
type TraderAssort struct {
	Items           []Item                          `json:"items"`
	BarterScheme    map[string][][]OfferRequirement `json:"barter_scheme"`
	LoyalLevelItems map[string]int                  `json:"loyal_level_items"`
}

func (a TraderAssort) IsEmpty() bool {
	return len(a.Items) == 0
}
