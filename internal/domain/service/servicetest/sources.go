package servicetest

import (
	"maps"
	"slices"

	"flea_market/internal/domain/entity"
)

const (
	TraderPrapor  = "54cb50c76803fa8b248b4571"
	TraderTherapy = "54cb57776803fa99248b456e"
	PlayerID      = "5f0c6a6e1c2b3a0001a1b2c3"
)

// Traders is an in-memory TraderSource.
type Traders struct {
	Bases   map[string]entity.TraderBase
	Assorts map[string]entity.TraderAssort
}

func NewTraders() *Traders {
	return &Traders{
		Bases: map[string]entity.TraderBase{
			TraderPrapor:  {ID: TraderPrapor, Nickname: "Prapor", Currency: "RUB", NextResupply: 1_700_003_600},
			TraderTherapy: {ID: TraderTherapy, Nickname: "Therapist", Currency: "RUB", NextResupply: 1_700_003_600},
		},
		Assorts: map[string]entity.TraderAssort{},
	}
}

func (t *Traders) IsTrader(id string) bool {
	_, ok := t.Bases[id]
	return ok
}

func (t *Traders) Base(id string) (entity.TraderBase, bool) {
	b, ok := t.Bases[id]
	return b, ok
}

func (t *Traders) Assort(id string) (entity.TraderAssort, bool) {
	a, ok := t.Assorts[id]
	return a, ok
}

func (t *Traders) TraderIDs() []string {
	return slices.Sorted(maps.Keys(t.Bases))
}

// Profiles is an in-memory ProfileSource.
type Profiles map[string]entity.PlayerProfile

func NewProfiles() Profiles {
	return Profiles{
		PlayerID: {ID: PlayerID, Nickname: "Tagilla_Fan", MemberCategory: 0, Rating: 0.42, IsRatingGrowing: true},
	}
}

func (p Profiles) PlayerProfile(id string) (entity.PlayerProfile, bool) {
	profile, ok := p[id]
	return profile, ok
}
