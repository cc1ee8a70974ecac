package seller

import (
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

type TraderSource interface {
	IsTrader(id string) bool
}

type ProfileSource interface {
	PlayerProfile(id string) (entity.PlayerProfile, bool)
}

// Resolver строит публичную карточку продавца.
type Resolver struct {
	traders  TraderSource
	profiles ProfileSource
	rnd      randx.Source

	names       []string
	ratingRange value.FloatRange
}

func NewResolver(traders TraderSource, profiles ProfileSource, rnd randx.Source, ratingRange value.FloatRange) *Resolver {
	return &Resolver{
		traders:     traders,
		profiles:    profiles,
		rnd:         rnd,
		ratingRange: ratingRange,
	}
}

// WithNames sets the nickname pool used for simulated sellers.
func (r *Resolver) WithNames(names []string) *Resolver {
	r.names = names
	return r
}

// Kind classifies the seller without building the record.
func (r *Resolver) Kind(sellerID string) value.SellerKind {
	if r.traders.IsTrader(sellerID) {
		return value.SellerKindTrader
	}

	if _, ok := r.profiles.PlayerProfile(sellerID); ok {
		return value.SellerKindPlayer
	}

	return value.SellerKindSimulated
}

func (r *Resolver) Resolve(sellerID string) entity.Seller {
	if r.traders.IsTrader(sellerID) {
		return entity.Seller{
			ID:         sellerID,
			Kind:       value.SellerKindTrader,
			MemberType: value.MemberCategoryTrader,
		}
	}

	if profile, ok := r.profiles.PlayerProfile(sellerID); ok {
		return entity.Seller{
			ID:              sellerID,
			Kind:            value.SellerKindPlayer,
			MemberType:      profile.MemberCategory,
			Nickname:        profile.Nickname,
			Rating:          profile.Rating,
			IsRatingGrowing: profile.IsRatingGrowing,
		}
	}

	nickname, ok := randx.Pick(r.rnd, r.names)
	if !ok {
		nickname = sellerID
	}

	return entity.Seller{
		ID:              sellerID,
		Kind:            value.SellerKindSimulated,
		MemberType:      value.MemberCategoryDefault,
		Nickname:        nickname,
		Rating:          r.rnd.Float(r.ratingRange.Min, r.ratingRange.Max),
		IsRatingGrowing: r.rnd.Bool(),
	}
}
