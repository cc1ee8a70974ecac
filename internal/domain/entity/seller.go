package entity

import "flea_market/internal/domain/value"

// Seller is the public record attached to an offer.
type Seller struct {
	ID              string               `json:"id"`
	Kind            value.SellerKind     `json:"-"`
	MemberType      value.MemberCategory `json:"memberType"`
	Nickname        string               `json:"nickname,omitempty"`
	Rating          float64              `json:"rating,omitempty"`
	IsRatingGrowing bool                 `json:"isRatingGrowing,omitempty"`
	Avatar          string               `json:"avatar,omitempty"`
}

func (s Seller) IsTrader() bool {
	return s.Kind == value.SellerKindTrader
}

func (s Seller) IsPlayer() bool {
	return s.Kind == value.SellerKindPlayer
}

// PlayerProfile is the part of a player's profile the marketplace reads.
type PlayerProfile struct {
	ID              string               `json:"_id"`
	Nickname        string               `json:"nickname"`
	MemberCategory  value.MemberCategory `json:"memberCategory"`
	Rating          float64              `json:"rating"`
	IsRatingGrowing bool                 `json:"isRatingGrowing"`
}
