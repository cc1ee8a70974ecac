package value

type MemberCategory int

const (
	MemberCategoryDefault       MemberCategory = 0
	MemberCategoryDeveloper     MemberCategory = 1
	MemberCategoryUniqueID      MemberCategory = 2
	MemberCategoryTrader        MemberCategory = 4
	MemberCategoryGroup         MemberCategory = 8
	MemberCategorySystem        MemberCategory = 16
	MemberCategoryChatModerator MemberCategory = 32
	MemberCategoryEmissary      MemberCategory = 64
	MemberCategoryUnheard       MemberCategory = 1024
)

type SellerKind string

const (
	SellerKindTrader    SellerKind = "trader"
	SellerKindPlayer    SellerKind = "player"
	SellerKindSimulated SellerKind = "simulated"
)

func (k SellerKind) String() string {
	return string(k)
}
