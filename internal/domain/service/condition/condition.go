package condition

import (
	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

const (
	faceShieldChancePercent = 25
	faceShieldMaxHits       = 3
	minArmorClass           = 1
	maxTemplateDepth        = 32
)

type ItemHelper interface {
	Template(tpl string) (entity.Template, bool)
	IsOfBaseClass(tpl string, base value.BaseClass) bool
	ConditionKindOf(tpl string) items.ConditionKind
}

type SellerKinds interface {
	Kind(sellerID string) value.SellerKind
}

// Randomizer изнашивает предметы лотов симулированных продавцов.
type Randomizer struct {
	helper  ItemHelper
	sellers SellerKinds
	rnd     randx.Source

	ranges map[string]config.ConditionRange
}

func NewRandomizer(
	helper ItemHelper,
	sellers SellerKinds,
	rnd randx.Source,
	ranges map[string]config.ConditionRange,
) *Randomizer {
	return &Randomizer{
		helper:  helper,
		sellers: sellers,
		rnd:     rnd,
		ranges:  ranges,
	}
}

// RandomizeCondition wears the bundle in place. Trader and player offers are
// left untouched.
func (r *Randomizer) RandomizeCondition(bundle []entity.Item, sellerID string) {
	if len(bundle) == 0 {
		return
	}

	if kind := r.sellers.Kind(sellerID); kind == value.SellerKindTrader || kind == value.SellerKindPlayer {
		return
	}

	for i := range bundle {
		r.EnsureBaselineCondition(&bundle[i])
	}

	cfg, ok := r.rangeFor(bundle[0].Tpl)
	if !ok {
		return
	}

	if !r.rnd.Chance100(cfg.RollChancePercent) {
		return
	}

	maxMultiplier := r.rnd.Float(cfg.MaxMultiplierRange.Min, cfg.MaxMultiplierRange.Max)
	currentMultiplier := r.rnd.Float(cfg.CurrentMultiplierRange.Min, cfg.CurrentMultiplierRange.Max)

	r.ApplyCondition(bundle, maxMultiplier, currentMultiplier)
}

// EnsureBaselineCondition gives the item the pristine state of its template.
// The first matching property wins.
func (r *Randomizer) EnsureBaselineCondition(item *entity.Item) {
	t, ok := r.helper.Template(item.Tpl)
	if !ok {
		return
	}

	p := t.Props

	switch {
	case p.MaxDurability > 0:
		item.EnsureUpd().Repairable = &value.Repairable{Durability: p.MaxDurability, MaxDurability: p.MaxDurability}
	case p.MaxHpResource > 0:
		item.EnsureUpd().MedKit = &value.MedKit{HpResource: p.MaxHpResource}
	case p.MaximumNumberOfUsage > 0 && r.helper.IsOfBaseClass(item.Tpl, value.BaseClassKey):
		item.EnsureUpd().Key = &value.Key{NumberOfUsages: 0}
	case p.MaxResource > 0 && p.FoodUseTime > 0:
		item.EnsureUpd().FoodDrink = &value.FoodDrink{HpPercent: p.MaxResource}
	case p.MaxRepairResource > 0:
		item.EnsureUpd().RepairKit = &value.RepairKit{Resource: p.MaxRepairResource}
	}
}

// ApplyCondition wears the bundle with already sampled multipliers.
func (r *Randomizer) ApplyCondition(bundle []entity.Item, maxMultiplier, currentMultiplier float64) {
	root := &bundle[0]

	t, ok := r.helper.Template(root.Tpl)
	if !ok {
		return
	}

	p := t.Props

	switch r.helper.ConditionKindOf(root.Tpl) {
	case items.KindArmor:
		r.wearArmor(bundle, maxMultiplier, currentMultiplier)
	case items.KindWeapon:
		r.wearDurability(root, p.MaxDurability, maxMultiplier, currentMultiplier)
	case items.KindMedical:
		root.EnsureUpd().MedKit = &value.MedKit{
			HpResource: float64(max(randx.Round(p.MaxHpResource*maxMultiplier), 1)),
		}
	case items.KindKey:
		root.EnsureUpd().Key = &value.Key{
			NumberOfUsages: max(randx.Round(float64(p.MaximumNumberOfUsage)*(1-maxMultiplier)), 0),
		}
	case items.KindConsumable:
		root.EnsureUpd().FoodDrink = &value.FoodDrink{
			HpPercent: float64(max(randx.Round(p.MaxResource*maxMultiplier), 1)),
		}
	case items.KindRepairKit:
		root.EnsureUpd().RepairKit = &value.RepairKit{
			Resource: float64(max(randx.Round(p.MaxRepairResource*maxMultiplier), 1)),
		}
	case items.KindFuel:
		remaining := float64(randx.Round(p.MaxResource * maxMultiplier))
		root.EnsureUpd().Resource = &value.Resource{
			Value:         remaining,
			UnitsConsumed: p.MaxResource - remaining,
		}
	case items.KindGeneric:
	}
}

func (r *Randomizer) wearArmor(bundle []entity.Item, maxMultiplier, currentMultiplier float64) {
	for i := range bundle {
		t, ok := r.helper.Template(bundle[i].Tpl)
		if !ok || t.Props.ArmorClass <= minArmorClass {
			continue
		}

		r.wearDurability(&bundle[i], t.Props.MaxDurability, maxMultiplier, currentMultiplier)
	}

	if !r.rnd.Chance100(faceShieldChancePercent) {
		return
	}

	for i := range bundle {
		t, ok := r.helper.Template(bundle[i].Tpl)
		if !ok || !t.Props.FaceShieldComponent {
			continue
		}

		bundle[i].EnsureUpd().FaceShield = &value.FaceShield{Hits: r.rnd.Int(1, faceShieldMaxHits)}

		return
	}
}

func (r *Randomizer) wearDurability(item *entity.Item, baseMax, maxMultiplier, currentMultiplier float64) {
	if baseMax <= 0 {
		return
	}

	newMax := max(randx.Round(r.rnd.Float(maxMultiplier, 1)*baseMax), 1)
	newCurrent := max(randx.Round(r.rnd.Float(currentMultiplier, 1)*float64(newMax)), 1)

	item.EnsureUpd().Repairable = &value.Repairable{
		Durability:    float64(newCurrent),
		MaxDurability: float64(newMax),
	}
}

// rangeFor returns the range of the closest configured ancestor of tpl.
func (r *Randomizer) rangeFor(tpl string) (config.ConditionRange, bool) {
	for depth := 0; tpl != "" && depth < maxTemplateDepth; depth++ {
		if cfg, ok := r.ranges[tpl]; ok {
			return cfg, true
		}

		t, ok := r.helper.Template(tpl)
		if !ok {
			break
		}

		tpl = t.Parent
	}

	return config.ConditionRange{}, false
}
