package items

import (
	"flea_market/internal/domain/value"
)

// ConditionKind - категория износа предмета, определяется по шаблону один раз.
type ConditionKind int

const (
	KindGeneric ConditionKind = iota
	KindArmor
	KindWeapon
	KindMedical
	KindKey
	KindConsumable
	KindRepairKit
	KindFuel
)

func (k ConditionKind) String() string {
	switch k {
	case KindArmor:
		return "armor"
	case KindWeapon:
		return "weapon"
	case KindMedical:
		return "medical"
	case KindKey:
		return "key"
	case KindConsumable:
		return "consumable"
	case KindRepairKit:
		return "repair_kit"
	case KindFuel:
		return "fuel"
	default:
		return "generic"
	}
}

var armoredBaseClasses = []value.BaseClass{ //nolint:gochecknoglobals
	value.BaseClassArmor,
	value.BaseClassVest,
	value.BaseClassHeadwear,
	value.BaseClassArmorPlate,
	value.BaseClassArmoredEquipment,
}

// ConditionKindOf resolves the wear category of a template. The first matching
// category wins.
func (h *Helper) ConditionKindOf(tpl string) ConditionKind {
	t, ok := h.catalog.Template(tpl)
	if !ok {
		return KindGeneric
	}

	p := t.Props

	switch {
	case h.IsOfBaseClasses(tpl, armoredBaseClasses):
		return KindArmor
	case h.IsOfBaseClass(tpl, value.BaseClassWeapon):
		return KindWeapon
	case p.MaxHpResource > 0:
		return KindMedical
	case h.IsOfBaseClass(tpl, value.BaseClassKey) && p.MaximumNumberOfUsage > 1:
		return KindKey
	case p.MaxResource > 0 && p.FoodUseTime > 0:
		return KindConsumable
	case p.MaxRepairResource > 0:
		return KindRepairKit
	case h.IsOfBaseClass(tpl, value.BaseClassFuel):
		return KindFuel
	default:
		return KindGeneric
	}
}
