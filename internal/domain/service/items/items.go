package items

import (
	"slices"
	"strings"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
)

type Catalog interface {
	Template(tpl string) (entity.Template, bool)
	Preset(id string) (entity.Preset, bool)
}

type PriceSource interface {
	MarketPrice(tpl string) float64
}

// Helper отвечает на вопросы о шаблонах предметов и перестраивает деревья
// предметов. Безопасен для конкурентного использования.
type Helper struct {
	catalog Catalog
	prices  PriceSource
	rnd     randx.Source
	tuning  config.Tuning
}

func NewHelper(catalog Catalog, prices PriceSource, rnd randx.Source, tuning config.Tuning) *Helper {
	return &Helper{
		catalog: catalog,
		prices:  prices,
		rnd:     rnd,
		tuning:  tuning,
	}
}

func (h *Helper) Template(tpl string) (entity.Template, bool) {
	return h.catalog.Template(tpl)
}

// IsOfBaseClass walks the parent chain of tpl looking for base.
func (h *Helper) IsOfBaseClass(tpl string, base value.BaseClass) bool {
	seen := 0

	for tpl != "" && seen < maxTemplateDepth {
		if tpl == base {
			return true
		}

		t, ok := h.catalog.Template(tpl)
		if !ok {
			return false
		}

		tpl = t.Parent
		seen++
	}

	return false
}

func (h *Helper) IsOfBaseClasses(tpl string, bases []value.BaseClass) bool {
	return slices.ContainsFunc(bases, func(base value.BaseClass) bool {
		return h.IsOfBaseClass(tpl, base)
	})
}

const maxTemplateDepth = 32

// ArmorCanHoldMods reports whether the template is armor gear with plate slots.
func (h *Helper) ArmorCanHoldMods(tpl string) bool {
	return h.IsOfBaseClasses(tpl, []value.BaseClass{
		value.BaseClassHeadwear,
		value.BaseClassVest,
		value.BaseClassArmor,
	})
}

// FindChildren returns the item with rootID and every item below it, keeping
// the input order.
func FindChildren(items []entity.Item, rootID string) []entity.Item {
	ids := map[string]struct{}{rootID: {}}

	// Дети могут идти раньше родителей, поэтому проходим до стабилизации.
	for changed := true; changed; {
		changed = false

		for _, it := range items {
			if _, ok := ids[it.ID]; ok {
				continue
			}

			if _, ok := ids[it.ParentID]; ok && it.ParentID != "" {
				ids[it.ID] = struct{}{}
				changed = true
			}
		}
	}

	return lo.Filter(items, func(it entity.Item, _ int) bool {
		_, ok := ids[it.ID]
		return ok
	})
}

// CloneWithNewIDs deep copies a bundle and assigns fresh ids, keeping parent
// links consistent.
func CloneWithNewIDs(items []entity.Item) []entity.Item {
	out := entity.CloneItems(items)
	mapping := make(map[string]string, len(out))

	for i := range out {
		newID := xid.New().String()
		mapping[out[i].ID] = newID
		out[i].ID = newID
	}

	for i := range out {
		if newParent, ok := mapping[out[i].ParentID]; ok {
			out[i].ParentID = newParent
		}
	}

	return out
}

// AddCartridgesToAmmoBox fills an ammo box root with full cartridge stacks.
func (h *Helper) AddCartridgesToAmmoBox(items []entity.Item, box entity.Template) []entity.Item {
	if len(items) == 0 || len(box.Props.StackSlots) == 0 {
		return items
	}

	slot := box.Props.StackSlots[0]

	cartridgeTpl, ok := slot.Cartridge()
	if !ok {
		return items
	}

	perStack := slot.MaxCount
	if cartridge, ok := h.catalog.Template(cartridgeTpl); ok && cartridge.Props.StackMaxSize > 0 {
		perStack = cartridge.Props.StackMaxSize
	}

	if perStack <= 0 {
		return items
	}

	root := items[0]
	remaining := slot.MaxCount

	for location := 0; remaining > 0; location++ {
		count := min(remaining, perStack)
		loc := location

		items = append(items, entity.Item{
			ID:       xid.New().String(),
			Tpl:      cartridgeTpl,
			ParentID: root.ID,
			SlotID:   value.SlotCartridges,
			Location: &loc,
			Upd:      &entity.Upd{StackObjectsCount: count},
		})

		remaining -= count
	}

	return items
}

// Причины, по которым набор не попадает на барахолку.
const (
	ReasonMissingTemplate = "missing_template"
	ReasonNotItem         = "not_item"
	ReasonBlacklisted     = "blacklisted"
	ReasonNotSellable     = "not_sellable"
	ReasonQuestItem       = "quest_item"
	ReasonCategory        = "category_blacklisted"
	ReasonDamagedAmmo     = "damaged_ammo"
	ReasonNoPrice         = "no_price"
)

// IsValidForMarket checks the bundle root against the marketplace rules and
// returns the failing rule.
func (h *Helper) IsValidForMarket(items []entity.Item) (bool, string) {
	if len(items) == 0 {
		return false, ReasonMissingTemplate
	}

	root := items[0]
	bl := h.tuning.Blacklist

	tpl, ok := h.catalog.Template(root.Tpl)
	if !ok {
		return false, ReasonMissingTemplate
	}

	switch {
	case tpl.Type != value.TemplateTypeItem:
		return false, ReasonNotItem
	case slices.Contains(bl.Custom, tpl.ID):
		return false, ReasonBlacklisted
	case bl.EnableBsgList && !tpl.Props.CanSellOnRagfair:
		return false, ReasonNotSellable
	case bl.EnableQuestList && tpl.Props.QuestItem:
		return false, ReasonQuestItem
	case bl.EnableCustomItemCategories && h.IsOfBaseClasses(tpl.ID, bl.CustomItemCategoryList):
		return false, ReasonCategory
	case bl.DamagedAmmoPacks && h.IsOfBaseClass(tpl.ID, value.BaseClassAmmoBox) &&
		strings.Contains(tpl.Name, "_damaged"):
		return false, ReasonDamagedAmmo
	case h.prices.MarketPrice(tpl.ID) <= 0:
		return false, ReasonNoPrice
	}

	return true, ""
}

// CalculateDynamicStackCount picks the stack size of a generated offer.
func (h *Helper) CalculateDynamicStackCount(tpl string, isPreset bool) int {
	if isPreset || h.IsOfBaseClasses(tpl, h.tuning.ShowAsSingleStack) {
		return 1
	}

	t, ok := h.catalog.Template(tpl)
	if !ok {
		return 1
	}

	if t.Props.StackMaxSize <= 1 {
		return max(h.rnd.Int(h.tuning.NonStackableCount.Min, h.tuning.NonStackableCount.Max), 1)
	}

	percent := h.rnd.Float(h.tuning.StackablePercent.Min, h.tuning.StackablePercent.Max)

	return max(randx.Round(float64(t.Props.StackMaxSize)/100*percent), 1) //nolint:mnd // percent
}

// RemoveBannedPlatesFromPreset drops plates above the allowed protection level
// from armor presets. Plates in exempt slots stay. Reports whether anything was
// removed.
func (h *Helper) RemoveBannedPlatesFromPreset(items []entity.Item, rules config.PlateLevelBlacklist) ([]entity.Item, bool) {
	if len(items) == 0 || !h.ArmorCanHoldMods(items[0].Tpl) {
		return items, false
	}

	root := items[0]
	banned := make(map[string]struct{})

	for _, it := range items {
		if it.ParentID != root.ID || !h.isPlateSlot(it) {
			continue
		}

		if slices.Contains(rules.ExemptSlots, strings.ToLower(it.SlotID)) {
			continue
		}

		plate, ok := h.catalog.Template(it.Tpl)
		if !ok || plate.Props.ArmorClass <= rules.MaxProtectionLevel {
			continue
		}

		banned[it.ID] = struct{}{}
	}

	if len(banned) == 0 {
		return items, false
	}

	return removeWithDescendants(items, banned), true
}

// RemovePlates strips every root child sitting in one of the given slots.
func (h *Helper) RemovePlates(items []entity.Item, slots []string) []entity.Item {
	if len(items) == 0 {
		return items
	}

	root := items[0]

	targets := make(map[string]struct{})
	for _, it := range items {
		if it.ParentID == root.ID && slices.Contains(slots, strings.ToLower(it.SlotID)) {
			targets[it.ID] = struct{}{}
		}
	}

	if len(targets) == 0 {
		return items
	}

	return removeWithDescendants(items, targets)
}

func (h *Helper) isPlateSlot(it entity.Item) bool {
	if slices.Contains(h.tuning.ArmorPlateRemovableSlots, strings.ToLower(it.SlotID)) {
		return true
	}

	return h.IsOfBaseClass(it.Tpl, value.BaseClassArmorPlate)
}

func removeWithDescendants(items []entity.Item, ids map[string]struct{}) []entity.Item {
	for changed := true; changed; {
		changed = false

		for _, it := range items {
			if _, ok := ids[it.ID]; ok {
				continue
			}

			if _, ok := ids[it.ParentID]; ok {
				ids[it.ID] = struct{}{}
				changed = true
			}
		}
	}

	return lo.Filter(items, func(it entity.Item, _ int) bool {
		_, ok := ids[it.ID]
		return !ok
	})
}
