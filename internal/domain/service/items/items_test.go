package items_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/service/servicetest"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
	"flea_market/pkg/tests"
)

func newHelper(rnd randx.Source) (*items.Helper, *servicetest.Catalog) {
	catalog := servicetest.NewCatalog()
	return items.NewHelper(catalog, catalog, rnd, config.DefaultTuning()), catalog
}

func TestIsOfBaseClass(t *testing.T) {
	rq := require.New(t)
	h, _ := newHelper(tests.NewRandomizer())

	rq.True(h.IsOfBaseClass(servicetest.TplKey, value.BaseClassKeyMechanical))
	rq.True(h.IsOfBaseClass(servicetest.TplKey, value.BaseClassKey))
	rq.False(h.IsOfBaseClass(servicetest.TplKey, value.BaseClassWeapon))
	rq.True(h.IsOfBaseClass(value.BaseClassKey, value.BaseClassKey))
	rq.False(h.IsOfBaseClass("unknown", value.BaseClassKey))

	rq.True(h.ArmorCanHoldMods(servicetest.TplArmor))
	rq.True(h.ArmorCanHoldMods(servicetest.TplHelmet))
	rq.False(h.ArmorCanHoldMods(servicetest.TplPlateHigh))
}

func TestConditionKindOf(t *testing.T) {
	rq := require.New(t)
	h, _ := newHelper(tests.NewRandomizer())

	testCases := []struct {
		tpl  string
		kind items.ConditionKind
	}{
		{tpl: servicetest.TplArmor, kind: items.KindArmor},
		{tpl: servicetest.TplPlateHigh, kind: items.KindArmor},
		{tpl: servicetest.TplVisor, kind: items.KindArmor},
		{tpl: servicetest.TplAK, kind: items.KindWeapon},
		{tpl: servicetest.TplMedkit, kind: items.KindMedical},
		{tpl: servicetest.TplKey, kind: items.KindKey},
		{tpl: servicetest.TplWater, kind: items.KindConsumable},
		{tpl: servicetest.TplRepairKit, kind: items.KindRepairKit},
		{tpl: servicetest.TplFuel, kind: items.KindFuel},
		{tpl: servicetest.TplBolts, kind: items.KindGeneric},
		{tpl: "missing", kind: items.KindGeneric},
	}

	for _, tc := range testCases {
		t.Run(tc.tpl, func(*testing.T) {
			rq.Equal(tc.kind, h.ConditionKindOf(tc.tpl), tc.kind.String())
		})
	}
}

func TestFindChildren(t *testing.T) {
	rq := require.New(t)

	bundle := []entity.Item{
		{ID: "grandchild", Tpl: "c", ParentID: "child"},
		{ID: "root", Tpl: "a"},
		{ID: "child", Tpl: "b", ParentID: "root"},
		{ID: "other", Tpl: "d"},
		{ID: "other_child", Tpl: "e", ParentID: "other"},
	}

	found := items.FindChildren(bundle, "root")
	rq.Len(found, 3)
	rq.Equal("grandchild", found[0].ID)
	rq.Equal("root", found[1].ID)
	rq.Equal("child", found[2].ID)

	rq.Len(items.FindChildren(bundle, "other_child"), 1)
	rq.Empty(items.FindChildren(bundle, "absent"))
}

func TestCloneWithNewIDs(t *testing.T) {
	rq := require.New(t)

	original := servicetest.ArmorBundle("root")
	original[0].Upd = &entity.Upd{Repairable: &value.Repairable{Durability: 10, MaxDurability: 60}}

	cloned := items.CloneWithNewIDs(original)
	rq.Len(cloned, len(original))

	seen := map[string]struct{}{}
	for i, it := range cloned {
		rq.NotEqual(original[i].ID, it.ID)
		rq.Equal(original[i].Tpl, it.Tpl)
		seen[it.ID] = struct{}{}
	}

	rq.Len(seen, len(cloned))

	for _, it := range cloned[1:] {
		rq.Equal(cloned[0].ID, it.ParentID)
	}

	cloned[0].Upd.Repairable.Durability = 60
	rq.InDelta(10, original[0].Upd.Repairable.Durability, 1e-9)
}

func TestAddCartridgesToAmmoBox(t *testing.T) {
	rq := require.New(t)
	h, catalog := newHelper(tests.NewRandomizer())

	box := []entity.Item{{ID: "box", Tpl: servicetest.TplAmmoBox}}
	filled := h.AddCartridgesToAmmoBox(box, catalog.Templates[servicetest.TplAmmoBox])

	// 120 cartridges, 60 per stack.
	rq.Len(filled, 3)

	total := 0
	for i, it := range filled[1:] {
		rq.Equal(servicetest.TplAmmo, it.Tpl)
		rq.Equal("box", it.ParentID)
		rq.Equal(value.SlotCartridges, it.SlotID)
		rq.Equal(i, *it.Location)
		total += it.StackCount()
	}

	rq.Equal(120, total)

	rq.Len(h.AddCartridgesToAmmoBox(box, catalog.Templates[servicetest.TplAK]), 1)
}

func TestIsValidForMarket(t *testing.T) {
	rq := require.New(t)
	h, _ := newHelper(tests.NewRandomizer())

	testCases := []struct {
		tpl    string
		valid  bool
		reason string
	}{
		{tpl: servicetest.TplAK, valid: true},
		{tpl: "missing", reason: items.ReasonMissingTemplate},
		{tpl: value.BaseClassWeapon, reason: items.ReasonNotItem},
		{tpl: servicetest.TplNotSellable, reason: items.ReasonNotSellable},
		{tpl: servicetest.TplQuestItem, reason: items.ReasonQuestItem},
		{tpl: servicetest.TplDamagedBox, reason: items.ReasonDamagedAmmo},
		{tpl: servicetest.TplNoPrice, reason: items.ReasonNoPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.tpl, func(*testing.T) {
			valid, reason := h.IsValidForMarket([]entity.Item{{ID: "x", Tpl: tc.tpl}})
			rq.Equal(tc.valid, valid)
			rq.Equal(tc.reason, reason)
		})
	}

	valid, reason := h.IsValidForMarket(nil)
	rq.False(valid)
	rq.Equal(items.ReasonMissingTemplate, reason)
}

func TestIsValidForMarketCustomBlacklist(t *testing.T) {
	rq := require.New(t)
	catalog := servicetest.NewCatalog()

	tuning := config.DefaultTuning()
	tuning.Blacklist.Custom = []string{servicetest.TplGPU}
	tuning.Blacklist.EnableCustomItemCategories = true
	tuning.Blacklist.CustomItemCategoryList = []string{value.BaseClassFuel}

	h := items.NewHelper(catalog, catalog, tests.NewRandomizer(), tuning)

	valid, reason := h.IsValidForMarket([]entity.Item{{ID: "x", Tpl: servicetest.TplGPU}})
	rq.False(valid)
	rq.Equal(items.ReasonBlacklisted, reason)

	valid, reason = h.IsValidForMarket([]entity.Item{{ID: "x", Tpl: servicetest.TplFuel}})
	rq.False(valid)
	rq.Equal(items.ReasonCategory, reason)
}

func TestCalculateDynamicStackCount(t *testing.T) {
	rq := require.New(t)

	h, _ := newHelper(tests.AlwaysMax())

	rq.Equal(1, h.CalculateDynamicStackCount(servicetest.TplAmmo, true))
	rq.Equal(1, h.CalculateDynamicStackCount(servicetest.TplAK, false))
	// Non stackable: upper bound of non_stackable_count.
	rq.Equal(10, h.CalculateDynamicStackCount(servicetest.TplBolts, false))
	// Stackable: 60 * 500%.
	rq.Equal(300, h.CalculateDynamicStackCount(servicetest.TplAmmo, false))

	low, _ := newHelper(tests.NewRandomizer())
	rq.Equal(1, low.CalculateDynamicStackCount(servicetest.TplBolts, false))
	rq.Equal(30, low.CalculateDynamicStackCount(servicetest.TplAmmo, false))
	rq.Equal(1, low.CalculateDynamicStackCount("missing", false))
}

func TestRemoveBannedPlatesFromPreset(t *testing.T) {
	rq := require.New(t)
	h, _ := newHelper(tests.NewRandomizer())

	bundle := servicetest.ArmorBundle("root")
	bundle = append(bundle, entity.Item{ID: "root_front_sticker", Tpl: servicetest.TplBolts, ParentID: "root_front"})

	rules := config.PlateLevelBlacklist{
		Enabled:            true,
		MaxProtectionLevel: 4,
		ExemptSlots:        []string{value.SlotLeftSidePlate},
	}

	filtered, changed := h.RemoveBannedPlatesFromPreset(bundle, rules)
	rq.True(changed)

	ids := make([]string, 0, len(filtered))
	for _, it := range filtered {
		ids = append(ids, it.ID)
	}

	// Level 6 front plate and its child removed, level 5 side plate exempt.
	rq.Equal([]string{"root", "root_back", "root_left"}, ids)
	rq.Len(bundle, 5)

	_, changed = h.RemoveBannedPlatesFromPreset(filtered, rules)
	rq.False(changed)

	weapon := []entity.Item{{ID: "w", Tpl: servicetest.TplAK}}
	out, changed := h.RemoveBannedPlatesFromPreset(weapon, rules)
	rq.False(changed)
	rq.Equal(weapon, out)
}

func TestRemovePlates(t *testing.T) {
	rq := require.New(t)
	h, _ := newHelper(tests.NewRandomizer())

	out := h.RemovePlates(servicetest.ArmorBundle("root"), []string{value.SlotFrontPlate, value.SlotBackPlate})
	rq.Len(out, 2)
	rq.Equal("root", out[0].ID)
	rq.Equal("root_left", out[1].ID)
}
