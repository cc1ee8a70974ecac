package condition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flea_market/internal/config"
	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/condition"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/service/servicetest"
	"flea_market/internal/domain/value"
	"flea_market/pkg/randx"
	"flea_market/pkg/tests"
)

const (
	traderID = "trader"
	playerID = "player"
	botID    = "bot"
)

type sellerKinds map[string]value.SellerKind

func (k sellerKinds) Kind(id string) value.SellerKind {
	if kind, ok := k[id]; ok {
		return kind
	}

	return value.SellerKindSimulated
}

func newRandomizer(rnd randx.Source) *condition.Randomizer {
	catalog := servicetest.NewCatalog()
	tuning := config.DefaultTuning()
	helper := items.NewHelper(catalog, catalog, rnd, tuning)

	return condition.NewRandomizer(
		helper,
		sellerKinds{traderID: value.SellerKindTrader, playerID: value.SellerKindPlayer},
		rnd,
		tuning.ConditionRangesByBaseClass,
	)
}

func alwaysRoll() tests.Randomizer {
	return tests.Randomizer{Chance100Func: func(float64) bool { return true }}
}

func TestRandomizeConditionSkipsTradersAndPlayers(t *testing.T) {
	rq := require.New(t)
	r := newRandomizer(alwaysRoll())

	for _, seller := range []string{traderID, playerID} {
		bundle := []entity.Item{{ID: "w", Tpl: servicetest.TplAK}}
		r.RandomizeCondition(bundle, seller)
		rq.Nil(bundle[0].Upd, seller)
	}
}

func TestRandomizeCondition(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		rnd   randx.Source
		items []entity.Item
		check func(bundle []entity.Item)
	}{
		{
			name:  "Roll lost keeps pristine weapon",
			rnd:   tests.NewRandomizer(),
			items: []entity.Item{{ID: "w", Tpl: servicetest.TplAK}},
			check: func(bundle []entity.Item) {
				rq.Equal(&value.Repairable{Durability: 100, MaxDurability: 100}, bundle[0].Upd.Repairable)
			},
		},
		{
			name:  "Roll won wears weapon with lowest multipliers",
			rnd:   alwaysRoll(),
			items: []entity.Item{{ID: "w", Tpl: servicetest.TplAK}},
			check: func(bundle []entity.Item) {
				// max multiplier 0.6 -> 60, current multiplier 0.45 -> 27.
				rq.Equal(&value.Repairable{Durability: 27, MaxDurability: 60}, bundle[0].Upd.Repairable)
			},
		},
		{
			name:  "No range for base class keeps baseline",
			rnd:   alwaysRoll(),
			items: []entity.Item{{ID: "k", Tpl: servicetest.TplKey}},
			check: func(bundle []entity.Item) {
				rq.Equal(&value.Key{NumberOfUsages: 0}, bundle[0].Upd.Key)
			},
		},
		{
			name:  "Generic item gets no payload",
			rnd:   alwaysRoll(),
			items: []entity.Item{{ID: "b", Tpl: servicetest.TplBolts}},
			check: func(bundle []entity.Item) {
				rq.Nil(bundle[0].Upd)
			},
		},
		{
			name: "Children receive baseline too",
			rnd:  tests.NewRandomizer(),
			items: []entity.Item{
				{ID: "w", Tpl: servicetest.TplAK},
				{ID: "m", Tpl: servicetest.TplMagazine, ParentID: "w", SlotID: "mod_magazine"},
				{ID: "h", Tpl: servicetest.TplMedkit, ParentID: "w", SlotID: "x"},
			},
			check: func(bundle []entity.Item) {
				rq.Nil(bundle[1].Upd)
				rq.Equal(&value.MedKit{HpResource: 400}, bundle[2].Upd.MedKit)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			bundle := entity.CloneItems(tc.items)
			newRandomizer(tc.rnd).RandomizeCondition(bundle, botID)
			tc.check(bundle)
		})
	}
}

func TestEnsureBaselineConditionIdempotent(t *testing.T) {
	rq := require.New(t)
	r := newRandomizer(tests.NewRandomizer())

	for _, tpl := range []string{
		servicetest.TplAK, servicetest.TplMedkit, servicetest.TplKey,
		servicetest.TplWater, servicetest.TplRepairKit, servicetest.TplBolts,
	} {
		once := entity.Item{ID: "x", Tpl: tpl}
		r.EnsureBaselineCondition(&once)

		twice := once.Clone()
		r.EnsureBaselineCondition(&twice)

		rq.Equal(once, twice, tpl)
	}

	water := entity.Item{ID: "x", Tpl: servicetest.TplWater}
	r.EnsureBaselineCondition(&water)
	rq.Equal(&value.FoodDrink{HpPercent: 60}, water.Upd.FoodDrink)

	kit := entity.Item{ID: "x", Tpl: servicetest.TplRepairKit}
	r.EnsureBaselineCondition(&kit)
	rq.Equal(&value.RepairKit{Resource: 1000}, kit.Upd.RepairKit)
}

func TestApplyConditionBounds(t *testing.T) {
	rq := require.New(t)
	r := newRandomizer(randx.New(11))

	original := map[string]float64{
		servicetest.TplArmor:     60,
		servicetest.TplPlateHigh: 80,
		servicetest.TplPlateLow:  40,
		servicetest.TplSidePlate: 30,
	}

	for range 500 {
		bundle := servicetest.ArmorBundle("a")
		r.ApplyCondition(bundle, 0.5, 0.5)

		for _, it := range bundle {
			rq.NotNil(it.Upd, it.Tpl)
			rep := it.Upd.Repairable
			rq.LessOrEqual(rep.Durability, rep.MaxDurability)
			rq.LessOrEqual(rep.MaxDurability, original[it.Tpl])
			rq.GreaterOrEqual(rep.MaxDurability, original[it.Tpl]*0.5)
			rq.GreaterOrEqual(rep.Durability, 1.0)
		}
	}
}

func TestApplyConditionWeaponScenario(t *testing.T) {
	rq := require.New(t)
	r := newRandomizer(randx.New(3))

	for range 500 {
		bundle := []entity.Item{{ID: "w", Tpl: servicetest.TplAK}}
		r.ApplyCondition(bundle, 0.8, 0.5)

		rep := bundle[0].Upd.Repairable
		rq.GreaterOrEqual(rep.MaxDurability, 80.0)
		rq.LessOrEqual(rep.MaxDurability, 100.0)
		rq.GreaterOrEqual(rep.Durability, float64(randx.Round(0.5*rep.MaxDurability)))
		rq.LessOrEqual(rep.Durability, rep.MaxDurability)
		rq.Equal(float64(int(rep.Durability)), rep.Durability)
	}
}

func TestApplyConditionByKind(t *testing.T) {
	rq := require.New(t)
	r := newRandomizer(tests.NewRandomizer())

	testCases := []struct {
		name          string
		tpl           string
		maxMultiplier float64
		check         func(upd *entity.Upd)
	}{
		{
			name:          "Medical",
			tpl:           servicetest.TplMedkit,
			maxMultiplier: 0.5,
			check:         func(upd *entity.Upd) { rq.Equal(&value.MedKit{HpResource: 200}, upd.MedKit) },
		},
		{
			name:          "Medical floored at one",
			tpl:           servicetest.TplMedkit,
			maxMultiplier: 0,
			check:         func(upd *entity.Upd) { rq.Equal(&value.MedKit{HpResource: 1}, upd.MedKit) },
		},
		{
			name:          "Key usages",
			tpl:           servicetest.TplKey,
			maxMultiplier: 0.25,
			check:         func(upd *entity.Upd) { rq.Equal(&value.Key{NumberOfUsages: 30}, upd.Key) },
		},
		{
			name:          "Key usages floored at zero",
			tpl:           servicetest.TplKey,
			maxMultiplier: 1,
			check:         func(upd *entity.Upd) { rq.Equal(&value.Key{NumberOfUsages: 0}, upd.Key) },
		},
		{
			name:          "Food",
			tpl:           servicetest.TplWater,
			maxMultiplier: 0.5,
			check:         func(upd *entity.Upd) { rq.Equal(&value.FoodDrink{HpPercent: 30}, upd.FoodDrink) },
		},
		{
			name:          "Repair kit",
			tpl:           servicetest.TplRepairKit,
			maxMultiplier: 0.3,
			check:         func(upd *entity.Upd) { rq.Equal(&value.RepairKit{Resource: 300}, upd.RepairKit) },
		},
		{
			name:          "Fuel",
			tpl:           servicetest.TplFuel,
			maxMultiplier: 0.37,
			check: func(upd *entity.Upd) {
				rq.Equal(&value.Resource{Value: 37, UnitsConsumed: 63}, upd.Resource)
			},
		},
		{
			name:          "Generic untouched",
			tpl:           servicetest.TplBolts,
			maxMultiplier: 0.5,
			check:         func(upd *entity.Upd) { rq.Nil(upd) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			bundle := []entity.Item{{ID: "x", Tpl: tc.tpl}}
			r.ApplyCondition(bundle, tc.maxMultiplier, 0.5)
			tc.check(bundle[0].Upd)
		})
	}
}

func TestApplyConditionFaceShield(t *testing.T) {
	rq := require.New(t)

	helmet := func() []entity.Item {
		return []entity.Item{
			{ID: "h", Tpl: servicetest.TplHelmet},
			{ID: "v", Tpl: servicetest.TplVisor, ParentID: "h", SlotID: value.SlotFaceShield},
		}
	}

	bundle := helmet()
	newRandomizer(tests.AlwaysMax()).ApplyCondition(bundle, 0.5, 0.5)
	rq.Equal(&value.FaceShield{Hits: 3}, bundle[1].Upd.FaceShield)
	rq.NotNil(bundle[1].Upd.Repairable)
	rq.Nil(bundle[0].Upd.FaceShield)

	bundle = helmet()
	newRandomizer(tests.NewRandomizer()).ApplyCondition(bundle, 0.5, 0.5)
	rq.Nil(bundle[1].Upd.FaceShield)
}

func TestEnsureBaselineConditionUnlimitedKey(t *testing.T) {
	rq := require.New(t)

	catalog := servicetest.NewCatalog()
	catalog.Templates["key_unlimited"] = entity.Template{
		ID:     "key_unlimited",
		Parent: value.BaseClassKeyMechanical,
		Type:   value.TemplateTypeItem,
	}

	rnd := tests.NewRandomizer()
	tuning := config.DefaultTuning()
	r := condition.NewRandomizer(items.NewHelper(catalog, catalog, rnd, tuning), sellerKinds{}, rnd, tuning.ConditionRangesByBaseClass)

	unlimited := entity.Item{ID: "u", Tpl: "key_unlimited"}
	r.EnsureBaselineCondition(&unlimited)
	rq.True(unlimited.Upd == nil || unlimited.Upd.Key == nil)

	limited := entity.Item{ID: "l", Tpl: servicetest.TplKey}
	r.EnsureBaselineCondition(&limited)
	rq.Equal(&value.Key{NumberOfUsages: 0}, limited.Upd.Key)
}

func TestRandomizeConditionPrefersClosestBaseClass(t *testing.T) {
	rq := require.New(t)

	catalog := servicetest.NewCatalog()
	tuning := config.DefaultTuning()

	// шлем подходит под оба класса, id родителя сортируется раньше
	ranges := map[string]config.ConditionRange{
		value.BaseClassArmoredEquipment: {RollChancePercent: 10},
		value.BaseClassHeadwear:         {RollChancePercent: 90},
	}

	var rolled []float64

	rnd := tests.Randomizer{Chance100Func: func(p float64) bool {
		rolled = append(rolled, p)
		return false
	}}

	r := condition.NewRandomizer(items.NewHelper(catalog, catalog, rnd, tuning), sellerKinds{}, rnd, ranges)
	r.RandomizeCondition([]entity.Item{{ID: "h", Tpl: servicetest.TplHelmet}}, botID)

	rq.Equal([]float64{90}, rolled)

	rolled = nil
	r.RandomizeCondition([]entity.Item{{ID: "a", Tpl: servicetest.TplVisor}}, botID)

	rq.Equal([]float64{10}, rolled)
}
