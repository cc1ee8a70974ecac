// Package servicetest holds an in-memory game database shared by service tests.
package servicetest

import (
	"maps"
	"slices"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/value"
)

const (
	TplItemRoot    = "54009119af1c881c07000029"
	TplAK          = "ak74"
	TplMagazine    = "mag_ak"
	TplArmor       = "armor_vest"
	TplPlateHigh   = "plate_lvl6"
	TplPlateLow    = "plate_lvl3"
	TplSidePlate   = "side_plate_lvl5"
	TplHelmet      = "helmet"
	TplVisor       = "visor"
	TplMedkit      = "salewa"
	TplKey         = "key_dorm"
	TplWater       = "water"
	TplRepairKit   = "repair_kit"
	TplFuel        = "fuel"
	TplBolts       = "bolts"
	TplScrews      = "screws"
	TplGPU         = "gpu"
	TplAmmo        = "ammo_545"
	TplAmmoBox     = "ammo_box_545"
	TplDamagedBox  = "ammo_box_damaged"
	TplQuestItem   = "quest_folder"
	TplNotSellable = "flash_drive"
	TplCheap       = "matches"
	TplNoPrice     = "pristine_nothing"

	PresetAK    = "preset_ak"
	PresetArmor = "preset_armor"
)

// Catalog implements the catalog and price lookups used by services.
type Catalog struct {
	Templates map[string]entity.Template
	PresetMap map[string]entity.Preset
	Market    map[string]float64
	Handbook  map[string]float64
}

func NewCatalog() *Catalog {
	c := &Catalog{
		Templates: map[string]entity.Template{},
		PresetMap: map[string]entity.Preset{},
		Market:    map[string]float64{},
		Handbook:  map[string]float64{},
	}

	c.node(TplItemRoot, "")

	for _, base := range []string{
		value.BaseClassWeapon, value.BaseClassArmoredEquipment, value.BaseClassMeds,
		value.BaseClassKey, value.BaseClassFoodDrink, value.BaseClassRepairKits, value.BaseClassFuel,
		value.BaseClassAmmo, value.BaseClassAmmoBox, value.BaseClassMoney, value.BaseClassBarterItem,
	} {
		c.node(base, TplItemRoot)
	}

	c.node(value.BaseClassArmor, value.BaseClassArmoredEquipment)
	c.node(value.BaseClassVest, value.BaseClassArmoredEquipment)
	c.node(value.BaseClassHeadwear, value.BaseClassArmoredEquipment)
	c.node(value.BaseClassArmorPlate, value.BaseClassArmoredEquipment)
	c.node(value.BaseClassMedkit, value.BaseClassMeds)
	c.node(value.BaseClassKeyMechanical, value.BaseClassKey)
	c.node(value.BaseClassDrink, value.BaseClassFoodDrink)

	c.item(TplAK, value.BaseClassWeapon, 30000, entity.Props{MaxDurability: 100, Durability: 100})
	c.item(TplMagazine, TplItemRoot, 1500, entity.Props{})
	c.item(TplArmor, value.BaseClassArmor, 50000, entity.Props{ArmorClass: 4, MaxDurability: 60})
	c.item(TplPlateHigh, value.BaseClassArmorPlate, 40000, entity.Props{ArmorClass: 6, MaxDurability: 80})
	c.item(TplPlateLow, value.BaseClassArmorPlate, 15000, entity.Props{ArmorClass: 3, MaxDurability: 40})
	c.item(TplSidePlate, value.BaseClassArmorPlate, 20000, entity.Props{ArmorClass: 5, MaxDurability: 30})
	c.item(TplHelmet, value.BaseClassHeadwear, 35000, entity.Props{ArmorClass: 4, MaxDurability: 40})
	c.item(TplVisor, value.BaseClassArmoredEquipment, 12000, entity.Props{
		ArmorClass: 2, MaxDurability: 30, FaceShieldComponent: true,
	})
	c.item(TplMedkit, value.BaseClassMedkit, 20000, entity.Props{MaxHpResource: 400})
	c.item(TplKey, value.BaseClassKeyMechanical, 60000, entity.Props{MaximumNumberOfUsage: 40})
	c.item(TplWater, value.BaseClassDrink, 8000, entity.Props{MaxResource: 60, FoodUseTime: 5})
	c.item(TplRepairKit, value.BaseClassRepairKits, 90000, entity.Props{MaxRepairResource: 1000})
	c.item(TplFuel, value.BaseClassFuel, 45000, entity.Props{MaxResource: 100})
	c.item(TplBolts, value.BaseClassBarterItem, 9000, entity.Props{StackMaxSize: 1})
	c.item(TplScrews, value.BaseClassBarterItem, 11000, entity.Props{StackMaxSize: 1})
	c.item(TplGPU, value.BaseClassBarterItem, 250000, entity.Props{StackMaxSize: 1})
	c.item(TplCheap, value.BaseClassBarterItem, 300, entity.Props{StackMaxSize: 1})
	c.item(TplAmmo, value.BaseClassAmmo, 200, entity.Props{StackMaxSize: 60})
	c.item(TplAmmoBox, value.BaseClassAmmoBox, 20000, entity.Props{})
	c.item(TplDamagedBox, value.BaseClassAmmoBox, 5000, entity.Props{})
	c.item(TplQuestItem, value.BaseClassBarterItem, 1000, entity.Props{QuestItem: true})
	c.item(TplNotSellable, value.BaseClassBarterItem, 1000, entity.Props{})
	c.item(TplNoPrice, value.BaseClassBarterItem, 0, entity.Props{})

	box := c.Templates[TplAmmoBox]
	box.Props.StackSlots = []entity.StackSlot{cartridgeSlot(TplAmmo, 120)}
	c.Templates[TplAmmoBox] = box

	damaged := c.Templates[TplDamagedBox]
	damaged.Name = "ammo_box_545_damaged"
	damaged.Props.StackSlots = []entity.StackSlot{cartridgeSlot(TplAmmo, 30)}
	c.Templates[TplDamagedBox] = damaged

	notSellable := c.Templates[TplNotSellable]
	notSellable.Props.CanSellOnRagfair = false
	c.Templates[TplNotSellable] = notSellable

	c.item(value.CurrencyRoubles, value.BaseClassMoney, 1, entity.Props{StackMaxSize: 500000})
	c.item(value.CurrencyDollars, value.BaseClassMoney, 140, entity.Props{StackMaxSize: 50000})
	c.item(value.CurrencyEuros, value.BaseClassMoney, 150, entity.Props{StackMaxSize: 50000})

	c.PresetMap[PresetAK] = entity.Preset{
		ID:           PresetAK,
		Name:         "AK default",
		Encyclopedia: TplAK,
		Items: []entity.Item{
			{ID: "ak_root", Tpl: TplAK},
			{ID: "ak_mag", Tpl: TplMagazine, ParentID: "ak_root", SlotID: "mod_magazine"},
		},
	}

	c.PresetMap[PresetArmor] = entity.Preset{
		ID:           PresetArmor,
		Name:         "Armor default",
		Encyclopedia: TplArmor,
		Items:        ArmorBundle("armor_root"),
	}

	return c
}

// ArmorBundle returns an armor vest with a level 6 front plate, a level 3 back
// plate and a level 5 left side plate.
func ArmorBundle(rootID string) []entity.Item {
	return []entity.Item{
		{ID: rootID, Tpl: TplArmor},
		{ID: rootID + "_front", Tpl: TplPlateHigh, ParentID: rootID, SlotID: "Front_plate"},
		{ID: rootID + "_back", Tpl: TplPlateLow, ParentID: rootID, SlotID: "Back_plate"},
		{ID: rootID + "_left", Tpl: TplSidePlate, ParentID: rootID, SlotID: "Left_side_plate"},
	}
}

func (c *Catalog) Template(tpl string) (entity.Template, bool) {
	t, ok := c.Templates[tpl]
	return t, ok
}

func (c *Catalog) Preset(id string) (entity.Preset, bool) {
	p, ok := c.PresetMap[id]
	return p, ok
}

func (c *Catalog) AllTemplates() []entity.Template {
	keys := slices.Sorted(maps.Keys(c.Templates))

	out := make([]entity.Template, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.Templates[k])
	}

	return out
}

func (c *Catalog) AllPresets() []entity.Preset {
	keys := slices.Sorted(maps.Keys(c.PresetMap))

	out := make([]entity.Preset, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.PresetMap[k])
	}

	return out
}

func (c *Catalog) HandbookPrice(tpl string) (float64, bool) {
	p, ok := c.Handbook[tpl]
	return p, ok
}

func (c *Catalog) MarketPrices() map[string]float64 {
	return maps.Clone(c.Market)
}

// MarketPrice lets the catalog stand in for the price oracle.
func (c *Catalog) MarketPrice(tpl string) float64 {
	if p, ok := c.Market[tpl]; ok {
		return p
	}

	return c.Handbook[tpl]
}

func (c *Catalog) node(id, parent string) {
	c.Templates[id] = entity.Template{ID: id, Name: id, Parent: parent, Type: "Node"}
}

func (c *Catalog) item(id, parent string, price float64, props entity.Props) {
	props.CanSellOnRagfair = true

	c.Templates[id] = entity.Template{
		ID:     id,
		Name:   id,
		Parent: parent,
		Type:   value.TemplateTypeItem,
		Props:  props,
	}

	c.Handbook[id] = price
	c.Market[id] = price
}

func cartridgeSlot(ammoTpl string, maxCount int) entity.StackSlot {
	var slot entity.StackSlot

	slot.Name = value.SlotCartridges
	slot.MaxCount = maxCount
	slot.Props.Filters = []struct {
		Filter []string `json:"Filter"`
	}{{Filter: []string{ammoTpl}}}

	return slot
}
