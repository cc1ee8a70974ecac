package entity

// Template описывает шаблон предмета из базы игры.
type Template struct {
	ID     string `json:"_id"`
	Name   string `json:"_name"`
	Parent string `json:"_parent"`
	Type   string `json:"_type"`
	Props  Props  `json:"_props"`
}

type Props struct {
	Name                 string      `json:"Name,omitempty"`
	StackMaxSize         int         `json:"StackMaxSize,omitempty"`
	CanSellOnRagfair     bool        `json:"CanSellOnRagfair,omitempty"`
	QuestItem            bool        `json:"QuestItem,omitempty"`
	MaxDurability        float64     `json:"MaxDurability,omitempty"`
	Durability           float64     `json:"Durability,omitempty"`
	ArmorClass           int         `json:"armorClass,omitempty"`
	MaxHpResource        float64     `json:"MaxHpResource,omitempty"`
	MaximumNumberOfUsage int         `json:"MaximumNumberOfUsage,omitempty"`
	MaxResource          float64     `json:"MaxResource,omitempty"`
	FoodUseTime          float64     `json:"foodUseTime,omitempty"`
	MaxRepairResource    float64     `json:"MaxRepairResource,omitempty"`
	FaceShieldComponent  bool        `json:"FaceShieldComponent,omitempty"`
	StackSlots           []StackSlot `json:"StackSlots,omitempty"`
}

// StackSlot describes what an ammo box holds.
type StackSlot struct {
	Name     string `json:"_name"`
	MaxCount int    `json:"_max_count"`
	Props    struct {
		Filters []struct {
			Filter []string `json:"Filter"`
		} `json:"filters"`
	} `json:"_props"`
}

// Cartridge returns the ammo template the slot accepts.
func (s StackSlot) Cartridge() (string, bool) {
	for _, f := range s.Props.Filters {
		if len(f.Filter) > 0 {
			return f.Filter[0], true
		}
	}

	return "", false
}

// Preset is a prebuilt item tree, e.g. a weapon build or a complete armor.
type Preset struct {
	ID           string `json:"_id"`
	Name         string `json:"_name"`
	Encyclopedia string `json:"_encyclopedia,omitempty"`
	Items        []Item `json:"_items"`
}

// Root returns the preset's top level item.
func (p Preset) Root() (Item, bool) {
	for _, it := range p.Items {
		if it.ParentID == "" || it.ParentID == "hideout" {
			return it, true
		}
	}

	if len(p.Items) > 0 {
		return p.Items[0], true
	}

	return Item{}, false
}
