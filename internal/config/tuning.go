package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"flea_market/internal/domain/value"
)

// Tuning - настройки генерации лотов (configs/ragfair.yaml).
type Tuning struct {
	OfferCountRange value.IntRange `yaml:"offer_count_range"`

	BarterChancePercent         float64        `yaml:"barter_chance_percent" validate:"gte=0,lte=100"`
	BarterMinRoubleValue        float64        `yaml:"barter_min_rouble_value" validate:"gte=0"`
	BarterItemCountRange        value.IntRange `yaml:"barter_item_count_range"`
	BarterPriceTolerancePercent float64        `yaml:"barter_price_tolerance_percent" validate:"gte=0,lte=100"`
	BarterItemBlacklist         []string       `yaml:"barter_item_blacklist"`
	BarterMakeSingleStackOnly   bool           `yaml:"barter_make_single_stack_only"`

	PackChancePercent     float64        `yaml:"pack_chance_percent" validate:"gte=0,lte=100"`
	PackItemTypeWhitelist []string       `yaml:"pack_item_type_whitelist"`
	PackItemCountRange    value.IntRange `yaml:"pack_item_count_range"`

	ArmorPlateRemovalChancePercent float64  `yaml:"armor_plate_removal_chance_percent" validate:"gte=0,lte=100"`
	ArmorPlateRemovableSlots       []string `yaml:"armor_plate_removable_slots"`

	ConditionRangesByBaseClass map[string]ConditionRange `yaml:"condition_ranges_by_base_class" validate:"dive"`

	RatingRange                       value.FloatRange `yaml:"rating_range"`
	SimulatedSellerOfferDurationRange value.IntRange   `yaml:"simulated_seller_offer_duration_range"`
	PlayerOfferDurationHours          int              `yaml:"player_offer_duration_hours" validate:"gt=0"`
	TraderUpdateSeconds               int              `yaml:"trader_update_seconds" validate:"gt=0"`

	PlateLevelBlacklist PlateLevelBlacklist `yaml:"plate_level_blacklist"`

	Currencies        map[string]float64 `yaml:"currencies" validate:"min=1,dive,gte=0"`
	PriceRanges       PriceRanges        `yaml:"price_ranges"`
	ShowAsSingleStack []string           `yaml:"show_as_single_stack"`
	NonStackableCount value.IntRange     `yaml:"non_stackable_count"`
	StackablePercent  value.FloatRange   `yaml:"stackable_percent"`

	Blacklist Blacklist `yaml:"blacklist"`

	Workers         int           `yaml:"workers" validate:"gt=0"`
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gt=0"`
	Traders         []string      `yaml:"traders"`
}

type ConditionRange struct {
	CurrentMultiplierRange value.FloatRange `yaml:"current_multiplier_range"`
	MaxMultiplierRange     value.FloatRange `yaml:"max_multiplier_range"`
	RollChancePercent      float64          `yaml:"roll_chance_percent" validate:"gte=0,lte=100"`
}

type PlateLevelBlacklist struct {
	Enabled            bool     `yaml:"enabled"`
	MaxProtectionLevel int      `yaml:"max_protection_level" validate:"gte=0"`
	ExemptSlots        []string `yaml:"exempt_slots"`
}

// PriceRanges - множитель к рыночной цене в зависимости от формы лота.
type PriceRanges struct {
	Default value.FloatRange `yaml:"default"`
	Preset  value.FloatRange `yaml:"preset"`
	Pack    value.FloatRange `yaml:"pack"`
}

type Blacklist struct {
	EnableBsgList              bool     `yaml:"enable_bsg_list"`
	EnableQuestList            bool     `yaml:"enable_quest_list"`
	DamagedAmmoPacks           bool     `yaml:"damaged_ammo_packs"`
	TraderItems                bool     `yaml:"trader_items"`
	Custom                     []string `yaml:"custom"`
	CustomItemCategoryList     []string `yaml:"custom_item_category_list"`
	EnableCustomItemCategories bool     `yaml:"enable_custom_item_category_list"`
}

func DefaultTuning() Tuning {
	return Tuning{
		OfferCountRange:             value.IntRange{Min: 7, Max: 30},
		BarterChancePercent:         12,
		BarterMinRoubleValue:        5000,
		BarterItemCountRange:        value.IntRange{Min: 1, Max: 5},
		BarterPriceTolerancePercent: 15,
		BarterItemBlacklist: []string{
			value.BaseClassMoney,
			value.BaseClassAmmo,
			value.BaseClassAmmoBox,
		},
		BarterMakeSingleStackOnly: true,
		PackChancePercent:         10,
		PackItemTypeWhitelist: []string{
			value.BaseClassAmmo,
			value.BaseClassBarterItem,
		},
		PackItemCountRange:             value.IntRange{Min: 10, Max: 30},
		ArmorPlateRemovalChancePercent: 40,
		ArmorPlateRemovableSlots: []string{
			value.SlotFrontPlate,
			value.SlotBackPlate,
			value.SlotLeftSidePlate,
			value.SlotRightSidePlate,
		},
		ConditionRangesByBaseClass: map[string]ConditionRange{
			value.BaseClassWeapon: {
				CurrentMultiplierRange: value.FloatRange{Min: 0.45, Max: 1},
				MaxMultiplierRange:     value.FloatRange{Min: 0.6, Max: 1},
				RollChancePercent:      50,
			},
			value.BaseClassArmor: {
				CurrentMultiplierRange: value.FloatRange{Min: 0.5, Max: 1},
				MaxMultiplierRange:     value.FloatRange{Min: 0.6, Max: 1},
				RollChancePercent:      40,
			},
			value.BaseClassMedkit: {
				CurrentMultiplierRange: value.FloatRange{Min: 0.6, Max: 1},
				MaxMultiplierRange:     value.FloatRange{Min: 0.6, Max: 1},
				RollChancePercent:      40,
			},
		},
		RatingRange:                       value.FloatRange{Min: 0.1, Max: 0.95},
		SimulatedSellerOfferDurationRange: value.IntRange{Min: 60 * 60, Max: 10 * 60 * 60},
		PlayerOfferDurationHours:          12,
		TraderUpdateSeconds:               3600,
		PlateLevelBlacklist: PlateLevelBlacklist{
			Enabled:            true,
			MaxProtectionLevel: 4,
			ExemptSlots:        []string{value.SlotLeftSidePlate, value.SlotRightSidePlate},
		},
		Currencies: map[string]float64{
			value.CurrencyRoubles: 78,
			value.CurrencyDollars: 20,
			value.CurrencyEuros:   2,
		},
		PriceRanges: PriceRanges{
			Default: value.FloatRange{Min: 0.85, Max: 1.15},
			Preset:  value.FloatRange{Min: 0.8, Max: 1.2},
			Pack:    value.FloatRange{Min: 0.95, Max: 1.3},
		},
		ShowAsSingleStack: []string{value.BaseClassWeapon, value.BaseClassArmor},
		NonStackableCount: value.IntRange{Min: 1, Max: 10},
		StackablePercent:  value.FloatRange{Min: 50, Max: 500},
		Blacklist: Blacklist{
			EnableBsgList:    true,
			EnableQuestList:  true,
			DamagedAmmoPacks: true,
			TraderItems:      false,
		},
		Workers:         8,
		RefreshInterval: time.Minute,
	}
}

// LoadTuning reads the YAML file on top of DefaultTuning. An empty path
// returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()

	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("os.ReadFile: %w", err)
	}

	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("ragfair.yaml: %w", err)
	}

	if err := t.Validate(); err != nil {
		return t, err
	}

	return t, nil
}

func (t Tuning) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(t); err != nil {
		return fmt.Errorf("tuning validation: %w", err)
	}

	return nil
}
