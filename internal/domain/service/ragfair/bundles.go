package ragfair

import (
	"github.com/rs/xid"

	"flea_market/internal/domain/entity"
	"flea_market/internal/domain/service/items"
	"flea_market/internal/domain/value"
)

type CandidateCatalog interface {
	AllTemplates() []entity.Template
	AllPresets() []entity.Preset
}

// Базовые классы, которые никогда не выставляются.
var invalidCandidateBases = []value.BaseClass{ //nolint:gochecknoglobals
	value.BaseClassInventory,
	value.BaseClassPocket,
	value.BaseClassBuiltInInserts,
	value.BaseClassMoney,
}

// CandidateBundles returns one bundle per preset and one single item bundle per
// template that has no preset. Market validity is checked by the generator.
func CandidateBundles(catalog CandidateCatalog, helper ItemHelper) [][]entity.Item {
	presets := catalog.AllPresets()
	withPreset := make(map[string]struct{}, len(presets))
	out := make([][]entity.Item, 0, len(presets))

	for _, p := range presets {
		if len(p.Items) == 0 {
			continue
		}

		withPreset[p.Encyclopedia] = struct{}{}

		bundle := items.CloneWithNewIDs(p.Items)
		bundle[0].EnsureUpd().PresetID = p.ID
		out = append(out, bundle)
	}

	for _, t := range catalog.AllTemplates() {
		if t.Type != value.TemplateTypeItem {
			continue
		}

		if _, ok := withPreset[t.ID]; ok {
			continue
		}

		if helper.IsOfBaseClasses(t.ID, invalidCandidateBases) {
			continue
		}

		out = append(out, []entity.Item{{ID: xid.New().String(), Tpl: t.ID}})
	}

	return out
}
