package entity

import (
	"flea_market/internal/domain/value"
)

// Item is one node of an item tree: a root item and its attachments share a
// flat slice and link to each other through ParentID/SlotID.
type Item struct {
	ID       string `json:"_id"`
	Tpl      string `json:"_tpl"`
	ParentID string `json:"parentId,omitempty"`
	SlotID   string `json:"slotId,omitempty"`
	Location *int   `json:"location,omitempty"`
	Upd      *Upd   `json:"upd,omitempty"`
}

// Upd holds the mutable state of an item.
type Upd struct {
	StackObjectsCount int               `json:"StackObjectsCount,omitempty"`
	PresetID          string            `json:"sptPresetId,omitempty"`
	Repairable        *value.Repairable `json:"Repairable,omitempty"`
	MedKit            *value.MedKit     `json:"MedKit,omitempty"`
	Key               *value.Key        `json:"Key,omitempty"`
	FoodDrink         *value.FoodDrink  `json:"FoodDrink,omitempty"`
	RepairKit         *value.RepairKit  `json:"RepairKit,omitempty"`
	Resource          *value.Resource   `json:"Resource,omitempty"`
	FaceShield        *value.FaceShield `json:"FaceShield,omitempty"`
}

// StackCount returns the stack size, treating a missing upd as a single item.
func (i Item) StackCount() int {
	if i.Upd == nil || i.Upd.StackObjectsCount < 1 {
		return 1
	}

	return i.Upd.StackObjectsCount
}

// EnsureUpd returns the item's upd, allocating it when missing.
func (i *Item) EnsureUpd() *Upd {
	if i.Upd == nil {
		i.Upd = &Upd{}
	}

	return i.Upd
}

func (i Item) Clone() Item {
	c := i

	if i.Location != nil {
		loc := *i.Location
		c.Location = &loc
	}

	if i.Upd != nil {
		u := i.Upd.clone()
		c.Upd = &u
	}

	return c
}

func (u Upd) clone() Upd {
	c := u

	if u.Repairable != nil {
		v := *u.Repairable
		c.Repairable = &v
	}

	if u.MedKit != nil {
		v := *u.MedKit
		c.MedKit = &v
	}

	if u.Key != nil {
		v := *u.Key
		c.Key = &v
	}

	if u.FoodDrink != nil {
		v := *u.FoodDrink
		c.FoodDrink = &v
	}

	if u.RepairKit != nil {
		v := *u.RepairKit
		c.RepairKit = &v
	}

	if u.Resource != nil {
		v := *u.Resource
		c.Resource = &v
	}

	if u.FaceShield != nil {
		v := *u.FaceShield
		c.FaceShield = &v
	}

	return c
}

// CloneItems deep copies a bundle.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}

	out := make([]Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}

	return out
}
