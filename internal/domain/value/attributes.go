package value

// Атрибуты состояния предмета (upd). Указатели nil означают, что у шаблона нет
// такого свойства.

type Repairable struct {
	Durability    float64 `json:"Durability"`
	MaxDurability float64 `json:"MaxDurability"`
}

type MedKit struct {
	HpResource float64 `json:"HpResource"`
}

type Key struct {
	NumberOfUsages int `json:"NumberOfUsages"`
}

type FoodDrink struct {
	HpPercent float64 `json:"HpPercent"`
}

type RepairKit struct {
	Resource float64 `json:"Resource"`
}

type Resource struct {
	Value         float64 `json:"Value"`
	UnitsConsumed float64 `json:"UnitsConsumed"`
}

type FaceShield struct {
	Hits int `json:"Hits"`
}
