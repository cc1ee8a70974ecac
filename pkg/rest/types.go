// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import jsoniter "github.com/json-iterator/go"

// Item Предмет лота
type Item struct {
	ID       string              `json:"_id" validate:"required"`
	Tpl      string              `json:"_tpl" validate:"required"`
	ParentID string              `json:"parentId,omitempty"`
	SlotID   string              `json:"slotId,omitempty"`
	Location *int                `json:"location,omitempty"`
	Upd      jsoniter.RawMessage `json:"upd,omitempty"`
}

// Requirement Строка оплаты
type Requirement struct {
	Tpl            string  `json:"_tpl" validate:"required"`
	Count          float64 `json:"count" validate:"gt=0"`
	OnlyFunctional bool    `json:"onlyFunctional"`
	// Level Уровень жетона (только для бартера жетонами)
	Level *int `json:"level,omitempty" validate:"omitempty,gte=1"`
	// Side Сторона жетона: Any, Bear или Usec
	Side string `json:"side,omitempty" validate:"omitempty,oneof=Any Bear Usec"`
}

// Seller Продавец
type Seller struct {
	ID              string  `json:"id"`
	MemberType      int     `json:"memberType"`
	Nickname        string  `json:"nickname,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	IsRatingGrowing bool    `json:"isRatingGrowing,omitempty"`
}

// Offer Лот барахолки
type Offer struct {
	ID               string        `json:"_id"`
	IntID            uint64        `json:"intId"`
	User             Seller        `json:"user"`
	Root             string        `json:"root"`
	Items            []Item        `json:"items"`
	ItemsCost        int           `json:"itemsCost"`
	Requirements     []Requirement `json:"requirements"`
	RequirementsCost int           `json:"requirementsCost"`
	SummaryCost      int           `json:"summaryCost"`
	StartTime        int64         `json:"startTime"`
	EndTime          int64         `json:"endTime"`
	LoyaltyLevel     int           `json:"loyaltyLevel"`
	SellInOnePiece   bool          `json:"sellInOnePiece"`
	Locked           bool          `json:"locked"`
}

// OfferList Страница лотов
type OfferList struct {
	Offers []Offer `json:"offers"`
	Total  int     `json:"total"`
}

// CreateOfferRequest Выставление лота игроком
type CreateOfferRequest struct {
	Items          []Item        `json:"items" validate:"required,min=1,dive"`
	Requirements   []Requirement `json:"requirements" validate:"required,min=1,dive"`
	SellInOnePiece bool          `json:"sellInOnePiece"`
}

// GenerateRequest Запуск генерации
type GenerateRequest struct {
	// Count Сколько наборов взять (0 - все)
	Count int `json:"count" validate:"gte=0"`
}

// GenerateResult Итог генерации
type GenerateResult struct {
	Bundles int `json:"bundles"`
	Skipped int `json:"skipped"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// TraderSyncResult Итог синхронизации торговца
type TraderSyncResult struct {
	TraderID string `json:"traderId"`
	Created  int    `json:"created"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	SupportID string `json:"supportId,omitempty"`
}

// ErrorCode Код ошибки
type ErrorCode string
