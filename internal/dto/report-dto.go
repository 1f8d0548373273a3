package dto

// BreakdownRowDTO — строка отчёта «заявки в разрезе команды/категории».
type BreakdownRowDTO struct {
	Group string `json:"group"`
	Count uint64 `json:"count"`
}
