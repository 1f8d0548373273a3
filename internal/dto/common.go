package dto

type ShortEmployeeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortTeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortStageDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortCategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ShortEquipmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
