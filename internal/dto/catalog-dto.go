package dto

type StageDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Sequence     int    `json:"sequence"`
	IsClosing    bool   `json:"is_closing"`
	IsScrapState bool   `json:"is_scrap_state"`
}

type CategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type CreateCategoryDTO struct {
	Name string `json:"name" validate:"required,min=2"`
}
