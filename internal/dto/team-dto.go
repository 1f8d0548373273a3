package dto

type CreateTeamDTO struct {
	Name string `json:"name" validate:"required,min=2"`
}

type UpdateTeamDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2"`
}

type TeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`

	Members []ShortEmployeeDTO `json:"members,omitempty"`

	CreatedAt string `json:"created_at"`
}
