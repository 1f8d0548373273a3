package dto

type CreateEmployeeDTO struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=ADMIN MANAGER TECHNICIAN EMPLOYEE"`
	TeamID   *uint64 `json:"team_id" validate:"omitempty,gt=0"`
}

type UpdateEmployeeDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MANAGER TECHNICIAN EMPLOYEE"`
	TeamID *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

type EmployeeDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	Team *ShortTeamDTO `json:"team,omitempty"`

	CreatedAt string `json:"created_at"`
}
