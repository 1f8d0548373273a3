package dto

type CreateEquipmentDTO struct {
	Name                string  `json:"name" validate:"required,min=2"`
	SerialNumber        string  `json:"serial_number" validate:"required"`
	Location            string  `json:"location" validate:"required"`
	CategoryID          uint64  `json:"category_id" validate:"required,gt=0"`
	TeamID              uint64  `json:"team_id" validate:"required,gt=0"`
	DefaultTechnicianID *uint64 `json:"default_technician_id" validate:"omitempty,gt=0"`
	EmployeeID          *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
}

type UpdateEquipmentDTO struct {
	Name                *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Location            *string `json:"location,omitempty" validate:"omitempty"`
	CategoryID          *uint64 `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	DefaultTechnicianID *uint64 `json:"default_technician_id,omitempty" validate:"omitempty,gt=0"`
	EmployeeID          *uint64 `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
}

type EquipmentDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Location     string `json:"location"`
	IsActive     bool   `json:"is_active"`

	Category          ShortCategoryDTO  `json:"category"`
	Team              ShortTeamDTO      `json:"team"`
	DefaultTechnician *ShortEmployeeDTO `json:"default_technician,omitempty"`
	Holder            *ShortEmployeeDTO `json:"holder,omitempty"`

	CreatedAt string `json:"created_at"`
}

// EquipmentStatsDTO — сводка по заявкам единицы оборудования («умная кнопка»).
type EquipmentStatsDTO struct {
	EquipmentID   uint64 `json:"equipment_id"`
	TotalRequests uint64 `json:"total_requests"`
	OpenRequests  uint64 `json:"open_requests"`
	Status        string `json:"status"`
}

type ImportReportDTO struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
