package entities

import "gearguard/pkg/types"

type Equipment struct {
	ID                  uint64  `json:"id" db:"id"`
	Name                string  `json:"name" db:"name"`
	SerialNumber        string  `json:"serial_number" db:"serial_number"`
	Location            string  `json:"location" db:"location"`
	CategoryID          uint64  `json:"category_id" db:"category_id"`
	TeamID              uint64  `json:"team_id" db:"team_id"`
	DefaultTechnicianID *uint64 `json:"default_technician_id" db:"default_technician_id"`
	EmployeeID          *uint64 `json:"employee_id" db:"employee_id"`
	IsActive            bool    `json:"is_active" db:"is_active"`

	types.BaseEntity

	// Связанные данные (не колонки таблицы)
	Category *EquipmentCategory `db:"-"`
	Team     *Team              `db:"-"`
}
