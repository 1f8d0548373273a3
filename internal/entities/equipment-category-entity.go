package entities

import "gearguard/pkg/types"

type EquipmentCategory struct {
	ID   uint64 `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	types.BaseEntity
}
