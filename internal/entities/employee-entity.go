package entities

import "gearguard/pkg/types"

type Employee struct {
	ID           uint64  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password"`
	Role         string  `json:"role" db:"role"`
	TeamID       *uint64 `json:"team_id" db:"team_id"`

	types.BaseEntity

	// Связанные данные (не колонки таблицы)
	Team *Team `db:"-"`
}
