package entities

import "time"

// MaintenanceLog — append-only журнал действий движка.
// Записи никогда не обновляются и не удаляются.
type MaintenanceLog struct {
	ID          uint64    `json:"id" db:"id"`
	Message     string    `json:"message" db:"message"`
	RequestID   *uint64   `json:"request_id" db:"request_id"`
	EquipmentID *uint64   `json:"equipment_id" db:"equipment_id"`
	CreatedByID *uint64   `json:"created_by_id" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
