package entities

import "time"

// Типы заявок на обслуживание.
const (
	RequestTypeCorrective = "CORRECTIVE"
	RequestTypePreventive = "PREVENTIVE"
)

type MaintenanceRequest struct {
	ID          uint64 `json:"id" db:"id"`
	Subject     string `json:"subject" db:"subject"`
	RequestType string `json:"request_type" db:"request_type"`
	StageID     uint64 `json:"stage_id" db:"stage_id"`
	EquipmentID uint64 `json:"equipment_id" db:"equipment_id"`

	// TeamID — снимок команды оборудования на момент создания заявки.
	// Не меняется, даже если оборудование позже передадут другой команде.
	TeamID uint64 `json:"team_id" db:"team_id"`

	TechnicianID  *uint64    `json:"technician_id" db:"technician_id"`
	ScheduledDate *time.Time `json:"scheduled_date" db:"scheduled_date"`
	DurationHours *float64   `json:"duration_hours" db:"duration_hours"`
	CreatedByID   uint64     `json:"created_by_id" db:"created_by"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at" db:"closed_at"`

	// Связанные данные (не колонки таблицы)
	Stage     *MaintenanceStage `db:"-"`
	Equipment *Equipment        `db:"-"`
}

// RequestOverdue: плановая заявка просрочена, если её дата уже прошла,
// а заявка всё ещё не закрыта. Вычисляется при чтении, в базе не хранится.
func RequestOverdue(requestType string, scheduledDate *time.Time, stageIsClosing bool, now time.Time) bool {
	if requestType != RequestTypePreventive || scheduledDate == nil || stageIsClosing {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return scheduledDate.Before(today)
}
