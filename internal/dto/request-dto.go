package dto

type CreateRequestDTO struct {
	Subject       string   `json:"subject" validate:"required,min=3"`
	RequestType   string   `json:"request_type" validate:"required,request_type"`
	EquipmentID   uint64   `json:"equipment_id" validate:"required,gt=0"`
	ScheduledDate string   `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02,today_or_future"`
	DurationHours *float64 `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
}

type AssignRequestDTO struct {
	TechnicianID uint64 `json:"technician_id" validate:"required,gt=0"`
}

type TransitionRequestDTO struct {
	StageID       uint64   `json:"stage_id" validate:"required,gt=0"`
	DurationHours *float64 `json:"duration_hours,omitempty" validate:"omitempty,gt=0"`
}

type RescheduleRequestDTO struct {
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02,today_or_future"`
}

type RequestDTO struct {
	ID          uint64 `json:"id"`
	Subject     string `json:"subject"`
	RequestType string `json:"request_type"`

	Stage     ShortStageDTO     `json:"stage"`
	Equipment ShortEquipmentDTO `json:"equipment"`
	Team      ShortTeamDTO      `json:"team"`

	Technician *ShortEmployeeDTO `json:"technician,omitempty"`
	CreatedBy  ShortEmployeeDTO  `json:"created_by"`

	ScheduledDate string   `json:"scheduled_date,omitempty"`
	DurationHours *float64 `json:"duration_hours,omitempty"`
	IsOverdue     bool     `json:"is_overdue"`

	CreatedAt string `json:"created_at"`
	ClosedAt  string `json:"closed_at,omitempty"`
}

// CalendarEventDTO — событие планового обслуживания для календаря.
type CalendarEventDTO struct {
	RequestID     uint64 `json:"request_id"`
	Subject       string `json:"subject"`
	EquipmentName string `json:"equipment_name"`
	ScheduledDate string `json:"scheduled_date"`
	StageName     string `json:"stage_name"`
}

type LogEntryDTO struct {
	ID        uint64            `json:"id"`
	Message   string            `json:"message"`
	CreatedBy *ShortEmployeeDTO `json:"created_by,omitempty"`
	CreatedAt string            `json:"created_at"`
}
