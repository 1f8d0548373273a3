package entities

// MaintenanceStage — неизменяемый справочник стадий заявки.
// Порядок фиксирован: New(1) → In Progress(2) → Repaired(3) | Scrap(4).
type MaintenanceStage struct {
	ID           uint64 `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Sequence     int    `json:"sequence" db:"sequence"`
	IsClosing    bool   `json:"is_closing" db:"is_closing"`
	IsScrapState bool   `json:"is_scrap_state" db:"is_scrap_state"`
}

// Имена стадий, какими они засеяны миграцией.
const (
	StageNew        = "New"
	StageInProgress = "In Progress"
	StageRepaired   = "Repaired"
	StageScrap      = "Scrap"
)
