package entities

import (
	"time"

	"gorm.io/datatypes"
)

type ImportStatus string

const (
	ImportStatusQueued    ImportStatus = "queued"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type ImportTrigger string

const (
	ImportTriggerCLI      ImportTrigger = "cli"
	ImportTriggerAPI      ImportTrigger = "api"
	ImportTriggerSchedule ImportTrigger = "schedule"
)

// ImportRun is the stored history entry of one import.
type ImportRun struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	ExportPath     string         `gorm:"size:1024" json:"export_path"`
	Mode           string         `gorm:"size:20" json:"mode"`
	Trigger        ImportTrigger  `gorm:"size:20" json:"trigger"`
	Status         ImportStatus   `gorm:"size:20;index" json:"status"`
	Success        bool           `json:"success"`
	TotalItems     int            `json:"total_items"`
	ItemsProcessed int            `json:"items_processed"`
	ErrorCount     int            `json:"error_count"`
	WarningCount   int            `json:"warning_count"`
	Report         datatypes.JSON `json:"report,omitempty"`
	Failure        string         `gorm:"size:1024" json:"failure,omitempty"`
	StartedAt      time.Time      `gorm:"index" json:"started_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
