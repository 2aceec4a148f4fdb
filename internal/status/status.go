package status

import (
	"errors"
	"time"
)

// Well-known status names the admission rules key off. The catalog may carry
// more; these are the ones with dedicated semantics.
const (
	Available         = "Available"
	Offline           = "Offline"
	OnBreak           = "On Break"
	Briefing          = "Briefing"
	RequestBreak      = "Request Break"
	EmergencyBriefing = "Emergency Briefing"
)

// Status is a catalog entry naming a selectable workforce status.
type Status struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	CreatedBy   int64     `json:"created_by" gorm:"column:created_by"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Status) TableName() string {
	return "statuses"
}

type CreateStatusDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (dto CreateStatusDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("status name is required")
	}
	return nil
}

type UpdateStatusDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
