package shift

import (
	"errors"
	"time"

	"github.com/statusdesk/statusdesk/internal/timewindow"
)

// Shift is a named working window. Detected shifts only label status requests
// for reporting; they play no part in admission decisions.
type Shift struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CreatedBy int64     `json:"created_by" gorm:"column:created_by"`
	Name      string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Start     string    `json:"start" gorm:"column:start_clock;not null"`
	End       string    `json:"end" gorm:"column:end_clock;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}

// DefaultTolerance is how far from a shift's start a login still counts as
// belonging to that shift.
const DefaultTolerance = 30 * time.Minute

// Detect returns the name of the shift whose start lies within tolerance of
// the given instant, or "" when no shift matches. Only shift starts are
// considered; a mid-shift login is deliberately left unlabelled.
func Detect(at time.Time, shifts []*Shift, tolerance time.Duration) string {
	minutes := timewindow.MinutesOfDay(at)
	tolMin := int(tolerance.Minutes())

	for _, sh := range shifts {
		start := timewindow.ClockMinutes(sh.Start)
		if start == timewindow.Unset {
			continue
		}
		if minutes >= start-tolMin && minutes <= start+tolMin {
			return sh.Name
		}
	}
	return ""
}

type CreateShiftDTO struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (dto CreateShiftDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("shift name is required")
	}
	if _, err := timewindow.ParseClock(dto.Start); err != nil {
		return err
	}
	if _, err := timewindow.ParseClock(dto.End); err != nil {
		return err
	}
	return nil
}

type UpdateShiftDTO struct {
	Name  *string `json:"name,omitempty"`
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

func (dto UpdateShiftDTO) Validate() error {
	if dto.Start != nil {
		if _, err := timewindow.ParseClock(*dto.Start); err != nil {
			return err
		}
	}
	if dto.End != nil {
		if _, err := timewindow.ParseClock(*dto.End); err != nil {
			return err
		}
	}
	return nil
}
