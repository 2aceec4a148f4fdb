package configuration

import (
	"errors"
	"time"

	"github.com/statusdesk/statusdesk/internal/timewindow"
)

const (
	TypeBreak    = "break"
	TypeBriefing = "briefing"

	// DefaultMinAvailability applies when a rule omits its threshold.
	DefaultMinAvailability = 80.0
)

// Configuration is a rule record scoped to exactly one group dimension.
// It carries the windows and the availability threshold the admission engine
// and the eligibility sweep judge requests against. Multiple rows may exist
// per group; callers treat the newest as current.
type Configuration struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	CreatedBy       int64     `json:"created_by" gorm:"column:created_by"`
	Type            string    `json:"type" gorm:"column:cfg_type;not null;default:break"`
	StatusName      string    `json:"status_name" gorm:"column:status_name"`
	Channel         string    `json:"channel,omitempty" gorm:"column:channel"`
	Skill           string    `json:"skill,omitempty" gorm:"column:skill"`
	ManagerGroup    string    `json:"manager_group,omitempty" gorm:"column:manager_group"`
	SupervisorGroup string    `json:"supervisor_group,omitempty" gorm:"column:supervisor_group"`
	CoachGroup      string    `json:"coach_group,omitempty" gorm:"column:coach_group"`
	MinAvailability float64   `json:"min_availability" gorm:"column:min_availability;default:80"`
	Shift1Start     string    `json:"shift1_start,omitempty" gorm:"column:shift1_start"`
	Shift1End       string    `json:"shift1_end,omitempty" gorm:"column:shift1_end"`
	Shift2Start     string    `json:"shift2_start,omitempty" gorm:"column:shift2_start"`
	Shift2End       string    `json:"shift2_end,omitempty" gorm:"column:shift2_end"`
	Briefing1Start  string    `json:"briefing1_start,omitempty" gorm:"column:briefing1_start"`
	Briefing1End    string    `json:"briefing1_end,omitempty" gorm:"column:briefing1_end"`
	Briefing2Start  string    `json:"briefing2_start,omitempty" gorm:"column:briefing2_start"`
	Briefing2End    string    `json:"briefing2_end,omitempty" gorm:"column:briefing2_end"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Configuration) TableName() string {
	return "configurations"
}

// HasPrimaryWindow reports whether the rule carries a usable primary window.
func (c *Configuration) HasPrimaryWindow() bool {
	return timewindow.ClockMinutes(c.Shift1Start) != timewindow.Unset &&
		timewindow.ClockMinutes(c.Shift1End) != timewindow.Unset
}

// InShiftWindow reports whether the instant falls in either shift window.
func (c *Configuration) InShiftWindow(at time.Time) bool {
	cur := timewindow.MinutesOfDay(at)
	return timewindow.InRangeMinutes(cur, timewindow.ClockMinutes(c.Shift1Start), timewindow.ClockMinutes(c.Shift1End)) ||
		timewindow.InRangeMinutes(cur, timewindow.ClockMinutes(c.Shift2Start), timewindow.ClockMinutes(c.Shift2End))
}

// InBriefingWindow reports whether the instant falls in either briefing window.
func (c *Configuration) InBriefingWindow(at time.Time) bool {
	cur := timewindow.MinutesOfDay(at)
	return timewindow.InRangeMinutes(cur, timewindow.ClockMinutes(c.Briefing1Start), timewindow.ClockMinutes(c.Briefing1End)) ||
		timewindow.InRangeMinutes(cur, timewindow.ClockMinutes(c.Briefing2Start), timewindow.ClockMinutes(c.Briefing2End))
}

// Threshold returns the minimum-availability threshold, applying the default
// when the rule carries none.
func (c *Configuration) Threshold() float64 {
	if c.MinAvailability <= 0 {
		return DefaultMinAvailability
	}
	return c.MinAvailability
}

type CreateConfigurationDTO struct {
	Type            string  `json:"type"`
	StatusName      string  `json:"status_name"`
	Channel         string  `json:"channel,omitempty"`
	Skill           string  `json:"skill,omitempty"`
	ManagerGroup    string  `json:"manager_group,omitempty"`
	SupervisorGroup string  `json:"supervisor_group,omitempty"`
	CoachGroup      string  `json:"coach_group,omitempty"`
	MinAvailability float64 `json:"min_availability"`
	Shift1Start     string  `json:"shift1_start,omitempty"`
	Shift1End       string  `json:"shift1_end,omitempty"`
	Shift2Start     string  `json:"shift2_start,omitempty"`
	Shift2End       string  `json:"shift2_end,omitempty"`
	Briefing1Start  string  `json:"briefing1_start,omitempty"`
	Briefing1End    string  `json:"briefing1_end,omitempty"`
	Briefing2Start  string  `json:"briefing2_start,omitempty"`
	Briefing2End    string  `json:"briefing2_end,omitempty"`
}

func (dto CreateConfigurationDTO) Validate() error {
	if dto.Type != "" && dto.Type != TypeBreak && dto.Type != TypeBriefing {
		return errors.New("type must be break or briefing")
	}

	groups := 0
	for _, g := range []string{dto.Channel, dto.Skill, dto.ManagerGroup, dto.SupervisorGroup, dto.CoachGroup} {
		if g != "" {
			groups++
		}
	}
	if groups != 1 {
		return errors.New("exactly one group dimension must be set")
	}

	for _, clock := range []string{
		dto.Shift1Start, dto.Shift1End, dto.Shift2Start, dto.Shift2End,
		dto.Briefing1Start, dto.Briefing1End, dto.Briefing2Start, dto.Briefing2End,
	} {
		if clock == "" {
			continue
		}
		if _, err := timewindow.ParseClock(clock); err != nil {
			return err
		}
	}

	if dto.MinAvailability < 0 || dto.MinAvailability > 100 {
		return errors.New("min_availability must be between 0 and 100")
	}
	return nil
}

type UpdateConfigurationDTO struct {
	StatusName      *string  `json:"status_name,omitempty"`
	Channel         *string  `json:"channel,omitempty"`
	Skill           *string  `json:"skill,omitempty"`
	ManagerGroup    *string  `json:"manager_group,omitempty"`
	SupervisorGroup *string  `json:"supervisor_group,omitempty"`
	CoachGroup      *string  `json:"coach_group,omitempty"`
	MinAvailability *float64 `json:"min_availability,omitempty"`
	Shift1Start     *string  `json:"shift1_start,omitempty"`
	Shift1End       *string  `json:"shift1_end,omitempty"`
	Shift2Start     *string  `json:"shift2_start,omitempty"`
	Shift2End       *string  `json:"shift2_end,omitempty"`
	Briefing1Start  *string  `json:"briefing1_start,omitempty"`
	Briefing1End    *string  `json:"briefing1_end,omitempty"`
	Briefing2Start  *string  `json:"briefing2_start,omitempty"`
	Briefing2End    *string  `json:"briefing2_end,omitempty"`
}

func (dto UpdateConfigurationDTO) Validate() error {
	for _, clock := range []*string{
		dto.Shift1Start, dto.Shift1End, dto.Shift2Start, dto.Shift2End,
		dto.Briefing1Start, dto.Briefing1End, dto.Briefing2Start, dto.Briefing2End,
	} {
		if clock == nil || *clock == "" {
			continue
		}
		if _, err := timewindow.ParseClock(*clock); err != nil {
			return err
		}
	}
	if dto.MinAvailability != nil && (*dto.MinAvailability < 0 || *dto.MinAvailability > 100) {
		return errors.New("min_availability must be between 0 and 100")
	}
	return nil
}
