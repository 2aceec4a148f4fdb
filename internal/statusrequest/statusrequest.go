package statusrequest

import (
	"math"
	"time"
)

const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"

	// ApproverSystem marks decisions made by the admission rules rather than
	// a human approver.
	ApproverSystem = "System"

	MarkerLogin  = "login"
	MarkerLogout = "logout"
)

// StatusRequest is one row per status change attempt. At most one open row
// (EndedAt nil) exists per user; opening a new one closes the prior open row
// and stamps its duration.
type StatusRequest struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	UserID         int64      `json:"user_id" gorm:"column:user_id;index;not null"`
	LoginLogout    string     `json:"login_logout,omitempty" gorm:"column:login_logout"`
	StatusName     string     `json:"status_name" gorm:"column:status_name;not null"`
	StartedAt      time.Time  `json:"started_at" gorm:"column:started_at;index;not null"`
	ShiftName      string     `json:"shift_name,omitempty" gorm:"column:shift_name"`
	ApprovalStatus string     `json:"approval_status" gorm:"column:approval_status;not null;default:Pending"`
	ApprovedBy     string     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty" gorm:"column:ended_at"`
	Duration       *int       `json:"duration,omitempty" gorm:"column:duration"`
	Reason         string     `json:"reason,omitempty" gorm:"column:reason"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (StatusRequest) TableName() string {
	return "status_requests"
}

func (r *StatusRequest) IsOpen() bool {
	return r.EndedAt == nil
}

// CloseAt stamps the end timestamp and the duration in whole minutes,
// rounded. Duration never goes negative even when clocks disagree.
func (r *StatusRequest) CloseAt(now time.Time) {
	end := now
	mins := int(math.Round(now.Sub(r.StartedAt).Minutes()))
	if mins < 0 {
		mins = 0
	}
	r.EndedAt = &end
	r.Duration = &mins
}
