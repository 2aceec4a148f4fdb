package user

import (
	"strings"
	"time"
)

const (
	RoleAgent      = "agent"
	RoleCoach      = "coach"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User is a workforce member. Group memberships (coach/supervisor/manager/
// skill/channel) drive which configuration rules apply to them.
type User struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	UserID          int64      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	FirstName       string     `json:"first_name" gorm:"column:first_name"`
	MiddleName      string     `json:"middle_name,omitempty" gorm:"column:middle_name"`
	LastName        string     `json:"last_name" gorm:"column:last_name"`
	Email           string     `json:"email" gorm:"column:email"`
	Phone           string     `json:"phone,omitempty" gorm:"column:phone"`
	Role            string     `json:"role" gorm:"column:role;not null"`
	DelegatedRole   string     `json:"delegated_role,omitempty" gorm:"column:delegated_role"`
	Channel         string     `json:"channel,omitempty" gorm:"column:channel"`
	Skill           string     `json:"skill,omitempty" gorm:"column:skill"`
	CoachGroup      string     `json:"coach_group,omitempty" gorm:"column:coach_group"`
	SupervisorGroup string     `json:"supervisor_group,omitempty" gorm:"column:supervisor_group"`
	ManagerGroup    string     `json:"manager_group,omitempty" gorm:"column:manager_group"`
	Site            string     `json:"site,omitempty" gorm:"column:site"`
	StaffActive     bool       `json:"staff_active" gorm:"column:staff_active;default:true"`
	Whitelisted     bool       `json:"whitelisted" gorm:"column:whitelisted;default:false"`
	CanTakeBreak    bool       `json:"can_take_break" gorm:"column:can_take_break;default:false"`
	Status          string     `json:"status" gorm:"column:status"`
	PasswordHash    string     `json:"-" gorm:"column:password_hash"`
	FailedAttempts  int        `json:"-" gorm:"column:failed_attempts;default:0"`
	Locked          bool       `json:"-" gorm:"column:locked;default:false"`
	LockedAt        *time.Time `json:"-" gorm:"column:locked_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAgent() bool {
	return u.Role == RoleAgent
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsSupervisor() bool {
	return strings.EqualFold(u.Role, RoleSupervisor)
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// CanManageWhitelist reports whether the user may toggle agent whitelisting.
func (u *User) CanManageWhitelist() bool {
	return u.IsSupervisor() || u.IsAdmin()
}

func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
