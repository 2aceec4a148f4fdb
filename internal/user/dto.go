package user

import (
	"errors"
	"fmt"
)

var validRoles = map[string]bool{
	RoleAgent:      true,
	RoleCoach:      true,
	RoleSupervisor: true,
	RoleAdmin:      true,
}

type CreateUserDTO struct {
	UserID          int64  `json:"user_id" validate:"required,min=1"`
	FirstName       string `json:"first_name" validate:"required"`
	MiddleName      string `json:"middle_name,omitempty"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role" validate:"required"`
	DelegatedRole   string `json:"delegated_role,omitempty"`
	Channel         string `json:"channel,omitempty"`
	Skill           string `json:"skill,omitempty"`
	CoachGroup      string `json:"coach_group,omitempty"`
	SupervisorGroup string `json:"supervisor_group,omitempty"`
	ManagerGroup    string `json:"manager_group,omitempty"`
	Site            string `json:"site,omitempty"`
	Password        string `json:"password" validate:"required,min=6"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.UserID <= 0 {
		return errors.New("user_id is required")
	}
	if dto.FirstName == "" || dto.LastName == "" {
		return errors.New("first_name and last_name are required")
	}
	if !validRoles[dto.Role] {
		return fmt.Errorf("invalid role: %s", dto.Role)
	}
	if len(dto.Password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

type UpdateUserDTO struct {
	FirstName       *string `json:"first_name,omitempty"`
	MiddleName      *string `json:"middle_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Role            *string `json:"role,omitempty"`
	DelegatedRole   *string `json:"delegated_role,omitempty"`
	Channel         *string `json:"channel,omitempty"`
	Skill           *string `json:"skill,omitempty"`
	CoachGroup      *string `json:"coach_group,omitempty"`
	SupervisorGroup *string `json:"supervisor_group,omitempty"`
	ManagerGroup    *string `json:"manager_group,omitempty"`
	Site            *string `json:"site,omitempty"`
	StaffActive     *bool   `json:"staff_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Role != nil && !validRoles[*dto.Role] {
		return fmt.Errorf("invalid role: %s", *dto.Role)
	}
	return nil
}

type OverrideStatusDTO struct {
	NewStatus string `json:"new_status"`
}

func (dto OverrideStatusDTO) Validate() error {
	if dto.NewStatus == "" {
		return errors.New("new_status is required")
	}
	return nil
}
