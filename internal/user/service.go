package user

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/status"
)

// Repository defines the data access methods for users.
type Repository interface {
	Create(u *User) error
	GetByUserID(userID int64) (*User, error)
	GetAll() ([]*User, error)
	GetAgents() ([]*User, error)
	GetAgentsByCoachGroup(coachGroup string) ([]*User, error)
	Update(u *User) error
	Delete(userID int64) error
	DeleteAll() error
}

type Service struct {
	repo       Repository
	publisher  events.Publisher
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err, "user_id", dto.UserID)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		UserID:          dto.UserID,
		FirstName:       dto.FirstName,
		MiddleName:      dto.MiddleName,
		LastName:        dto.LastName,
		Email:           dto.Email,
		Phone:           dto.Phone,
		Role:            dto.Role,
		DelegatedRole:   dto.DelegatedRole,
		Channel:         dto.Channel,
		Skill:           dto.Skill,
		CoachGroup:      dto.CoachGroup,
		SupervisorGroup: dto.SupervisorGroup,
		ManagerGroup:    dto.ManagerGroup,
		Site:            dto.Site,
		StaffActive:     true,
		Status:          status.Offline,
		PasswordHash:    string(hash),
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.UserID, "role", u.Role)
	return u, nil
}

func (s *Service) GetByUserID(userID int64) (*User, error) {
	u, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetAll() ([]*User, error) {
	return s.repo.GetAll()
}

func (s *Service) UpdateUser(userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&u.FirstName, dto.FirstName)
	applyString(&u.MiddleName, dto.MiddleName)
	applyString(&u.LastName, dto.LastName)
	applyString(&u.Email, dto.Email)
	applyString(&u.Phone, dto.Phone)
	applyString(&u.Role, dto.Role)
	applyString(&u.DelegatedRole, dto.DelegatedRole)
	applyString(&u.Channel, dto.Channel)
	applyString(&u.Skill, dto.Skill)
	applyString(&u.CoachGroup, dto.CoachGroup)
	applyString(&u.SupervisorGroup, dto.SupervisorGroup)
	applyString(&u.ManagerGroup, dto.ManagerGroup)
	applyString(&u.Site, dto.Site)
	if dto.StaffActive != nil {
		u.StaffActive = *dto.StaffActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(userID int64) error {
	if _, err := s.repo.GetByUserID(userID); err != nil {
		return internal.ErrUserNotFound
	}
	return s.repo.Delete(userID)
}

func (s *Service) DeleteAllUsers() error {
	return s.repo.DeleteAll()
}

// ToggleWhitelist flips the whitelist flag of an agent. Supervisor/admin only;
// the published event re-triggers the eligibility sweep.
func (s *Service) ToggleWhitelist(ctx context.Context, actorID, targetUserID int64) (*User, error) {
	actor, err := s.repo.GetByUserID(actorID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !actor.CanManageWhitelist() {
		s.logger.Warn("whitelist toggle denied", "actor_id", actorID, "role", actor.Role)
		return nil, internal.ErrSupervisorOnly
	}

	target, err := s.repo.GetByUserID(targetUserID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !target.IsAgent() {
		return nil, internal.NewValidationError("only agents can be whitelisted", internal.ErrCodeValidationFailed)
	}

	target.Whitelisted = !target.Whitelisted
	if err := s.repo.Update(target); err != nil {
		s.logger.Error("failed to toggle whitelist", "error", err, "user_id", targetUserID)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewWhitelistChangedEvent(target.UserID, target.Whitelisted)); err != nil {
		s.logger.Error("failed to publish whitelist change", "error", err, "user_id", targetUserID)
	}

	s.logger.Info("whitelist toggled",
		"actor_id", actorID,
		"user_id", target.UserID,
		"whitelisted", target.Whitelisted)
	return target, nil
}

var overridableStatuses = []string{
	status.Available,
	status.OnBreak,
	status.Briefing,
	status.Offline,
	status.EmergencyBriefing,
}

// OverrideStatus lets a supervisor or admin force a user's current status for
// emergency cases, bypassing the admission rules.
func (s *Service) OverrideStatus(ctx context.Context, actorID, targetUserID int64, dto OverrideStatusDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingStatus)
	}

	actor, err := s.repo.GetByUserID(actorID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !actor.IsSupervisor() && !actor.IsAdmin() {
		return nil, internal.ErrSupervisorOnly
	}

	allowed := false
	for _, name := range overridableStatuses {
		if name == dto.NewStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, internal.NewValidationError("status cannot be set by override", internal.ErrCodeUnknownStatus)
	}

	target, err := s.repo.GetByUserID(targetUserID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	target.Status = dto.NewStatus
	if err := s.repo.Update(target); err != nil {
		s.logger.Error("failed to override status", "error", err, "user_id", targetUserID)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewStatusChangedEvent(target.UserID, target.Status)); err != nil {
		s.logger.Error("failed to publish status override", "error", err, "user_id", targetUserID)
	}

	s.logger.Info("status overridden",
		"actor_id", actorID,
		"user_id", target.UserID,
		"status", target.Status)
	return target, nil
}
