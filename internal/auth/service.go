package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/shift"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
	"github.com/statusdesk/statusdesk/internal/user"
)

// UserStore is the slice of the user store authentication needs.
type UserStore interface {
	GetByUserID(userID int64) (*user.User, error)
	Update(u *user.User) error
}

// RequestLog records login/logout marker rows and relabels shifts.
type RequestLog interface {
	CloseAndCreate(ctx context.Context, req *statusrequest.StatusRequest) error
	FindLatestLogin(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error)
	Update(ctx context.Context, req *statusrequest.StatusRequest) error
	RestampShiftName(ctx context.Context, userID int64, shiftName string, since time.Time) error
}

// ShiftSource supplies the shift catalog for login-time detection.
type ShiftSource interface {
	GetAllOrderedByStart() ([]*shift.Shift, error)
}

type Service struct {
	users      UserStore
	requests   RequestLog
	shifts     ShiftSource
	tokens     TokenGenerator
	publisher  events.Publisher
	logger     *slog.Logger
	bcryptCost int

	maxFailedAttempts int
	autoUnlock        time.Duration
	shiftTolerance    time.Duration
	now               func() time.Time
}

func NewService(users UserStore, requests RequestLog, shifts ShiftSource, tokens TokenGenerator, publisher events.Publisher, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:             users,
		requests:          requests,
		shifts:            shifts,
		tokens:            tokens,
		publisher:         publisher,
		logger:            logger,
		bcryptCost:        bcryptCost,
		maxFailedAttempts: MaxFailedAttempts,
		autoUnlock:        AutoUnlockDuration,
		shiftTolerance:    shift.DefaultTolerance,
		now:               time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithLockoutPolicy overrides the failed-attempt ceiling and the auto-unlock
// window, keeping the defaults when an argument is zero.
func (s *Service) WithLockoutPolicy(maxAttempts int, autoUnlock time.Duration) *Service {
	if maxAttempts > 0 {
		s.maxFailedAttempts = maxAttempts
	}
	if autoUnlock > 0 {
		s.autoUnlock = autoUnlock
	}
	return s
}

// Login authenticates the user, opens their session as an "Available" login
// record, detects the shift from the login instant and relabels today's
// earlier requests with it.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.users.GetByUserID(dto.UserID)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !u.StaffActive {
		return nil, internal.ErrStaffInactive
	}

	now := s.now()
	if u.Locked {
		if u.LockedAt == nil {
			return nil, internal.NewForbiddenError(
				"your account is locked, contact the administrator",
				internal.ErrCodeAccountLocked)
		}
		lockedFor := now.Sub(*u.LockedAt)
		if lockedFor < s.autoUnlock {
			remaining := int(math.Ceil((s.autoUnlock - lockedFor).Minutes()))
			return nil, internal.NewForbiddenError(
				fmt.Sprintf("your account is locked, try again in %d minute(s)", remaining),
				internal.ErrCodeAccountLocked)
		}
		u.Locked = false
		u.FailedAttempts = 0
		u.LockedAt = nil
		if err := s.users.Update(u); err != nil {
			return nil, internal.NewInternalError("failed to unlock account", err)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, s.recordFailedAttempt(u, now)
	}

	if u.FailedAttempts > 0 || u.Locked || u.LockedAt != nil {
		u.FailedAttempts = 0
		u.Locked = false
		u.LockedAt = nil
		if err := s.users.Update(u); err != nil {
			s.logger.Error("failed to reset lockout state", "user_id", u.UserID, "error", err)
		}
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	shifts, err := s.shifts.GetAllOrderedByStart()
	if err != nil {
		return nil, internal.NewInternalError("failed to load shifts", err)
	}
	if len(shifts) == 0 {
		return nil, internal.NewInternalError("no shifts configured", nil)
	}
	shiftName := shift.Detect(now, shifts, s.shiftTolerance)

	loginRow := &statusrequest.StatusRequest{
		UserID:         u.UserID,
		LoginLogout:    statusrequest.MarkerLogin,
		StatusName:     status.Available,
		StartedAt:      now,
		ShiftName:      shiftName,
		ApprovalStatus: statusrequest.ApprovalApproved,
		ApprovedBy:     statusrequest.ApproverSystem,
		ApprovedAt:     &now,
	}
	if err := s.requests.CloseAndCreate(ctx, loginRow); err != nil {
		return nil, internal.NewInternalError("failed to record login", err)
	}

	if shiftName != "" {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if err := s.requests.RestampShiftName(ctx, u.UserID, shiftName, startOfDay); err != nil {
			s.logger.Error("failed to relabel today's requests", "user_id", u.UserID, "error", err)
		}
	}

	u.Status = status.Available
	if err := s.users.Update(u); err != nil {
		s.logger.Error("failed to update user status on login", "user_id", u.UserID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.NewUserLoggedInEvent(u.UserID, u.FullName(), status.Available, shiftName)); err != nil {
		s.logger.Error("failed to publish login event", "user_id", u.UserID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", u.UserID, "role", u.Role, "shift", shiftName)
	return &LoginResult{
		UserID:        u.UserID,
		Role:          u.Role,
		DelegatedRole: u.DelegatedRole,
		ShiftName:     shiftName,
		Token:         token,
	}, nil
}

func (s *Service) recordFailedAttempt(u *user.User, now time.Time) error {
	u.FailedAttempts++
	locked := u.FailedAttempts >= s.maxFailedAttempts
	if locked {
		u.Locked = true
		u.LockedAt = &now
	}
	if err := s.users.Update(u); err != nil {
		s.logger.Error("failed to record failed attempt", "user_id", u.UserID, "error", err)
	}

	if locked {
		s.logger.Warn("account locked after failed attempts", "user_id", u.UserID)
		return internal.NewUnauthorizedError(
			fmt.Sprintf("account locked due to %d failed login attempts, try again in %d minutes",
				s.maxFailedAttempts, int(s.autoUnlock.Minutes())),
			internal.ErrCodeAccountLocked)
	}
	return internal.NewUnauthorizedError(
		fmt.Sprintf("invalid password, you have %d attempt(s) left", s.maxFailedAttempts-u.FailedAttempts),
		internal.ErrCodeInvalidCredentials)
}

// Logout closes the session: stamps the login row's duration, records a
// closed "Offline" marker row and flips the user offline.
func (s *Service) Logout(ctx context.Context, userID int64, reason string) error {
	u, err := s.users.GetByUserID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	now := s.now()
	if lastLogin, err := s.requests.FindLatestLogin(ctx, userID); err == nil && lastLogin.IsOpen() {
		lastLogin.CloseAt(now)
		if err := s.requests.Update(ctx, lastLogin); err != nil {
			s.logger.Error("failed to close login record", "user_id", userID, "error", err)
		}
	}

	if reason == "" {
		reason = "User logged out"
	}
	logoutRow := &statusrequest.StatusRequest{
		UserID:         userID,
		LoginLogout:    statusrequest.MarkerLogout,
		StatusName:     status.Offline,
		StartedAt:      now,
		Reason:         reason,
		ApprovalStatus: statusrequest.ApprovalApproved,
		ApprovedBy:     statusrequest.ApproverSystem,
		ApprovedAt:     &now,
	}
	logoutRow.CloseAt(now)
	if err := s.requests.CloseAndCreate(ctx, logoutRow); err != nil {
		return internal.NewInternalError("failed to record logout", err)
	}

	u.Status = status.Offline
	if err := s.users.Update(u); err != nil {
		s.logger.Error("failed to update user status on logout", "user_id", userID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.NewUserLoggedOutEvent(userID, status.Offline)); err != nil {
		s.logger.Error("failed to publish logout event", "user_id", userID, "error", err)
	}

	s.logger.Info("user logged out", "user_id", userID)
	return nil
}

// ChangePassword lets a user rotate their own password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	u, err := s.users.GetByUserID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.OldPassword)); err != nil {
		return internal.NewValidationError("old password is incorrect", internal.ErrCodeInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.NewPassword)) == nil {
		return internal.NewValidationError("new password must be different from the old password", internal.ErrCodeValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	if err := s.users.Update(u); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// ResetPassword lets an admin set a user's password directly.
func (s *Service) ResetPassword(ctx context.Context, actorID, targetUserID int64, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	actor, err := s.users.GetByUserID(actorID)
	if err != nil {
		return internal.ErrUserNotFound
	}
	if !actor.IsAdmin() {
		return internal.ErrAdminOnly
	}

	target, err := s.users.GetByUserID(targetUserID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	target.PasswordHash = string(hash)
	if err := s.users.Update(target); err != nil {
		return internal.NewInternalError("failed to reset password", err)
	}

	s.logger.Info("password reset", "actor_id", actorID, "user_id", targetUserID)
	return nil
}

// ValidateToken is used by the HTTP middleware.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}
