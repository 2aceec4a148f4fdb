package statusrequest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/configuration"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/timewindow"
	"github.com/statusdesk/statusdesk/internal/user"
)

// Repository defines the data access methods the admission engine needs.
type Repository interface {
	// CloseAndCreate closes the user's open request (end timestamp and
	// duration stamped from req.StartedAt) and inserts req in one
	// transaction, so concurrent submissions cannot leave two open rows.
	CloseAndCreate(ctx context.Context, req *StatusRequest) error
	FindOpenByUserID(ctx context.Context, userID int64) (*StatusRequest, error)
	FindLastShiftName(ctx context.Context, userID int64) (string, error)
	FindLatestPendingEmergency(ctx context.Context, userID int64) (*StatusRequest, error)
	ListNonOffline(ctx context.Context, userIDs []int64) ([]*StatusRequest, error)
	ListByUserID(ctx context.Context, userID int64) ([]*StatusRequest, error)
	ListAll(ctx context.Context) ([]*StatusRequest, error)
	Update(ctx context.Context, req *StatusRequest) error
}

// UserDirectory is the slice of the user store the engine reads and mutates.
type UserDirectory interface {
	GetByUserID(userID int64) (*user.User, error)
	GetAgentsByCoachGroup(coachGroup string) ([]*user.User, error)
	Update(u *user.User) error
}

// StatusCatalog validates requested status names against the known catalog.
type StatusCatalog interface {
	GetByName(name string) (*status.Status, error)
}

// RuleResolver selects the governing configuration for a user and status.
type RuleResolver interface {
	RuleForStatus(ctx context.Context, statusName string, u *user.User) (*configuration.Configuration, error)
}

// selfServiceStatuses is the allow-list an agent may request for themself,
// besides "Available".
var selfServiceStatuses = []string{
	status.RequestBreak,
	status.EmergencyBriefing,
}

type Service struct {
	repo      Repository
	users     UserDirectory
	statuses  StatusCatalog
	rules     RuleResolver
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, users UserDirectory, statuses StatusCatalog, rules RuleResolver, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		statuses:  statuses,
		rules:     rules,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit runs the admission state machine. A coach fans the request out to
// every agent in their coach group; anyone else submits for themself only and
// is restricted to the self-service allow-list. One StatusRequest row is
// created per target user, each decided independently.
func (s *Service) Submit(ctx context.Context, requesterID int64, dto SubmitStatusRequestDTO) ([]*StatusRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingStatus)
	}

	requester, err := s.users.GetByUserID(requesterID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	statusRecord, err := s.statuses.GetByName(dto.StatusName)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("unknown status name: %s", dto.StatusName),
			internal.ErrCodeUnknownStatus)
	}
	statusName := statusRecord.Name

	var targets []*user.User
	if requester.IsCoach() {
		targets, err = s.users.GetAgentsByCoachGroup(requester.CoachGroup)
		if err != nil {
			s.logger.Error("failed to load coach group", "coach_group", requester.CoachGroup, "error", err)
			return nil, internal.NewInternalError("failed to load coach group", err)
		}
	} else {
		if statusName != status.Available && !isSelfService(statusName) {
			s.logger.Warn("status not allowed for self-service",
				"user_id", requesterID, "status", statusName)
			return nil, internal.ErrStatusNotAllowed
		}
		targets = []*user.User{requester}
	}

	now := s.now()
	results := make([]*StatusRequest, 0, len(targets))
	for _, target := range targets {
		req, err := s.admit(ctx, target, statusName, now)
		if err != nil {
			return nil, err
		}

		if err := s.repo.CloseAndCreate(ctx, req); err != nil {
			s.logger.Error("failed to persist status request",
				"user_id", target.UserID, "status", statusName, "error", err)
			return nil, internal.NewInternalError("failed to persist status request", err)
		}

		s.applyEffectiveStatus(ctx, target, req)
		results = append(results, req)
	}

	return results, nil
}

// admit decides a single target's request. Decision order: "Available" and
// whitelisted users pass unconditionally, emergency briefings wait for a
// coach, everything else is judged against the matched configuration's
// window and the coach group's availability.
func (s *Service) admit(ctx context.Context, target *user.User, statusName string, now time.Time) (*StatusRequest, error) {
	approval := ApprovalPending
	approvedBy := ""
	reason := ""

	switch {
	case statusName == status.Available:
		approval, approvedBy = ApprovalApproved, ApproverSystem

	case target.Whitelisted:
		approval, approvedBy = ApprovalApproved, ApproverSystem

	case statusName == status.EmergencyBriefing:
		// requires an explicit coach decision, never auto-decided

	default:
		cfg, err := s.rules.RuleForStatus(ctx, statusName, target)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			break // no rule to judge against
		}

		if cfg.HasPrimaryWindow() && !inPrimaryWindow(cfg, now) {
			approval, approvedBy = ApprovalRejected, ApproverSystem
			reason = fmt.Sprintf("Time mismatch (%d:%d) not between %s-%s",
				now.Hour(), now.Minute(), cfg.Shift1Start, cfg.Shift1End)
			break
		}

		ta, err := s.TeamAvailability(ctx, target.CoachGroup)
		if err != nil {
			return nil, err
		}
		if ta < cfg.Threshold() {
			approval, approvedBy = ApprovalRejected, ApproverSystem
			reason = fmt.Sprintf("Team availability %.2f%% < required %g%%", ta, cfg.Threshold())
		} else {
			approval, approvedBy = ApprovalApproved, ApproverSystem
		}
	}

	persistedName := statusName
	if approval == ApprovalRejected {
		// a rejected request is recorded but the effective state stays Available
		persistedName = status.Available
	}

	shiftName, err := s.repo.FindLastShiftName(ctx, target.UserID)
	if err != nil {
		s.logger.Error("failed to look up last shift", "user_id", target.UserID, "error", err)
		return nil, internal.NewInternalError("failed to look up last shift", err)
	}

	req := &StatusRequest{
		UserID:         target.UserID,
		StatusName:     persistedName,
		StartedAt:      now,
		ShiftName:      shiftName,
		ApprovalStatus: approval,
		ApprovedBy:     approvedBy,
		Reason:         reason,
	}
	if approval == ApprovalApproved {
		req.ApprovedAt = &now
	}
	return req, nil
}

// applyEffectiveStatus mirrors the decided row onto the user record and
// broadcasts the flip. Both are best-effort: the persisted request is the
// source of truth and a publish failure must not fail the submission.
func (s *Service) applyEffectiveStatus(ctx context.Context, target *user.User, req *StatusRequest) {
	if req.ApprovalStatus == ApprovalPending {
		return
	}
	if target.Status == req.StatusName {
		return
	}

	target.Status = req.StatusName
	if err := s.users.Update(target); err != nil {
		s.logger.Error("failed to update user status", "user_id", target.UserID, "error", err)
	}
	if err := s.publisher.Publish(ctx, events.NewStatusChangedEvent(target.UserID, req.StatusName)); err != nil {
		s.logger.Error("failed to publish status change", "user_id", target.UserID, "error", err)
	}
}

// DecideEmergencyBriefing lets a coach approve or reject a pending emergency
// briefing for an agent in their own coach group.
func (s *Service) DecideEmergencyBriefing(ctx context.Context, approverID, targetUserID int64, dto DecideEmergencyBriefingDTO) (*StatusRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidAction)
	}

	coach, err := s.users.GetByUserID(approverID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if !coach.IsCoach() {
		return nil, internal.ErrCoachOnly
	}

	req, err := s.repo.FindLatestPendingEmergency(ctx, targetUserID)
	if err != nil {
		return nil, internal.ErrRequestNotFound
	}

	agent, err := s.users.GetByUserID(targetUserID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if agent.CoachGroup != coach.CoachGroup {
		s.logger.Warn("emergency briefing decision outside coach group",
			"coach_id", approverID, "user_id", targetUserID)
		return nil, internal.ErrOutsideCoachGroup
	}

	now := s.now()
	if dto.Action == ActionApprove {
		req.ApprovalStatus = ApprovalApproved
	} else {
		req.ApprovalStatus = ApprovalRejected
	}
	req.ApprovedBy = coach.FullName()
	req.ApprovedAt = &now

	if err := s.repo.Update(ctx, req); err != nil {
		s.logger.Error("failed to persist emergency briefing decision",
			"request_id", req.ID, "error", err)
		return nil, internal.NewInternalError("failed to persist decision", err)
	}

	if req.ApprovalStatus == ApprovalApproved {
		s.applyEffectiveStatus(ctx, agent, req)
	}

	s.logger.Info("emergency briefing decided",
		"coach_id", approverID,
		"user_id", targetUserID,
		"decision", req.ApprovalStatus)
	return req, nil
}

// RequestsForUser returns a user's full request history, newest first.
func (s *Service) RequestsForUser(ctx context.Context, userID int64) ([]*StatusRequest, error) {
	if _, err := s.users.GetByUserID(userID); err != nil {
		return nil, internal.ErrUserNotFound
	}
	reqs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list requests", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list requests", err)
	}
	return reqs, nil
}

func (s *Service) AllRequests(ctx context.Context) ([]*StatusRequest, error) {
	reqs, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list requests", "error", err)
		return nil, internal.NewInternalError("failed to list requests", err)
	}
	return reqs, nil
}

func isSelfService(statusName string) bool {
	for _, name := range selfServiceStatuses {
		if name == statusName {
			return true
		}
	}
	return false
}

func inPrimaryWindow(cfg *configuration.Configuration, at time.Time) bool {
	return timewindow.InRangeMinutes(
		timewindow.MinutesOfDay(at),
		timewindow.ClockMinutes(cfg.Shift1Start),
		timewindow.ClockMinutes(cfg.Shift1End))
}
