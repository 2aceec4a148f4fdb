package statusrequest_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/configuration"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
	"github.com/statusdesk/statusdesk/internal/user"
)

// Mock repository for testing
type mockRequestRepository struct {
	requests    []*statusrequest.StatusRequest
	nextID      int64
	createError error
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{nextID: 1}
}

func (m *mockRequestRepository) CloseAndCreate(ctx context.Context, req *statusrequest.StatusRequest) error {
	if m.createError != nil {
		return m.createError
	}
	for _, r := range m.requests {
		if r.UserID == req.UserID && r.IsOpen() {
			r.CloseAt(req.StartedAt)
		}
	}
	req.ID = m.nextID
	m.nextID++
	m.requests = append(m.requests, req)
	return nil
}

func (m *mockRequestRepository) FindOpenByUserID(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error) {
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].UserID == userID && m.requests[i].IsOpen() {
			return m.requests[i], nil
		}
	}
	return nil, errors.New("no open request")
}

func (m *mockRequestRepository) FindLastShiftName(ctx context.Context, userID int64) (string, error) {
	var found string
	var foundAt time.Time
	for _, r := range m.requests {
		if r.UserID == userID && r.ShiftName != "" && r.StartedAt.After(foundAt) {
			found = r.ShiftName
			foundAt = r.StartedAt
		}
	}
	return found, nil
}

func (m *mockRequestRepository) FindLatestPendingEmergency(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error) {
	for i := len(m.requests) - 1; i >= 0; i-- {
		r := m.requests[i]
		if r.UserID == userID && r.StatusName == status.EmergencyBriefing && r.ApprovalStatus == statusrequest.ApprovalPending {
			return r, nil
		}
	}
	return nil, errors.New("no pending emergency briefing")
}

func (m *mockRequestRepository) ListNonOffline(ctx context.Context, userIDs []int64) ([]*statusrequest.StatusRequest, error) {
	ids := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}
	var out []*statusrequest.StatusRequest
	for _, r := range m.requests {
		if ids[r.UserID] && r.StatusName != status.Offline {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListByUserID(ctx context.Context, userID int64) ([]*statusrequest.StatusRequest, error) {
	var out []*statusrequest.StatusRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRequestRepository) ListAll(ctx context.Context) ([]*statusrequest.StatusRequest, error) {
	return m.requests, nil
}

func (m *mockRequestRepository) Update(ctx context.Context, req *statusrequest.StatusRequest) error {
	return nil
}

// lastFor returns the newest request row recorded for a user.
func (m *mockRequestRepository) lastFor(userID int64) *statusrequest.StatusRequest {
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].UserID == userID {
			return m.requests[i]
		}
	}
	return nil
}

type mockUserDirectory struct {
	users map[int64]*user.User
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{users: make(map[int64]*user.User)}
}

func (m *mockUserDirectory) add(u *user.User) *user.User {
	m.users[u.UserID] = u
	return u
}

func (m *mockUserDirectory) GetByUserID(userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (m *mockUserDirectory) GetAgentsByCoachGroup(coachGroup string) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if u.Role == user.RoleAgent && u.CoachGroup == coachGroup {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserDirectory) Update(u *user.User) error {
	m.users[u.UserID] = u
	return nil
}

type mockStatusCatalog struct{}

func (m *mockStatusCatalog) GetByName(name string) (*status.Status, error) {
	known := []string{
		status.Available, status.Offline, status.OnBreak,
		status.Briefing, status.RequestBreak, status.EmergencyBriefing,
	}
	for _, n := range known {
		if n == name {
			return &status.Status{Name: n}, nil
		}
	}
	return nil, errors.New("unknown status")
}

type mockRuleResolver struct {
	rule *configuration.Configuration
	err  error
}

func (m *mockRuleResolver) RuleForStatus(ctx context.Context, statusName string, u *user.User) (*configuration.Configuration, error) {
	return m.rule, m.err
}

type mockPublisher struct {
	published []events.Event
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return m.err
}

var _ = Describe("StatusRequestService", func() {
	var (
		svc       *statusrequest.Service
		mockRepo  *mockRequestRepository
		mockUsers *mockUserDirectory
		mockRules *mockRuleResolver
		mockBus   *mockPublisher
		logger    *slog.Logger
		now       time.Time
		ctx       context.Context
	)

	// noon, squarely inside a 09:00-17:00 window
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	breakRule := func(minAvail float64) *configuration.Configuration {
		return &configuration.Configuration{
			ID:              1,
			Type:            configuration.TypeBreak,
			StatusName:      status.RequestBreak,
			CoachGroup:      "team-red",
			MinAvailability: minAvail,
			Shift1Start:     "09:00",
			Shift1End:       "17:00",
		}
	}

	// seedGroup adds n agents to team-red, the first `available` of them with
	// an open Available request, the rest On Break.
	seedGroup := func(n, available int) {
		for i := 0; i < n; i++ {
			id := int64(100 + i)
			mockUsers.add(&user.User{
				UserID:     id,
				Role:       user.RoleAgent,
				CoachGroup: "team-red",
				Status:     status.Available,
			})
			name := status.Available
			if i >= available {
				name = status.OnBreak
			}
			mockRepo.requests = append(mockRepo.requests, &statusrequest.StatusRequest{
				ID:             int64(1000 + i),
				UserID:         id,
				StatusName:     name,
				StartedAt:      now.Add(-time.Hour),
				ApprovalStatus: statusrequest.ApprovalApproved,
			})
		}
	}

	BeforeEach(func() {
		mockRepo = newMockRequestRepository()
		mockUsers = newMockUserDirectory()
		mockRules = &mockRuleResolver{}
		mockBus = &mockPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now = noon
		ctx = context.Background()

		svc = statusrequest.NewService(mockRepo, mockUsers, &mockStatusCatalog{}, mockRules, mockBus, logger).
			WithClock(func() time.Time { return now })
	})

	Describe("Submit", func() {
		Context("when an agent requests Available", func() {
			It("should always approve regardless of configuration state", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red", Status: status.OnBreak})
				mockRules.rule = breakRule(80)
				now = time.Date(2026, 3, 10, 3, 0, 0, 0, time.Local) // far outside any window

				// When
				results, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.Available})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results).To(HaveLen(1))
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalApproved))
				Expect(results[0].ApprovedBy).To(Equal(statusrequest.ApproverSystem))
				Expect(results[0].ApprovedAt).ToNot(BeNil())
			})
		})

		Context("when the request falls outside the configured window", func() {
			It("should reject with a time mismatch reason and revert to Available", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red", Status: status.Available})
				mockRules.rule = breakRule(80)
				now = time.Date(2026, 3, 10, 20, 30, 0, 0, time.Local)

				// When
				results, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results).To(HaveLen(1))
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalRejected))
				Expect(results[0].StatusName).To(Equal(status.Available))
				Expect(results[0].Reason).To(ContainSubstring("Time mismatch"))
				Expect(results[0].Reason).To(ContainSubstring("09:00-17:00"))
			})
		})

		Context("when team availability is below the threshold", func() {
			It("should reject with an availability shortfall reason", func() {
				// Given: 3 of 5 agents available = 60%, threshold 80%
				seedGroup(5, 3)
				mockRules.rule = breakRule(80)

				// When
				results, err := svc.Submit(ctx, 100, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results).To(HaveLen(1))
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalRejected))
				Expect(results[0].StatusName).To(Equal(status.Available))
				Expect(results[0].Reason).To(ContainSubstring("60.0"))
				Expect(results[0].Reason).To(ContainSubstring("80%"))
			})
		})

		Context("when team availability meets the threshold", func() {
			It("should approve as System", func() {
				// Given: 9 of 10 agents available = 90%, threshold 80%
				seedGroup(10, 9)
				mockRules.rule = breakRule(80)

				// When
				results, err := svc.Submit(ctx, 100, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalApproved))
				Expect(results[0].ApprovedBy).To(Equal(statusrequest.ApproverSystem))
				Expect(results[0].StatusName).To(Equal(status.RequestBreak))
			})
		})

		Context("when a coach submits for their group", func() {
			It("should create one independently evaluated request per agent", func() {
				// Given
				coach := mockUsers.add(&user.User{UserID: 50, Role: user.RoleCoach, CoachGroup: "team-red"})
				seedGroup(4, 4)
				mockRules.rule = nil

				// When
				results, err := svc.Submit(ctx, coach.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.Briefing})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results).To(HaveLen(4))
				for _, r := range results {
					Expect(r.StatusName).To(Equal(status.Briefing))
				}
			})
		})

		Context("when the user is whitelisted", func() {
			It("should approve even outside every configured window", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red", Whitelisted: true, Status: status.Available})
				mockRules.rule = breakRule(80)
				now = time.Date(2026, 3, 10, 3, 0, 0, 0, time.Local)

				// When
				results, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalApproved))
				Expect(results[0].ApprovedBy).To(Equal(statusrequest.ApproverSystem))
			})
		})

		Context("when an agent requests a privileged status", func() {
			It("should return an authorization error", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red"})

				// When
				_, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.Briefing})

				// Then
				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeStatusNotAllowed))
				Expect(mockRepo.requests).To(BeEmpty())
			})
		})

		Context("when the status name is unknown", func() {
			It("should return a validation error", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent})

				// When
				_, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: "Lunch"})

				// Then
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeUnknownStatus))
			})
		})

		Context("when the status name is missing", func() {
			It("should return a validation error", func() {
				_, err := svc.Submit(ctx, 1, statusrequest.SubmitStatusRequestDTO{})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeMissingStatus))
			})
		})

		Context("when a prior open request exists", func() {
			It("should close it with a rounded, non-negative duration", func() {
				// Given: an open request from 30 minutes ago
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, Status: status.OnBreak})
				open := &statusrequest.StatusRequest{
					ID:         500,
					UserID:     1,
					StatusName: status.OnBreak,
					StartedAt:  now.Add(-30 * time.Minute),
				}
				mockRepo.requests = append(mockRepo.requests, open)

				// When
				_, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.Available})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(open.EndedAt).ToNot(BeNil())
				Expect(open.EndedAt.Equal(now)).To(BeTrue())
				Expect(open.Duration).ToNot(BeNil())
				Expect(*open.Duration).To(Equal(30))
			})
		})

		Context("when a request inherits the shift label", func() {
			It("should reuse the most recent recorded shift name", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, Status: status.Available})
				mockRepo.requests = append(mockRepo.requests, &statusrequest.StatusRequest{
					ID:         500,
					UserID:     1,
					StatusName: status.Available,
					ShiftName:  "Morning",
					StartedAt:  now.Add(-2 * time.Hour),
				})

				// When
				results, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.EmergencyBriefing})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results[0].ShiftName).To(Equal("Morning"))
			})
		})

		Context("when requesting an emergency briefing", func() {
			It("should leave the request pending", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, Status: status.Available})

				// When
				results, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.EmergencyBriefing})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalPending))
				Expect(results[0].ApprovedBy).To(BeEmpty())
				Expect(results[0].ApprovedAt).To(BeNil())
			})
		})

		Context("when a status flip is approved", func() {
			It("should publish a status change with user id and new status", func() {
				// Given
				seedGroup(2, 2)
				mockRules.rule = breakRule(80)

				// When
				_, err := svc.Submit(ctx, 100, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(mockBus.published).To(HaveLen(1))
				evt, ok := mockBus.published[0].(*events.StatusChangedEvent)
				Expect(ok).To(BeTrue())
				Expect(evt.UserID).To(Equal(int64(100)))
				Expect(evt.Status).To(Equal(status.RequestBreak))
			})

			It("should swallow publish failures", func() {
				// Given
				seedGroup(2, 2)
				mockRules.rule = breakRule(80)
				mockBus.err = errors.New("broker down")

				// When
				results, err := svc.Submit(ctx, 100, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalApproved))
			})
		})

		Context("when no configuration matches the status", func() {
			It("should leave the request pending", func() {
				// Given
				agent := mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, Status: status.Available})
				mockRules.rule = nil

				// When
				results, err := svc.Submit(ctx, agent.UserID, statusrequest.SubmitStatusRequestDTO{StatusName: status.RequestBreak})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(results[0].ApprovalStatus).To(Equal(statusrequest.ApprovalPending))
			})
		})
	})

	Describe("DecideEmergencyBriefing", func() {
		var coach, agent *user.User

		BeforeEach(func() {
			coach = mockUsers.add(&user.User{UserID: 50, FirstName: "Dana", LastName: "Cruz", Role: user.RoleCoach, CoachGroup: "team-red"})
			agent = mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red", Status: status.Available})
			mockRepo.requests = append(mockRepo.requests, &statusrequest.StatusRequest{
				ID:             700,
				UserID:         agent.UserID,
				StatusName:     status.EmergencyBriefing,
				StartedAt:      now.Add(-5 * time.Minute),
				ApprovalStatus: statusrequest.ApprovalPending,
			})
		})

		Context("when a coach approves", func() {
			It("should stamp the approver name and decision time", func() {
				// When
				req, err := svc.DecideEmergencyBriefing(ctx, coach.UserID, agent.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: statusrequest.ActionApprove})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(req.ApprovalStatus).To(Equal(statusrequest.ApprovalApproved))
				Expect(req.ApprovedBy).To(Equal("Dana Cruz"))
				Expect(req.ApprovedAt).ToNot(BeNil())
			})

			It("should flip the agent's effective status", func() {
				// When
				_, err := svc.DecideEmergencyBriefing(ctx, coach.UserID, agent.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: statusrequest.ActionApprove})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(agent.Status).To(Equal(status.EmergencyBriefing))
				Expect(mockBus.published).To(HaveLen(1))
			})
		})

		Context("when a coach rejects", func() {
			It("should mark the request rejected without flipping status", func() {
				// When
				req, err := svc.DecideEmergencyBriefing(ctx, coach.UserID, agent.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: statusrequest.ActionReject})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(req.ApprovalStatus).To(Equal(statusrequest.ApprovalRejected))
				Expect(agent.Status).To(Equal(status.Available))
				Expect(mockBus.published).To(BeEmpty())
			})
		})

		Context("when the approver is not a coach", func() {
			It("should return an authorization error", func() {
				// Given
				other := mockUsers.add(&user.User{UserID: 60, Role: user.RoleAgent, CoachGroup: "team-red"})

				// When
				_, err := svc.DecideEmergencyBriefing(ctx, other.UserID, agent.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: statusrequest.ActionApprove})

				// Then
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeCoachOnly))
			})
		})

		Context("when the agent is outside the coach's group", func() {
			It("should return an authorization error", func() {
				// Given
				outsider := mockUsers.add(&user.User{UserID: 2, Role: user.RoleAgent, CoachGroup: "team-blue"})
				mockRepo.requests = append(mockRepo.requests, &statusrequest.StatusRequest{
					ID:             701,
					UserID:         outsider.UserID,
					StatusName:     status.EmergencyBriefing,
					StartedAt:      now,
					ApprovalStatus: statusrequest.ApprovalPending,
				})

				// When
				_, err := svc.DecideEmergencyBriefing(ctx, coach.UserID, outsider.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: statusrequest.ActionApprove})

				// Then
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeOutsideCoachGroup))
			})
		})

		Context("when no pending request exists", func() {
			It("should return not found", func() {
				// Given
				idle := mockUsers.add(&user.User{UserID: 3, Role: user.RoleAgent, CoachGroup: "team-red"})

				// When
				_, err := svc.DecideEmergencyBriefing(ctx, coach.UserID, idle.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: statusrequest.ActionApprove})

				// Then
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeRequestNotFound))
			})
		})

		Context("when the action is invalid", func() {
			It("should return a validation error", func() {
				_, err := svc.DecideEmergencyBriefing(ctx, coach.UserID, agent.UserID, statusrequest.DecideEmergencyBriefingDTO{Action: "maybe"})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidAction))
			})
		})
	})

	Describe("TeamAvailability", func() {
		Context("when the coach group is empty", func() {
			It("should return exactly 0", func() {
				pct, err := svc.TeamAvailability(ctx, "nobody-here")

				Expect(err).ToNot(HaveOccurred())
				Expect(pct).To(BeZero())
			})
		})

		Context("when every latest request is Offline", func() {
			It("should return exactly 0 without dividing by zero", func() {
				// Given
				mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red"})
				mockRepo.requests = append(mockRepo.requests, &statusrequest.StatusRequest{
					ID: 1, UserID: 1, StatusName: status.Offline, StartedAt: now,
				})

				// When
				pct, err := svc.TeamAvailability(ctx, "team-red")

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(pct).To(BeZero())
			})
		})

		Context("when an agent's latest request is Offline", func() {
			It("should drop them from the denominator entirely", func() {
				// Given: agent 1 Available, agent 2's only non-Offline row is
				// older than their Offline one but still counts
				mockUsers.add(&user.User{UserID: 1, Role: user.RoleAgent, CoachGroup: "team-red"})
				mockUsers.add(&user.User{UserID: 2, Role: user.RoleAgent, CoachGroup: "team-red"})
				mockRepo.requests = append(mockRepo.requests,
					&statusrequest.StatusRequest{ID: 1, UserID: 1, StatusName: status.Available, StartedAt: now},
					&statusrequest.StatusRequest{ID: 2, UserID: 2, StatusName: status.OnBreak, StartedAt: now.Add(-time.Hour)},
					&statusrequest.StatusRequest{ID: 3, UserID: 2, StatusName: status.Offline, StartedAt: now},
				)

				// When
				pct, err := svc.TeamAvailability(ctx, "team-red")

				// Then: Offline rows are excluded before picking latest, so
				// agent 2 counts as On Break: 1 of 2 available
				Expect(err).ToNot(HaveOccurred())
				Expect(pct).To(BeNumerically("~", 50.0, 0.001))
			})
		})
	})
})
