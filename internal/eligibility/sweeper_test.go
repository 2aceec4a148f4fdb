package eligibility_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/statusdesk/statusdesk/internal/configuration"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/eligibility"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/user"
)

type mockAgentStore struct {
	agents   []*user.User
	getError error
	updated  []int64
}

func (m *mockAgentStore) GetAgents() ([]*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.agents, nil
}

func (m *mockAgentStore) Update(u *user.User) error {
	m.updated = append(m.updated, u.UserID)
	return nil
}

type mockConfigSource struct {
	configs []*configuration.Configuration
	err     error
}

func (m *mockConfigSource) ListConfigurations(ctx context.Context) ([]*configuration.Configuration, error) {
	return m.configs, m.err
}

type mockAvailability struct {
	pct float64
	err error
}

func (m *mockAvailability) TeamAvailability(ctx context.Context, coachGroup string) (float64, error) {
	return m.pct, m.err
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("EligibilitySweep", func() {
	var (
		svc       *eligibility.Service
		agents    *mockAgentStore
		configs   *mockConfigSource
		avail     *mockAvailability
		publisher *mockPublisher
		now       time.Time
		ctx       context.Context
	)

	// noon, inside the break window below, outside the briefing window
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	newAgent := func(id int64, currentStatus string, canTakeBreak bool) *user.User {
		return &user.User{
			UserID:       id,
			Role:         user.RoleAgent,
			CoachGroup:   "team-red",
			Status:       currentStatus,
			CanTakeBreak: canTakeBreak,
		}
	}

	BeforeEach(func() {
		agents = &mockAgentStore{}
		configs = &mockConfigSource{
			configs: []*configuration.Configuration{
				{
					ID:              1,
					Type:            configuration.TypeBreak,
					CoachGroup:      "team-red",
					MinAvailability: 80,
					Shift1Start:     "09:00",
					Shift1End:       "17:00",
				},
				{
					ID:             2,
					Type:           configuration.TypeBriefing,
					CoachGroup:     "team-red",
					Briefing1Start: "18:00",
					Briefing1End:   "19:00",
				},
			},
		}
		avail = &mockAvailability{pct: 90}
		publisher = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now = noon
		ctx = context.Background()

		svc = eligibility.NewService(agents, configs, avail, publisher, logger).
			WithClock(func() time.Time { return now })
	})

	Context("when the agent is whitelisted", func() {
		It("should force eligibility true without other checks", func() {
			a := newAgent(1, status.OnBreak, false)
			a.Whitelisted = true
			agents.agents = []*user.User{a}
			avail.pct = 0

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(a.CanTakeBreak).To(BeTrue())
			Expect(agents.updated).To(ContainElement(int64(1)))
		})

		It("should not rewrite an already eligible whitelisted agent", func() {
			a := newAgent(1, status.Available, true)
			a.Whitelisted = true
			agents.agents = []*user.User{a}

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(agents.updated).To(BeEmpty())
		})
	})

	Context("when inside the break window with sufficient availability", func() {
		It("should mark an Available agent eligible", func() {
			a := newAgent(1, status.Available, false)
			agents.agents = []*user.User{a}

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(a.CanTakeBreak).To(BeTrue())
		})
	})

	Context("when availability falls below the threshold", func() {
		It("should restrict with a shortfall reason", func() {
			a := newAgent(1, status.Available, true)
			agents.agents = []*user.User{a}
			avail.pct = 55

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(a.CanTakeBreak).To(BeFalse())
			Expect(publisher.published).To(HaveLen(1))

			evt := publisher.published[0].(*events.RestrictionNoticeEvent)
			Expect(evt.UserID).To(Equal(int64(1)))
			Expect(evt.ConfigID).To(Equal(int64(1)))
			Expect(evt.Reason).To(ContainSubstring("55.0"))
			Expect(evt.Reason).To(ContainSubstring("80%"))
		})
	})

	Context("when inside a briefing window", func() {
		It("should be eligible regardless of availability", func() {
			a := newAgent(1, status.Available, false)
			agents.agents = []*user.User{a}
			avail.pct = 0
			now = time.Date(2026, 3, 10, 18, 30, 0, 0, time.Local)

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(a.CanTakeBreak).To(BeTrue())
		})
	})

	Context("when outside every window", func() {
		It("should restrict with the outside-window reason", func() {
			a := newAgent(1, status.Available, true)
			agents.agents = []*user.User{a}
			now = time.Date(2026, 3, 10, 3, 0, 0, 0, time.Local)

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(a.CanTakeBreak).To(BeFalse())

			evt := publisher.published[0].(*events.RestrictionNoticeEvent)
			Expect(evt.Reason).To(Equal("Outside allowed break/briefing window"))
		})
	})

	Context("when the agent is not Available", func() {
		It("should force ineligibility", func() {
			a := newAgent(1, status.OnBreak, true)
			agents.agents = []*user.User{a}

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(a.CanTakeBreak).To(BeFalse())
		})
	})

	Context("when nothing flips", func() {
		It("should neither persist nor publish", func() {
			a := newAgent(1, status.Available, true)
			agents.agents = []*user.User{a}

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(agents.updated).To(BeEmpty())
			Expect(publisher.published).To(BeEmpty())
		})
	})

	Context("when no configurations exist", func() {
		It("should leave everything untouched", func() {
			a := newAgent(1, status.Available, true)
			agents.agents = []*user.User{a}
			configs.configs = nil

			Expect(svc.Recompute(ctx)).To(Succeed())
			Expect(agents.updated).To(BeEmpty())
		})
	})

	Context("when the agent load fails", func() {
		It("should surface the error", func() {
			agents.getError = errors.New("db down")

			Expect(svc.Recompute(ctx)).ToNot(Succeed())
		})
	})
})
