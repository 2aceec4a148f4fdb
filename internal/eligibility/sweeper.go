// Package eligibility recomputes every agent's break-eligibility flag
// against whitelisting, the matched rule windows and team availability. It
// runs on a fixed interval and again after any configuration or whitelist
// change.
package eligibility

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/statusdesk/statusdesk/internal/configuration"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/timewindow"
	"github.com/statusdesk/statusdesk/internal/user"
)

const reasonOutsideWindow = "Outside allowed break/briefing window"

// AgentStore is the slice of the user store the sweep reads and mutates.
type AgentStore interface {
	GetAgents() ([]*user.User, error)
	Update(u *user.User) error
}

// ConfigSource supplies the full rule set, newest first.
type ConfigSource interface {
	ListConfigurations(ctx context.Context) ([]*configuration.Configuration, error)
}

// AvailabilityCalculator computes a coach group's availability percentage.
// Implemented by the status request service.
type AvailabilityCalculator interface {
	TeamAvailability(ctx context.Context, coachGroup string) (float64, error)
}

type Service struct {
	agents       AgentStore
	configs      ConfigSource
	availability AvailabilityCalculator
	publisher    events.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(agents AgentStore, configs ConfigSource, availability AvailabilityCalculator, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		agents:       agents,
		configs:      configs,
		availability: availability,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Recompute re-evaluates CanTakeBreak for every agent. Per-agent failures are
// logged and skipped so one bad row never stalls the whole pass.
func (s *Service) Recompute(ctx context.Context) error {
	configs, err := s.configs.ListConfigurations(ctx)
	if err != nil {
		s.logger.Error("sweep: failed to load configurations", "error", err)
		return err
	}
	if len(configs) == 0 {
		return nil
	}

	agents, err := s.agents.GetAgents()
	if err != nil {
		s.logger.Error("sweep: failed to load agents", "error", err)
		return err
	}

	now := s.now()
	breakRules := configuration.FilterByType(configs, configuration.TypeBreak)
	briefRules := configuration.FilterByType(configs, configuration.TypeBriefing)

	for _, agent := range agents {
		if err := s.recomputeAgent(ctx, agent, breakRules, briefRules, now); err != nil {
			s.logger.Error("sweep: failed to recompute agent",
				"user_id", agent.UserID, "error", err)
		}
	}
	return nil
}

func (s *Service) recomputeAgent(ctx context.Context, agent *user.User, breakRules, briefRules []*configuration.Configuration, now time.Time) error {
	if agent.Whitelisted {
		if !agent.CanTakeBreak {
			agent.CanTakeBreak = true
			return s.agents.Update(agent)
		}
		return nil
	}

	breakRule := configuration.Match(breakRules, agent)
	briefRule := configuration.Match(briefRules, agent)

	cur := timewindow.DecimalHour(now)
	inBreak := breakRule != nil &&
		(timewindow.InRange(cur, clockHour(breakRule.Shift1Start), clockHour(breakRule.Shift1End)) ||
			timewindow.InRange(cur, clockHour(breakRule.Shift2Start), clockHour(breakRule.Shift2End)))
	inBriefing := briefRule != nil &&
		(timewindow.InRange(cur, clockHour(briefRule.Briefing1Start), clockHour(briefRule.Briefing1End)) ||
			timewindow.InRange(cur, clockHour(briefRule.Briefing2Start), clockHour(briefRule.Briefing2End)))

	eligible := false
	reason := ""

	if agent.Status == status.Available {
		switch {
		case inBriefing:
			eligible = true
		case inBreak:
			pct, err := s.availability.TeamAvailability(ctx, agent.CoachGroup)
			if err != nil {
				return err
			}
			threshold := configuration.DefaultMinAvailability
			if breakRule != nil {
				threshold = breakRule.Threshold()
			}
			if pct >= threshold {
				eligible = true
			} else {
				reason = fmt.Sprintf("Team availability (%.1f%%) below threshold (%g%%)", pct, threshold)
			}
		default:
			reason = reasonOutsideWindow
		}
	}

	if agent.CanTakeBreak == eligible {
		return nil
	}

	agent.CanTakeBreak = eligible
	if err := s.agents.Update(agent); err != nil {
		return err
	}

	var configID int64
	switch {
	case breakRule != nil:
		configID = breakRule.ID
	case briefRule != nil:
		configID = briefRule.ID
	}
	if err := s.publisher.Publish(ctx, events.NewRestrictionNoticeEvent(agent.UserID, configID, reason)); err != nil {
		s.logger.Error("sweep: failed to publish restriction notice",
			"user_id", agent.UserID, "error", err)
	}
	return nil
}

func clockHour(clock string) float64 {
	m := timewindow.ClockMinutes(clock)
	if m == timewindow.Unset {
		return timewindow.Unset
	}
	return float64(m) / 60
}
