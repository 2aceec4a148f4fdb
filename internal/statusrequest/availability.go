package statusrequest

import (
	"context"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/status"
)

// TeamAvailability computes the percentage of a coach group's agents whose
// latest non-Offline request is "Available". Agents whose latest known
// request is Offline drop out of the denominator entirely. Returns 0 for an
// empty group or an empty denominator, never a division error.
func (s *Service) TeamAvailability(ctx context.Context, coachGroup string) (float64, error) {
	agents, err := s.users.GetAgentsByCoachGroup(coachGroup)
	if err != nil {
		s.logger.Error("failed to load coach group", "coach_group", coachGroup, "error", err)
		return 0, internal.NewInternalError("failed to load coach group", err)
	}
	if len(agents) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.UserID)
	}

	requests, err := s.repo.ListNonOffline(ctx, ids)
	if err != nil {
		s.logger.Error("failed to load requests for availability", "coach_group", coachGroup, "error", err)
		return 0, internal.NewInternalError("failed to load requests", err)
	}

	latest := make(map[int64]*StatusRequest, len(agents))
	for _, r := range requests {
		if cur, ok := latest[r.UserID]; !ok || r.StartedAt.After(cur.StartedAt) {
			latest[r.UserID] = r
		}
	}
	if len(latest) == 0 {
		return 0, nil
	}

	available := 0
	for _, r := range latest {
		if r.StatusName == status.Available {
			available++
		}
	}
	return float64(available) / float64(len(latest)) * 100, nil
}
