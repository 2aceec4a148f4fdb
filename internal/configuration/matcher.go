package configuration

import (
	"strings"

	"github.com/statusdesk/statusdesk/internal/user"
)

// Match walks the candidate rules against the user's group memberships in a
// fixed precedence order: coach group first, then supervisor group, manager
// group, skill and finally channel. The first rule whose group field matches
// (case-insensitively) wins. When no field matches, the newest candidate is
// returned so an agent is never left without a governing rule; callers pass
// candidates newest-first.
func Match(candidates []*Configuration, u *user.User) *Configuration {
	if len(candidates) == 0 {
		return nil
	}

	dimensions := []struct {
		userGroup string
		cfgGroup  func(*Configuration) string
	}{
		{u.CoachGroup, func(c *Configuration) string { return c.CoachGroup }},
		{u.SupervisorGroup, func(c *Configuration) string { return c.SupervisorGroup }},
		{u.ManagerGroup, func(c *Configuration) string { return c.ManagerGroup }},
		{u.Skill, func(c *Configuration) string { return c.Skill }},
		{u.Channel, func(c *Configuration) string { return c.Channel }},
	}

	for _, dim := range dimensions {
		if dim.userGroup == "" {
			continue
		}
		for _, cfg := range candidates {
			if g := dim.cfgGroup(cfg); g != "" && strings.EqualFold(g, dim.userGroup) {
				return cfg
			}
		}
	}

	return candidates[0]
}

// FilterByStatus returns the rules registered for the given status name,
// preserving order.
func FilterByStatus(configs []*Configuration, statusName string) []*Configuration {
	var out []*Configuration
	for _, cfg := range configs {
		if strings.EqualFold(cfg.StatusName, statusName) {
			out = append(out, cfg)
		}
	}
	return out
}

// FilterByType returns the rules of the given type, preserving order.
func FilterByType(configs []*Configuration, cfgType string) []*Configuration {
	var out []*Configuration
	for _, cfg := range configs {
		if cfg.Type == cfgType {
			out = append(out, cfg)
		}
	}
	return out
}
