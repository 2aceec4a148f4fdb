package configuration

import (
	"context"
	"log/slog"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/user"
)

type Repository interface {
	Create(ctx context.Context, cfg *Configuration) error
	GetByID(ctx context.Context, id int64) (*Configuration, error)
	ListNewestFirst(ctx context.Context) ([]*Configuration, error)
	ListByType(ctx context.Context, cfgType string) ([]*Configuration, error)
	ListByStatusName(ctx context.Context, statusName string) ([]*Configuration, error)
	Update(ctx context.Context, cfg *Configuration) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateConfiguration(ctx context.Context, createdBy int64, dto CreateConfigurationDTO) (*Configuration, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	cfgType := dto.Type
	if cfgType == "" {
		cfgType = TypeBreak
	}
	minAvail := dto.MinAvailability
	if minAvail == 0 {
		minAvail = DefaultMinAvailability
	}

	cfg := &Configuration{
		CreatedBy:       createdBy,
		Type:            cfgType,
		StatusName:      dto.StatusName,
		Channel:         dto.Channel,
		Skill:           dto.Skill,
		ManagerGroup:    dto.ManagerGroup,
		SupervisorGroup: dto.SupervisorGroup,
		CoachGroup:      dto.CoachGroup,
		MinAvailability: minAvail,
		Shift1Start:     dto.Shift1Start,
		Shift1End:       dto.Shift1End,
		Shift2Start:     dto.Shift2Start,
		Shift2End:       dto.Shift2End,
		Briefing1Start:  dto.Briefing1Start,
		Briefing1End:    dto.Briefing1End,
		Briefing2Start:  dto.Briefing2Start,
		Briefing2End:    dto.Briefing2End,
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		s.logger.Error("failed to create configuration", "error", err)
		return nil, internal.NewInternalError("failed to create configuration", err)
	}

	s.publishChanged(ctx, cfg)
	return cfg, nil
}

func (s *Service) GetConfiguration(ctx context.Context, id int64) (*Configuration, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrConfigNotFound
	}
	return cfg, nil
}

// ListConfigurations returns all rules newest first.
func (s *Service) ListConfigurations(ctx context.Context) ([]*Configuration, error) {
	configs, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		s.logger.Error("failed to list configurations", "error", err)
		return nil, internal.NewInternalError("failed to list configurations", err)
	}
	return configs, nil
}

func (s *Service) ListByType(ctx context.Context, cfgType string) ([]*Configuration, error) {
	configs, err := s.repo.ListByType(ctx, cfgType)
	if err != nil {
		s.logger.Error("failed to list configurations", "type", cfgType, "error", err)
		return nil, internal.NewInternalError("failed to list configurations", err)
	}
	return configs, nil
}

// RuleForStatus resolves the governing rule for a user requesting the named
// status. Returns nil when no rule is registered for that status at all.
func (s *Service) RuleForStatus(ctx context.Context, statusName string, u *user.User) (*Configuration, error) {
	configs, err := s.repo.ListByStatusName(ctx, statusName)
	if err != nil {
		s.logger.Error("failed to load configurations for status", "status", statusName, "error", err)
		return nil, internal.NewInternalError("failed to load configurations", err)
	}
	return Match(configs, u), nil
}

// RuleForType resolves the governing rule of the given type for a user.
func (s *Service) RuleForType(ctx context.Context, cfgType string, u *user.User) (*Configuration, error) {
	configs, err := s.repo.ListByType(ctx, cfgType)
	if err != nil {
		s.logger.Error("failed to load configurations for type", "type", cfgType, "error", err)
		return nil, internal.NewInternalError("failed to load configurations", err)
	}
	return Match(configs, u), nil
}

// UpdateConfiguration edits a rule in place. Group and window changes take
// effect on the next admission decision and sweep pass.
func (s *Service) UpdateConfiguration(ctx context.Context, id int64, dto UpdateConfigurationDTO) (*Configuration, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrConfigNotFound
	}

	applyString(&cfg.StatusName, dto.StatusName)
	applyString(&cfg.Channel, dto.Channel)
	applyString(&cfg.Skill, dto.Skill)
	applyString(&cfg.ManagerGroup, dto.ManagerGroup)
	applyString(&cfg.SupervisorGroup, dto.SupervisorGroup)
	applyString(&cfg.CoachGroup, dto.CoachGroup)
	applyString(&cfg.Shift1Start, dto.Shift1Start)
	applyString(&cfg.Shift1End, dto.Shift1End)
	applyString(&cfg.Shift2Start, dto.Shift2Start)
	applyString(&cfg.Shift2End, dto.Shift2End)
	applyString(&cfg.Briefing1Start, dto.Briefing1Start)
	applyString(&cfg.Briefing1End, dto.Briefing1End)
	applyString(&cfg.Briefing2Start, dto.Briefing2Start)
	applyString(&cfg.Briefing2End, dto.Briefing2End)
	if dto.MinAvailability != nil {
		cfg.MinAvailability = *dto.MinAvailability
	}

	if err := s.repo.Update(ctx, cfg); err != nil {
		s.logger.Error("failed to update configuration", "configuration_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update configuration", err)
	}

	s.publishChanged(ctx, cfg)
	return cfg, nil
}

func (s *Service) DeleteConfiguration(ctx context.Context, id int64) error {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.ErrConfigNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete configuration", "configuration_id", id, "error", err)
		return internal.NewInternalError("failed to delete configuration", err)
	}

	s.publishChanged(ctx, cfg)
	return nil
}

func (s *Service) publishChanged(ctx context.Context, cfg *Configuration) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewConfigChangedEvent(cfg.ID, cfg.Type)); err != nil {
		s.logger.Error("failed to publish configuration change", "configuration_id", cfg.ID, "error", err)
	}
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
