package shift

import (
	"log/slog"

	internal "github.com/statusdesk/statusdesk/internal"
)

type Repository interface {
	Create(sh *Shift) error
	GetByID(id int64) (*Shift, error)
	GetAllOrderedByStart() ([]*Shift, error)
	Update(sh *Shift) error
	Delete(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateShift(createdBy int64, dto CreateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidWindow)
	}

	sh := &Shift{
		CreatedBy: createdBy,
		Name:      dto.Name,
		Start:     dto.Start,
		End:       dto.End,
	}
	if err := s.repo.Create(sh); err != nil {
		s.logger.Error("failed to create shift", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("shift created", "shift_id", sh.ID, "name", sh.Name, "start", sh.Start, "end", sh.End)
	return sh, nil
}

func (s *Service) GetAll() ([]*Shift, error) {
	return s.repo.GetAllOrderedByStart()
}

func (s *Service) UpdateShift(id int64, dto UpdateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidWindow)
	}

	sh, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrShiftNotFound
	}

	if dto.Name != nil {
		sh.Name = *dto.Name
	}
	if dto.Start != nil {
		sh.Start = *dto.Start
	}
	if dto.End != nil {
		sh.End = *dto.End
	}
	if err := s.repo.Update(sh); err != nil {
		s.logger.Error("failed to update shift", "error", err, "shift_id", id)
		return nil, err
	}
	return sh, nil
}

func (s *Service) DeleteShift(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrShiftNotFound
	}
	return s.repo.Delete(id)
}
