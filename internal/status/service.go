package status

import (
	"log/slog"

	internal "github.com/statusdesk/statusdesk/internal"
)

// Repository defines the data access methods for the status catalog.
type Repository interface {
	Create(s *Status) error
	GetByID(id int64) (*Status, error)
	GetByName(name string) (*Status, error)
	GetAll() ([]*Status, error)
	Update(s *Status) error
	Delete(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateStatus(createdBy int64, dto CreateStatusDTO) (*Status, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingStatus)
	}

	st := &Status{
		CreatedBy:   createdBy,
		Name:        dto.Name,
		Description: dto.Description,
	}
	if err := s.repo.Create(st); err != nil {
		s.logger.Error("failed to create status", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("status created", "status_id", st.ID, "name", st.Name)
	return st, nil
}

func (s *Service) GetByName(name string) (*Status, error) {
	st, err := s.repo.GetByName(name)
	if err != nil {
		return nil, internal.ErrStatusNotFound
	}
	return st, nil
}

func (s *Service) GetAll() ([]*Status, error) {
	return s.repo.GetAll()
}

func (s *Service) UpdateStatus(id int64, dto UpdateStatusDTO) (*Status, error) {
	st, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrStatusNotFound
	}

	if dto.Name != nil {
		st.Name = *dto.Name
	}
	if dto.Description != nil {
		st.Description = *dto.Description
	}
	if err := s.repo.Update(st); err != nil {
		s.logger.Error("failed to update status", "error", err, "status_id", id)
		return nil, err
	}
	return st, nil
}

func (s *Service) DeleteStatus(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete status", "error", err, "status_id", id)
		return err
	}
	return nil
}
