package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/statusdesk/statusdesk/internal/status"
)

// StatusRepository implements the status.Repository interface using GORM.
type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) status.Repository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) Create(s *status.Status) error {
	return r.db.Create(s).Error
}

func (r *StatusRepository) GetByID(id int64) (*status.Status, error) {
	var st status.Status
	if err := r.db.Where("id = ?", id).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *StatusRepository) GetByName(name string) (*status.Status, error) {
	var st status.Status
	if err := r.db.Where("name = ?", name).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *StatusRepository) GetAll() ([]*status.Status, error) {
	var statuses []*status.Status
	err := r.db.Order("name ASC").Find(&statuses).Error
	return statuses, err
}

func (r *StatusRepository) Update(s *status.Status) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(s).Error
}

func (r *StatusRepository) Delete(id int64) error {
	return r.db.Delete(&status.Status{}, id).Error
}
