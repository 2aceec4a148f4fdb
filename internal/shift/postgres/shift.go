package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/statusdesk/statusdesk/internal/shift"
)

// ShiftRepository implements the shift.Repository interface using GORM.
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.Repository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(sh *shift.Shift) error {
	return r.db.Create(sh).Error
}

func (r *ShiftRepository) GetByID(id int64) (*shift.Shift, error) {
	var sh shift.Shift
	if err := r.db.Where("id = ?", id).First(&sh).Error; err != nil {
		return nil, err
	}
	return &sh, nil
}

func (r *ShiftRepository) GetAllOrderedByStart() ([]*shift.Shift, error) {
	var shifts []*shift.Shift
	err := r.db.Order("start_clock ASC").Find(&shifts).Error
	return shifts, err
}

func (r *ShiftRepository) Update(sh *shift.Shift) error {
	sh.UpdatedAt = time.Now()
	return r.db.Save(sh).Error
}

func (r *ShiftRepository) Delete(id int64) error {
	return r.db.Delete(&shift.Shift{}, id).Error
}
