package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/statusdesk/statusdesk/internal/user"
)

// UserRepository implements the user.Repository interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByUserID(userID int64) (*user.User, error) {
	var u user.User
	if err := r.db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("user_id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetAgents() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("role = ?", user.RoleAgent).
		Order("user_id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) GetAgentsByCoachGroup(coachGroup string) ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("role = ? AND coach_group = ?", user.RoleAgent, coachGroup).
		Order("user_id ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&user.User{}).Error
}

func (r *UserRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&user.User{}).Error
}
