package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/configuration"
)

type ConfigurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

func (r *ConfigurationRepository) Create(ctx context.Context, cfg *configuration.Configuration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *ConfigurationRepository) GetByID(ctx context.Context, id int64) (*configuration.Configuration, error) {
	var cfg configuration.Configuration
	err := r.db.WithContext(ctx).First(&cfg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigurationRepository) ListNewestFirst(ctx context.Context) ([]*configuration.Configuration, error) {
	var configs []*configuration.Configuration
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&configs).Error
	return configs, err
}

func (r *ConfigurationRepository) ListByType(ctx context.Context, cfgType string) ([]*configuration.Configuration, error) {
	var configs []*configuration.Configuration
	err := r.db.WithContext(ctx).
		Where("cfg_type = ?", cfgType).
		Order("created_at DESC").
		Find(&configs).Error
	return configs, err
}

func (r *ConfigurationRepository) ListByStatusName(ctx context.Context, statusName string) ([]*configuration.Configuration, error) {
	var configs []*configuration.Configuration
	err := r.db.WithContext(ctx).
		Where("LOWER(status_name) = LOWER(?)", statusName).
		Order("created_at DESC").
		Find(&configs).Error
	return configs, err
}

func (r *ConfigurationRepository) Update(ctx context.Context, cfg *configuration.Configuration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&configuration.Configuration{}, id).Error
}
