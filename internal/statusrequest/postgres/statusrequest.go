package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	internal "github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/status"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
)

type StatusRequestRepository struct {
	db *gorm.DB
}

func NewStatusRequestRepository(db *gorm.DB) *StatusRequestRepository {
	return &StatusRequestRepository{db: db}
}

func (r *StatusRequestRepository) Create(ctx context.Context, req *statusrequest.StatusRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// CloseAndCreate closes the user's open request at req.StartedAt and inserts
// req inside one transaction, keeping the one-open-row-per-user invariant
// under concurrent submissions.
func (r *StatusRequestRepository) CloseAndCreate(ctx context.Context, req *statusrequest.StatusRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open statusrequest.StatusRequest
		err := tx.Where("user_id = ? AND ended_at IS NULL", req.UserID).
			Order("started_at DESC").
			First(&open).Error
		switch {
		case err == nil:
			open.CloseAt(req.StartedAt)
			if err := tx.Save(&open).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Create(req).Error
	})
}

func (r *StatusRequestRepository) FindOpenByUserID(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error) {
	var req statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ended_at IS NULL", userID).
		Order("started_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindLastShiftName returns the most recently recorded shift label for the
// user, or empty when none was ever detected.
func (r *StatusRequestRepository) FindLastShiftName(ctx context.Context, userID int64) (string, error) {
	var req statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND shift_name <> ''", userID).
		Order("started_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return req.ShiftName, nil
}

// FindLatestLogin returns the user's most recent login marker row.
func (r *StatusRequestRepository) FindLatestLogin(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error) {
	var req statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND login_logout = ?", userID, statusrequest.MarkerLogin).
		Order("started_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *StatusRequestRepository) FindLatestPendingEmergency(ctx context.Context, userID int64) (*statusrequest.StatusRequest, error) {
	var req statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status_name = ? AND approval_status = ?",
			userID, status.EmergencyBriefing, statusrequest.ApprovalPending).
		Order("started_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *StatusRequestRepository) ListNonOffline(ctx context.Context, userIDs []int64) ([]*statusrequest.StatusRequest, error) {
	var reqs []*statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status_name <> ?", userIDs, status.Offline).
		Order("started_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *StatusRequestRepository) ListByUserID(ctx context.Context, userID int64) ([]*statusrequest.StatusRequest, error) {
	var reqs []*statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *StatusRequestRepository) ListAll(ctx context.Context) ([]*statusrequest.StatusRequest, error) {
	var reqs []*statusrequest.StatusRequest
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *StatusRequestRepository) Update(ctx context.Context, req *statusrequest.StatusRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// RestampShiftName relabels the user's requests created since the given
// instant with a freshly detected shift. Used at login when the detected
// shift differs from what earlier rows inherited.
func (r *StatusRequestRepository) RestampShiftName(ctx context.Context, userID int64, shiftName string, since time.Time) error {
	return r.db.WithContext(ctx).
		Model(&statusrequest.StatusRequest{}).
		Where("user_id = ? AND started_at >= ?", userID, since).
		Update("shift_name", shiftName).Error
}
