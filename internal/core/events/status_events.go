package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStatusChanged     = "status.changed"
	EventTypeRestrictionNotice = "eligibility.restriction"
	EventTypeWhitelistChanged  = "user.whitelist_changed"
	EventTypeConfigChanged     = "configuration.changed"
	EventTypeUserLoggedIn      = "user.logged_in"
	EventTypeUserLoggedOut     = "user.logged_out"
)

// StatusChangedEvent is broadcast whenever a user's effective status flips.
// The payload contract (user id + status string) is what dashboards consume.
type StatusChangedEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

func NewStatusChangedEvent(userID int64, status string) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"status":  status,
			},
		},
		UserID: userID,
		Status: status,
	}
}

// RestrictionNoticeEvent is broadcast when the sweep turns a user's break
// eligibility off. Reason is empty when eligibility is restored.
type RestrictionNoticeEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	ConfigID int64  `json:"config_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func NewRestrictionNoticeEvent(userID, configID int64, reason string) *RestrictionNoticeEvent {
	return &RestrictionNoticeEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRestrictionNotice,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":   userID,
				"config_id": configID,
				"reason":    reason,
			},
		},
		UserID:   userID,
		ConfigID: configID,
		Reason:   reason,
	}
}

type WhitelistChangedEvent struct {
	BaseEvent
	UserID      int64 `json:"user_id"`
	Whitelisted bool  `json:"whitelisted"`
}

func NewWhitelistChangedEvent(userID int64, whitelisted bool) *WhitelistChangedEvent {
	return &WhitelistChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWhitelistChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     userID,
				"whitelisted": whitelisted,
			},
		},
		UserID:      userID,
		Whitelisted: whitelisted,
	}
}

// ConfigChangedEvent re-triggers the eligibility sweep after a rule change.
type ConfigChangedEvent struct {
	BaseEvent
	ConfigID int64  `json:"config_id"`
	CfgType  string `json:"cfg_type"`
}

func NewConfigChangedEvent(configID int64, cfgType string) *ConfigChangedEvent {
	return &ConfigChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeConfigChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"config_id": configID,
				"cfg_type":  cfgType,
			},
		},
		ConfigID: configID,
		CfgType:  cfgType,
	}
}

type UserLoggedInEvent struct {
	BaseEvent
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	ShiftName string `json:"shift_name,omitempty"`
}

func NewUserLoggedInEvent(userID int64, name, status, shiftName string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"name":       name,
				"status":     status,
				"shift_name": shiftName,
			},
		},
		UserID:    userID,
		Name:      name,
		Status:    status,
		ShiftName: shiftName,
	}
}

type UserLoggedOutEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

func NewUserLoggedOutEvent(userID int64, status string) *UserLoggedOutEvent {
	return &UserLoggedOutEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedOut,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"status":  status,
			},
		},
		UserID: userID,
		Status: status,
	}
}
