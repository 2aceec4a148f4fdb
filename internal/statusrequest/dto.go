package statusrequest

import "errors"

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type SubmitStatusRequestDTO struct {
	StatusName string `json:"status_name"`
}

func (dto SubmitStatusRequestDTO) Validate() error {
	if dto.StatusName == "" {
		return errors.New("status_name is required")
	}
	return nil
}

type DecideEmergencyBriefingDTO struct {
	Action string `json:"action"`
}

func (dto DecideEmergencyBriefingDTO) Validate() error {
	if dto.Action != ActionApprove && dto.Action != ActionReject {
		return errors.New("action must be approve or reject")
	}
	return nil
}
