package auth

import "errors"

type LoginDTO struct {
	UserID   int64  `json:"user_id"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.UserID == 0 {
		return errors.New("user_id is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type ChangePasswordDTO struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (dto ChangePasswordDTO) Validate() error {
	if dto.OldPassword == "" || dto.NewPassword == "" || dto.ConfirmPassword == "" {
		return errors.New("all fields are required")
	}
	if len(dto.NewPassword) < 6 {
		return errors.New("new password must be at least 6 characters long")
	}
	if dto.NewPassword != dto.ConfirmPassword {
		return errors.New("new password and confirm password do not match")
	}
	return nil
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password"`
}

func (dto ResetPasswordDTO) Validate() error {
	if len(dto.NewPassword) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}
