package models

import (
	"time"
)

// UserModel represents the database model for User
type UserModel struct {
	UserID         string     `gorm:"column:user_id;type:varchar(64);primaryKey"`
	Email          string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex:users_email_key"`
	Mobile         string     `gorm:"column:mobile;type:varchar(32);not null"`
	PasswordHashed string     `gorm:"column:password_hashed;type:varchar(255);not null"`
	RefreshToken   *string    `gorm:"column:refresh_token;type:text"`
	OTP            *string    `gorm:"column:otp;type:varchar(16)"`
	OTPExpiry      *time.Time `gorm:"column:otp_expiry"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null"`
}

func (UserModel) TableName() string {
	return "users"
}
